package cryptox

import (
	"encoding/json"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
)

// SealJSON serializes v to JSON and encrypts it with SymEncrypt using the
// hash prefix.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("pw"), salt, cryptox.ExportIterations)
//	iv := cryptox.NewIV()
//	data, err := cryptox.SealJSON(entries, iv, key)
func SealJSON(v any, iv, key []byte) (string, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(plaintext)

	return SymEncrypt(iv, plaintext, key, true)
}

// OpenJSON decrypts data produced by SealJSON and unmarshals it into v.
func OpenJSON(iv []byte, data string, key []byte, v any) error {
	plaintext, err := SymDecrypt(iv, data, key, true)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}
