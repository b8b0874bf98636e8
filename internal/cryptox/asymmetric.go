package cryptox

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

const pemPrivateKeyType = "PRIVATE KEY"

var ErrNotRSAKey = errors.New("private key is not RSA")

// ParsePrivateKey parses the bytes recovered from the user's wrapped private
// key. The client exports PKCS#8 DER; the bytes are framed as a PEM
// "PRIVATE KEY" block before parsing, and input that already is PEM text is
// accepted as is.
func ParsePrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	var encoded []byte
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("-----BEGIN")) {
		encoded = raw
	} else {
		encoded = pem.EncodeToMemory(&pem.Block{Type: pemPrivateKeyType, Bytes: raw})
	}

	block, _ := pem.Decode(encoded)
	if block == nil || block.Type != pemPrivateKeyType {
		return nil, errors.New("no PEM private key block")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse pkcs8: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return rsaKey, nil
}

// UnwrapKey RSA-OAEP decrypts a base64 blob with SHA-512 as hash and MGF1
// hash and an empty label.
func UnwrapKey(priv *rsa.PrivateKey, wrapped string) ([]byte, error) {
	ct, err := DecodeBase64(wrapped)
	if err != nil {
		return nil, err
	}
	key, err := rsa.DecryptOAEP(sha512.New(), nil, priv, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("rsa-oaep: %w", err)
	}
	return key, nil
}

// WrapKey is the inverse of UnwrapKey and returns standard base64.
func WrapKey(pub *rsa.PublicKey, key []byte) (string, error) {
	ct, err := rsa.EncryptOAEP(sha512.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return "", fmt.Errorf("rsa-oaep: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}
