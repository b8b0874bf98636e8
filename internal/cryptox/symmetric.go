package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrAuthentication means the GCM tag did not verify: wrong key or
	// tampered ciphertext.
	ErrAuthentication = errors.New("authentication tag mismatch")
	// ErrIntegrity means the tag verified but the embedded hash prefix did not
	// match the payload.
	ErrIntegrity = errors.New("hash prefix mismatch")

	ErrInvalidIV           = fmt.Errorf("iv must be %d bytes", IVLength)
	ErrInvalidKey          = fmt.Errorf("key must be %d bytes", KeyLength)
	ErrCiphertextTooShort  = errors.New("ciphertext shorter than tag")
	ErrInvalidBase64       = errors.New("invalid base64")
	errPlaintextPrefixSize = errors.New("plaintext shorter than hash prefix")
)

// DeriveKey runs PBKDF2-HMAC-SHA512 and returns a KeyLength-byte AES key.
func DeriveKey(password, salt []byte, iterations int) []byte {
	return pbkdf2.Key(password, salt, iterations, KeyLength, sha512.New)
}

// HashPrefix returns the first HashLength characters of the standard base64
// encoding of SHA-512(data).
func HashPrefix(data []byte) []byte {
	sum := sha512.Sum512(data)
	enc := base64.StdEncoding.EncodeToString(sum[:])
	return []byte(enc[:HashLength])
}

// DecodeBase64 accepts padded and unpadded standard base64.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	b, rawErr := base64.RawStdEncoding.DecodeString(s)
	if rawErr == nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// SymEncrypt encrypts plaintext with AES-256-GCM and returns base64 of
// ciphertext||tag. With hashPrefix the payload becomes
// HashPrefix(plaintext)||plaintext.
func SymEncrypt(iv, plaintext, key []byte, hashPrefix bool) (string, error) {
	if len(iv) != IVLength {
		return "", ErrInvalidIV
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	msg := plaintext
	if hashPrefix {
		msg = make([]byte, 0, HashLength+len(plaintext))
		msg = append(msg, HashPrefix(plaintext)...)
		msg = append(msg, plaintext...)
		defer common.WipeByteArray(msg)
	}

	ct := gcm.Seal(nil, iv, msg, nil)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// SymDecrypt reverses SymEncrypt. A tag failure returns ErrAuthentication and
// a prefix failure returns ErrIntegrity; plaintext is never returned together
// with an error. An empty, successfully verified plaintext is returned as a
// non-nil empty slice.
func SymDecrypt(iv []byte, data string, key []byte, hashPrefix bool) ([]byte, error) {
	if len(iv) != IVLength {
		return nil, ErrInvalidIV
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	raw, err := DecodeBase64(data)
	if err != nil {
		return nil, err
	}
	if len(raw) < TagLength {
		return nil, ErrCiphertextTooShort
	}

	pt, err := gcm.Open(nil, iv, raw, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	if !hashPrefix {
		if pt == nil {
			pt = []byte{}
		}
		return pt, nil
	}

	if len(pt) < HashLength {
		common.WipeByteArray(pt)
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, errPlaintextPrefixSize)
	}
	prefix, body := pt[:HashLength], pt[HashLength:]
	if subtle.ConstantTimeCompare(prefix, HashPrefix(body)) != 1 {
		common.WipeByteArray(pt)
		return nil, ErrIntegrity
	}

	out := make([]byte, len(body))
	copy(out, body)
	common.WipeByteArray(pt)
	return out, nil
}

// NewIV returns a fresh random IVLength-byte nonce.
func NewIV() []byte {
	return common.GenerateRandByteArray(IVLength)
}

// NewSalt returns a fresh random SaltLength-byte salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltLength)
}
