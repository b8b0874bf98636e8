package cryptox

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	return DeriveKey([]byte("secret-password"), []byte("fixed-salt-fixed-salt-fixed-salt"), 10)
}

func TestDeriveKey_KnownVector(t *testing.T) {
	// PBKDF2-HMAC-SHA512, P="password", S="salt", c=1, first 32 bytes.
	key := DeriveKey([]byte("password"), []byte("salt"), 1)
	assert.Equal(t, "867f70cf1ade02cff3752599a3a53dc4af34c7a669815ae5d513554e1c8cf252", hex.EncodeToString(key))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := NewSalt()
	k1 := DeriveKey([]byte("pw"), salt, 1000)
	k2 := DeriveKey([]byte("pw"), salt, 1000)
	require.Equal(t, k1, k2)
	require.Len(t, k1, KeyLength)

	k3 := DeriveKey([]byte("pw"), salt, 1001)
	require.NotEqual(t, k1, k3, "iteration count must change the key")
}

func TestHashPrefix_EmptyInput(t *testing.T) {
	// base64(sha512("")) starts with "z4PhNX7vuL3x..."
	assert.Equal(t, []byte("z4PhNX7vuL"), HashPrefix(nil))
	assert.Len(t, HashPrefix([]byte("anything")), HashLength)
}

func TestSymmetric_RoundTrip(t *testing.T) {
	key := testKey(t)
	iv := NewIV()

	tests := []struct {
		name       string
		plaintext  []byte
		hashPrefix bool
	}{
		{"with prefix", []byte("hello"), true},
		{"without prefix", []byte("hello"), false},
		{"empty with prefix", []byte{}, true},
		{"binary", []byte{0, 1, 2, 255}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := SymEncrypt(iv, tt.plaintext, key, tt.hashPrefix)
			require.NoError(t, err)

			pt, err := SymDecrypt(iv, ct, key, tt.hashPrefix)
			require.NoError(t, err)
			require.NotNil(t, pt)
			assert.Equal(t, tt.plaintext, pt)
		})
	}
}

func TestSymEncrypt_LayoutMatchesWebCrypto(t *testing.T) {
	key := testKey(t)
	iv := NewIV()

	ct, err := SymEncrypt(iv, []byte("hello"), key, true)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(ct)
	require.NoError(t, err)
	assert.Len(t, raw, HashLength+len("hello")+TagLength)
}

func TestSymDecrypt_WrongKey(t *testing.T) {
	iv := NewIV()
	ct, err := SymEncrypt(iv, []byte("hello"), testKey(t), true)
	require.NoError(t, err)

	other := DeriveKey([]byte("other"), []byte("salt"), 10)
	_, err = SymDecrypt(iv, ct, other, true)
	require.ErrorIs(t, err, ErrAuthentication)
}

func TestSymDecrypt_TamperedCiphertext(t *testing.T) {
	key := testKey(t)
	iv := NewIV()
	ct, err := SymEncrypt(iv, []byte("hello world"), key, true)
	require.NoError(t, err)

	raw, _ := base64.StdEncoding.DecodeString(ct)
	for i := range raw {
		flipped := append([]byte(nil), raw...)
		flipped[i] ^= 0x01
		_, err := SymDecrypt(iv, base64.StdEncoding.EncodeToString(flipped), key, true)
		require.ErrorIs(t, err, ErrAuthentication, "byte %d", i)
	}
}

func TestSymDecrypt_BadHashPrefix(t *testing.T) {
	key := testKey(t)
	iv := NewIV()

	// A valid GCM message whose first bytes are not the hash of the rest.
	forged := append([]byte("0123456789"), []byte("payload")...)
	ct, err := SymEncrypt(iv, forged, key, false)
	require.NoError(t, err)

	pt, err := SymDecrypt(iv, ct, key, true)
	require.ErrorIs(t, err, ErrIntegrity)
	assert.Nil(t, pt)
}

func TestSymDecrypt_ShortPlaintextIsIntegrityFailure(t *testing.T) {
	key := testKey(t)
	iv := NewIV()
	ct, err := SymEncrypt(iv, []byte("abc"), key, false)
	require.NoError(t, err)

	_, err = SymDecrypt(iv, ct, key, true)
	require.ErrorIs(t, err, ErrIntegrity)
}

func TestSymDecrypt_InputValidation(t *testing.T) {
	key := testKey(t)

	_, err := SymDecrypt([]byte("short"), "AAAA", key, true)
	require.ErrorIs(t, err, ErrInvalidIV)

	_, err = SymDecrypt(NewIV(), "AAAA", key[:16], true)
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = SymDecrypt(NewIV(), "!!!not base64!!!", key, true)
	require.ErrorIs(t, err, ErrInvalidBase64)

	_, err = SymDecrypt(NewIV(), base64.StdEncoding.EncodeToString([]byte("tiny")), key, true)
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestDecodeBase64_AcceptsUnpadded(t *testing.T) {
	b, err := DecodeBase64("aGVsbG8")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)
}
