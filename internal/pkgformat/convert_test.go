package pkgformat

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlain() *Plain {
	ts := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	return NewPlain(&models.PlainVault{
		ID:   1,
		UUID: "v-1",
		Name: "Personal",
		Entries: []*models.PlainEntry{
			{
				ID:        1,
				UUID:      "e-1",
				Name:      "Bank",
				URL:       "https://bank.example",
				CreatedAt: models.Timestamp{Time: ts},
				Fields: []*models.PlainField{
					{ID: 1, Name: "login", Value: "alice"},
					{ID: 2, Name: "pin", Error: "integrity check failed"},
				},
				Files: []*models.PlainFile{
					{ID: 1, Name: "card.png", Value: []byte{0x89, 'P', 'N', 'G'}},
					{ID: 2, Name: "broken.pdf", Value: []byte{}, Error: "authentication failed"},
				},
				Entries: []*models.PlainEntry{
					{ID: 2, UUID: "e-2", Name: "Cards", Fields: []*models.PlainField{{ID: 3, Name: "cvv", Value: "123"}}},
				},
			},
		},
	})
}

func TestPlainToRaw_DropsMetadataAndFailures(t *testing.T) {
	p := samplePlain()
	raw := PlainToRaw(p)

	assert.Equal(t, models.TypeRaw, raw.Type)
	require.Len(t, raw.Data, 1)
	e := raw.Data[0]
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "alice", e.Fields[0].Value)
	require.Len(t, e.Files, 1)
	assert.Equal(t, "card.png", e.Files[0].Name)
	assert.Equal(t, "123", e.Entries[0].Fields[0].Value)

	// the source document is not modified
	assert.Len(t, p.Data.Entries[0].Fields, 2)
	e.Files[0].Value[0] = 0
	assert.Equal(t, byte(0x89), p.Data.Entries[0].Files[0].Value[0])

	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"error"`)
	assert.NotContains(t, string(data), `"Personal"`)
}

func TestPlainToRaw_Nil(t *testing.T) {
	raw := PlainToRaw(nil)
	assert.Equal(t, []*models.PlainEntry{}, raw.Data)
}

func TestRawEncryptedRoundTrip(t *testing.T) {
	raw := PlainToRaw(samplePlain())

	enc, err := RawToEncrypted(raw, []byte("package password"))
	require.NoError(t, err)
	assert.Equal(t, models.TypeEncrypted, enc.Type)
	assert.Equal(t, cryptox.ExportIterations, enc.Iterations)

	salt, err := base64.StdEncoding.DecodeString(enc.Salt)
	require.NoError(t, err)
	assert.Len(t, salt, cryptox.SaltLength)
	iv, err := base64.StdEncoding.DecodeString(enc.IV)
	require.NoError(t, err)
	assert.Len(t, iv, cryptox.IVLength)

	got, err := EncryptedToRaw(enc, []byte("package password"))
	require.NoError(t, err)
	if diff := cmp.Diff(raw, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRawToEncrypted_FreshSaltAndIV(t *testing.T) {
	raw := NewRaw(nil)
	a, err := RawToEncrypted(raw, []byte("pw"))
	require.NoError(t, err)
	b, err := RawToEncrypted(raw, []byte("pw"))
	require.NoError(t, err)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Data, b.Data)
}

func TestEncryptedToRaw_WrongPassword(t *testing.T) {
	enc, err := RawToEncrypted(PlainToRaw(samplePlain()), []byte("right"))
	require.NoError(t, err)

	got, err := EncryptedToRaw(enc, []byte("wrong"))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errorIsAny(err, cryptox.ErrAuthentication, cryptox.ErrIntegrity), "got %v", err)
}

func TestEncryptedToRaw_IncompletePackage(t *testing.T) {
	enc, err := RawToEncrypted(NewRaw(nil), []byte("pw"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(e *Encrypted)
	}{
		{"wrong type", func(e *Encrypted) { e.Type = models.TypeRaw }},
		{"no iv", func(e *Encrypted) { e.IV = "" }},
		{"no salt", func(e *Encrypted) { e.Salt = "" }},
		{"no data", func(e *Encrypted) { e.Data = "" }},
		{"no iterations", func(e *Encrypted) { e.Iterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := *enc
			tt.mutate(&cp)
			_, err := EncryptedToRaw(&cp, []byte("pw"))
			require.ErrorIs(t, err, ErrNotEncryptedPackage)
		})
	}

	_, err = EncryptedToRaw(nil, []byte("pw"))
	require.ErrorIs(t, err, ErrNotEncryptedPackage)
}

func TestNoPassword(t *testing.T) {
	_, err := RawToEncrypted(NewRaw(nil), nil)
	require.ErrorIs(t, err, common.ErrNoCredentials)

	enc, err := RawToEncrypted(NewRaw(nil), []byte("pw"))
	require.NoError(t, err)
	_, err = EncryptedToRaw(enc, nil)
	require.ErrorIs(t, err, common.ErrNoCredentials)
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
