package models

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(n int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, n))
}

func validKey() *UserKey {
	v := 2
	return &UserKey{
		UUID:       "u-1",
		Login:      "alice",
		Version:    &v,
		Salt:       b64(32),
		Iterations: 100000,
		IV:         b64(12),
		Private:    b64(64),
	}
}

func TestUserKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(k *UserKey)
		wantErr bool
	}{
		{"valid", func(k *UserKey) {}, false},
		{"missing uuid", func(k *UserKey) { k.UUID = "" }, true},
		{"zero iterations", func(k *UserKey) { k.Iterations = 0 }, true},
		{"short salt", func(k *UserKey) { k.Salt = b64(16) }, true},
		{"bad iv", func(k *UserKey) { k.IV = "***" }, true},
		{"no private", func(k *UserKey) { k.Private = "" }, true},
		{"legacy without login", func(k *UserKey) { k.Version = nil; k.Login = "" }, true},
		{"legacy with login", func(k *UserKey) { k.Version = nil }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := validKey()
			tt.mutate(k)
			err := k.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMalformed)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserKey_Legacy(t *testing.T) {
	k := validKey()
	assert.False(t, k.Legacy())
	k.Version = nil
	assert.True(t, k.Legacy())
}

func TestNormalizeUUID(t *testing.T) {
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", NormalizeUUID(" 6BA7B810-9DAD-11D1-80B4-00C04FD430C8 "))
	assert.Equal(t, "not-a-uuid", NormalizeUUID("not-a-uuid"))
}

const exportedDoc = `{
  "type": "exported",
  "uuid": "u-1",
  "private": {"iv": "AAAAAAAAAAAAAAAA", "fingerprint": "fp", "salt": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
              "iterations": 1000, "private": "AAAA", "login": "alice", "version": null},
  "vaults": [
    {"id": 1, "uuid": "v-1", "name": "Team", "note": "", "user_id": 7,
     "entries": [{"id": 1, "uuid": "e-1", "name": "root", "fields": [], "files": [],
                  "entries": [{"id": 2, "uuid": "e-2", "name": "child", "fields": [{"id": 1, "name": "pw", "iv": "x", "value": "y"}], "files": [], "entries": []}]}],
     "rights": {"u-1": "d3JhcHBlZA=="}}
  ]
}`

func TestExported_ParseAndValidate(t *testing.T) {
	var e Exported
	require.NoError(t, json.Unmarshal([]byte(exportedDoc), &e))
	require.NoError(t, e.Validate())

	assert.Equal(t, "u-1", e.Private.UUID, "key uuid is filled from the document")
	assert.True(t, e.Private.Legacy())
	require.Len(t, e.Vaults, 1)
	assert.Equal(t, "d3JhcHBlZA==", e.Vaults[0].Rights["u-1"])

	n, f, files := Count(e.Vaults[0].Entries)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f)
	assert.Equal(t, 0, files)
}

func TestExported_ValidateMissingKeys(t *testing.T) {
	for _, drop := range []string{`"uuid": "u-1",`, `"type": "exported",`} {
		var e Exported
		require.NoError(t, json.Unmarshal([]byte(strings.Replace(exportedDoc, drop, "", 1)), &e))
		require.ErrorIs(t, e.Validate(), common.ErrMalformed, drop)
	}

	e := &Exported{Type: TypeExported, UUID: "u-1", Private: validKey()}
	require.ErrorIs(t, e.Validate(), common.ErrMalformed, "vaults are required")
}

func TestVault_ValidateEntryWithoutUUID(t *testing.T) {
	v := &Vault{UUID: "v", Entries: []*Entry{{UUID: "a", Entries: []*Entry{{ID: 9}}}}}
	require.ErrorIs(t, v.Validate(), common.ErrMalformed)
}

func TestWalk_DepthFirstOrder(t *testing.T) {
	tree := []*Entry{
		{UUID: "a", Entries: []*Entry{{UUID: "a1"}, {UUID: "a2"}}},
		{UUID: "b"},
	}
	var seen []string
	require.NoError(t, Walk(tree, func(e *Entry) error {
		seen = append(seen, e.UUID)
		return nil
	}))
	assert.Equal(t, []string{"a", "a1", "a2", "b"}, seen)
}
