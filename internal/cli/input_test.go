package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPasswords answers successive prompts with pws.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	i := 0
	readPassword = func(int) ([]byte, error) {
		if i >= len(pws) {
			return nil, errors.New("unexpected prompt")
		}
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
}

func TestGetPassword(t *testing.T) {
	stubPasswords(t, "s3cret")

	var out bytes.Buffer
	pw, err := GetPassword(&out, "Password: ")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}

	var out bytes.Buffer
	_, err := GetPassword(&out, "Password: ")
	require.Error(t, err)
}

func TestReadSecret_WithPassfile(t *testing.T) {
	stubPasswords(t, "")
	passfile := filepath.Join(t.TempDir(), "pass")
	require.NoError(t, os.WriteFile(passfile, []byte("file content"), 0o600))

	var out bytes.Buffer
	s, err := readSecret(&out, "Password", passfile)
	require.NoError(t, err)
	assert.False(t, s.Empty())
	assert.Contains(t, out.String(), "passfile only")

	m, err := s.Material()
	require.NoError(t, err)
	assert.Equal(t, cryptox.HashPrefix([]byte("file content")), m)
}

func TestReadSecret_MissingPassfile(t *testing.T) {
	stubPasswords(t)
	var out bytes.Buffer
	_, err := readSecret(&out, "Password", filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
