package keyring

import (
	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
)

// Secret is what the user supplies to open a key: a typed password, the
// content of a passfile, or both.
type Secret struct {
	Password []byte
	Passfile []byte
}

// Empty reports whether no credential was given.
func (s Secret) Empty() bool {
	return len(s.Password) == 0 && len(s.Passfile) == 0
}

// Material returns the password bytes fed to the KDF. A passfile contributes
// its hash prefix, appended to the typed password. The caller owns the
// returned slice and should wipe it.
func (s Secret) Material() ([]byte, error) {
	if s.Empty() {
		return nil, common.ErrNoCredentials
	}
	m := make([]byte, 0, len(s.Password)+cryptox.HashLength)
	m = append(m, s.Password...)
	if len(s.Passfile) > 0 {
		m = append(m, cryptox.HashPrefix(s.Passfile)...)
	}
	return m, nil
}

// Wipe zeroes both credentials.
func (s Secret) Wipe() {
	common.WipeByteArray(s.Password)
	common.WipeByteArray(s.Passfile)
}
