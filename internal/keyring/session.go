// Package keyring turns a user's password into the keys needed to read a
// vault: the password key, the RSA private key and, per vault, the master key.
package keyring

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/dmitrijs2005/vaultrecovery/internal/secmem"
)

type State int

const (
	NoPassword State = iota
	KeyDerived
	PrivateKeyUnwrapped
	MasterKeyUnwrapped
	EntryDecrypting
	Done
)

func (s State) String() string {
	switch s {
	case NoPassword:
		return "no-password"
	case KeyDerived:
		return "key-derived"
	case PrivateKeyUnwrapped:
		return "private-key-unwrapped"
	case MasterKeyUnwrapped:
		return "master-key-unwrapped"
	case EntryDecrypting:
		return "entry-decrypting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrLocked = errors.New("session is not unlocked")

// Session holds the unlocked keys of one user for one run.
type Session struct {
	key     *models.UserKey
	state   State
	derived []byte
	priv    *rsa.PrivateKey
}

func NewSession(key *models.UserKey) *Session {
	return &Session{key: key, state: NoPassword}
}

// Unlock is NewSession followed by Session.Unlock.
func Unlock(key *models.UserKey, secret Secret) (*Session, error) {
	s := NewSession(key)
	if err := s.Unlock(secret); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) State() State { return s.state }

// UserUUID returns the uuid of the key owner, used to look up vault rights.
func (s *Session) UserUUID() string { return s.key.UUID }

// Unlock derives the password key and decrypts the private key with it.
// Credential and record problems are returned before any key derivation;
// everything after that reports common.ErrPrivateKeyNotDecryptable.
func (s *Session) Unlock(secret Secret) error {
	if secret.Empty() {
		return common.ErrNoCredentials
	}
	if err := s.key.Validate(); err != nil {
		return err
	}

	material, err := secret.Material()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(material)
	if s.key.Legacy() {
		legacy := make([]byte, 0, len(s.key.Login)+1+len(material))
		legacy = append(legacy, s.key.Login...)
		legacy = append(legacy, '|')
		legacy = append(legacy, material...)
		defer common.WipeByteArray(legacy)
		material = legacy
	}

	salt, _ := s.key.DecodedSalt()
	iv, _ := s.key.DecodedIV()

	s.wipeDerived()
	s.derived = cryptox.DeriveKey(material, salt, s.key.Iterations)
	_ = secmem.Lock(s.derived)
	s.state = KeyDerived

	der, err := cryptox.SymDecrypt(iv, s.key.Private, s.derived, false)
	if err != nil {
		return fmt.Errorf("%w: user %s: %v", common.ErrPrivateKeyNotDecryptable, s.key.UUID, err)
	}
	defer common.WipeByteArray(der)

	priv, err := cryptox.ParsePrivateKey(der)
	if err != nil {
		return fmt.Errorf("%w: user %s: %v", common.ErrPrivateKeyNotDecryptable, s.key.UUID, err)
	}
	s.priv = priv
	s.state = PrivateKeyUnwrapped
	return nil
}

// MasterKey unwraps the master key of v for the session user. The caller
// owns the returned bytes and must wipe them; WithMasterKey does that.
func (s *Session) MasterKey(v *models.Vault) ([]byte, error) {
	if s.priv == nil {
		return nil, ErrLocked
	}
	wrapped, ok := v.Rights[s.key.UUID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s, vault %s", common.ErrNoRight, s.key.UUID, v.UUID)
	}

	key, err := cryptox.UnwrapKey(s.priv, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: vault %s: %v", common.ErrMasterKeyUnwrap, v.UUID, err)
	}
	if len(key) != cryptox.KeyLength {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: vault %s: key is %d bytes", common.ErrMasterKeyUnwrap, v.UUID, len(key))
	}
	s.state = MasterKeyUnwrapped
	return key, nil
}

// WithMasterKey unwraps the master key of v, passes it to fn and wipes it
// when fn returns.
func (s *Session) WithMasterKey(v *models.Vault, fn func(master []byte) error) error {
	master, err := s.MasterKey(v)
	if err != nil {
		return err
	}
	_ = secmem.Lock(master)
	defer func() {
		_ = secmem.Release(master)
		s.state = Done
	}()

	s.state = EntryDecrypting
	return fn(master)
}

// Close wipes the password key and drops the private key.
func (s *Session) Close() {
	s.wipeDerived()
	s.priv = nil
	s.state = Done
}

func (s *Session) wipeDerived() {
	if s.derived != nil {
		_ = secmem.Release(s.derived)
		s.derived = nil
	}
}
