package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/google/uuid"
)

// UserKey is the current key record of one user.
type UserKey struct {
	UUID        string `json:"uuid,omitempty"`
	Login       string `json:"login"`
	Fingerprint string `json:"fingerprint"`
	// Version is nil for accounts created before key versioning.
	Version    *int   `json:"version"`
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
	IV         string `json:"iv"`
	Private    string `json:"private"`
}

// Legacy reports whether the key predates versioning. Legacy keys derive
// from "login|password".
func (k *UserKey) Legacy() bool {
	return k.Version == nil
}

// DecodedSalt returns the raw salt bytes.
func (k *UserKey) DecodedSalt() ([]byte, error) {
	return decodeSized("salt", k.Salt, cryptox.SaltLength)
}

// DecodedIV returns the raw IV bytes.
func (k *UserKey) DecodedIV() ([]byte, error) {
	return decodeSized("iv", k.IV, cryptox.IVLength)
}

// Validate checks the record before any key derivation is attempted.
func (k *UserKey) Validate() error {
	if k.UUID == "" {
		return fmt.Errorf("%w: user key without uuid", common.ErrMalformed)
	}
	if k.Legacy() && k.Login == "" {
		return fmt.Errorf("%w: legacy key %s without login", common.ErrMalformed, k.UUID)
	}
	if k.Iterations <= 0 {
		return fmt.Errorf("%w: key %s has %d iterations", common.ErrMalformed, k.UUID, k.Iterations)
	}
	if _, err := k.DecodedSalt(); err != nil {
		return fmt.Errorf("key %s: %w", k.UUID, err)
	}
	if _, err := k.DecodedIV(); err != nil {
		return fmt.Errorf("key %s: %w", k.UUID, err)
	}
	if k.Private == "" {
		return fmt.Errorf("%w: key %s without private key", common.ErrMalformed, k.UUID)
	}
	return nil
}

// NormalizeUUID trims s and, when it parses as an RFC 4122 UUID, returns the
// canonical lower-case form. Other identifiers are returned trimmed, since the
// store treats uuids as opaque strings.
func NormalizeUUID(s string) string {
	s = strings.TrimSpace(s)
	if u, err := uuid.Parse(s); err == nil {
		return u.String()
	}
	return s
}

func decodeSized(name, value string, size int) ([]byte, error) {
	b, err := cryptox.DecodeBase64(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrMalformed, name, err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: %s is %d bytes, want %d", common.ErrMalformed, name, len(b), size)
	}
	return b, nil
}
