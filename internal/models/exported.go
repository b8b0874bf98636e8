package models

import (
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
)

// DocumentType is the "type" discriminator of every JSON document the tool
// reads or writes.
type DocumentType string

const (
	TypeExported  DocumentType = "exported"
	TypeEncrypted DocumentType = "encrypted"
	TypeRaw       DocumentType = "raw"
	TypePlain     DocumentType = "plain"
)

// Exported is a self-contained snapshot of one user's key and reachable
// vaults, still encrypted.
type Exported struct {
	Type    DocumentType `json:"type"`
	UUID    string       `json:"uuid"`
	Private *UserKey     `json:"private"`
	Vaults  []*Vault     `json:"vaults"`
}

// NewExported builds a snapshot for key and vaults.
func NewExported(key *UserKey, vaults []*Vault) *Exported {
	if vaults == nil {
		vaults = []*Vault{}
	}
	return &Exported{Type: TypeExported, UUID: key.UUID, Private: key, Vaults: vaults}
}

// Validate rejects snapshots missing required top-level keys and fills the
// key uuid from the document when the key record does not carry one.
func (e *Exported) Validate() error {
	if e.Type != TypeExported {
		return fmt.Errorf("%w: document type %q, want %q", common.ErrMalformed, e.Type, TypeExported)
	}
	if e.UUID == "" {
		return fmt.Errorf("%w: export without uuid", common.ErrMalformed)
	}
	if e.Private == nil {
		return fmt.Errorf("%w: export without private key", common.ErrMalformed)
	}
	if e.Vaults == nil {
		return fmt.Errorf("%w: export without vaults", common.ErrMalformed)
	}
	if e.Private.UUID == "" {
		e.Private.UUID = e.UUID
	}
	if err := e.Private.Validate(); err != nil {
		return err
	}
	for _, v := range e.Vaults {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
