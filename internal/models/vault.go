package models

import (
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
)

// Rights maps a user uuid to the vault master key wrapped under that user's
// RSA public key (base64).
type Rights map[string]string

// Vault is an encrypted vault with its entry tree.
type Vault struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Note      string    `json:"note"`
	UserID    int64     `json:"user_id"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Entries   []*Entry  `json:"entries"`
	Rights    Rights    `json:"rights"`
}

// Entry is a node of the vault tree.
type Entry struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	ParentID     *int64    `json:"-"`
	CompleteName string    `json:"complete_name"`
	Name         string    `json:"name"`
	URL          string    `json:"url"`
	Note         string    `json:"note"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
	Fields       []*Field  `json:"fields"`
	Files        []*File   `json:"files"`
	Entries      []*Entry  `json:"entries"`
}

// Field is an encrypted text value. Value is base64 ciphertext with the GCM
// tag appended; IV is base64 too.
type Field struct {
	ID        int64     `json:"id"`
	EntryID   int64     `json:"-"`
	Name      string    `json:"name"`
	IV        string    `json:"iv"`
	Value     string    `json:"value"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// File is an encrypted attachment; same shape as Field but the plaintext is binary.
type File Field

// DecodedIV returns the raw nonce of the field.
func (f *Field) DecodedIV() ([]byte, error) {
	return decodeSized("iv", f.IV, cryptox.IVLength)
}

// DecodedIV returns the raw nonce of the file.
func (f *File) DecodedIV() ([]byte, error) {
	return decodeSized("iv", f.IV, cryptox.IVLength)
}

// Validate checks the identifiers of the vault and of every entry. Field and
// file payloads are checked at decryption time so that one bad value does not
// reject the whole vault.
func (v *Vault) Validate() error {
	if v.UUID == "" {
		return fmt.Errorf("%w: vault %d without uuid", common.ErrMalformed, v.ID)
	}
	return Walk(v.Entries, func(e *Entry) error {
		if e.UUID == "" {
			return fmt.Errorf("%w: entry %d of vault %s without uuid", common.ErrMalformed, e.ID, v.UUID)
		}
		return nil
	})
}

// Walk calls fn for every entry depth first, parents before children, and
// stops at the first error.
func Walk(entries []*Entry, fn func(*Entry) error) error {
	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
		if err := Walk(e.Entries, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of entries, fields and files below entries.
func Count(entries []*Entry) (nEntries, nFields, nFiles int) {
	_ = Walk(entries, func(e *Entry) error {
		nEntries++
		nFields += len(e.Fields)
		nFiles += len(e.Files)
		return nil
	})
	return
}
