// Package pkgformat reads, writes and converts the interchange documents of
// recovered vault data:
//
//	plain     {"type":"plain","data":{...vault...,"entries":[...]}}
//	raw       {"type":"raw","data":[...entries...]}
//	encrypted {"type":"encrypted","iv":..,"salt":..,"data":..,"iterations":4000}
//
// Conversions go plain → raw → encrypted and back from encrypted to raw.
package pkgformat

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

var (
	ErrNotEncryptedPackage = errors.New("not an encrypted package")
	ErrUnknownType         = errors.New("unknown document type")
)

// Plain is one decrypted vault with its metadata.
type Plain struct {
	Type models.DocumentType `json:"type"`
	Data *models.PlainVault  `json:"data"`
}

// Raw is a decrypted entry list without vault metadata.
type Raw struct {
	Type models.DocumentType  `json:"type"`
	Data []*models.PlainEntry `json:"data"`
}

// Encrypted is a raw document sealed under a password.
type Encrypted struct {
	Type       models.DocumentType `json:"type"`
	IV         string              `json:"iv"`
	Salt       string              `json:"salt"`
	Data       string              `json:"data"`
	Iterations int                 `json:"iterations"`
}

func NewPlain(v *models.PlainVault) *Plain {
	return &Plain{Type: models.TypePlain, Data: v}
}

func NewRaw(entries []*models.PlainEntry) *Raw {
	if entries == nil {
		entries = []*models.PlainEntry{}
	}
	return &Raw{Type: models.TypeRaw, Data: entries}
}

// complete reports whether every field required to open the package is set.
func (e *Encrypted) complete() bool {
	return e.Type == models.TypeEncrypted && e.IV != "" && e.Salt != "" && e.Data != "" && e.Iterations > 0
}

// Detect returns the type discriminator of a JSON document.
func Detect(data []byte) (models.DocumentType, error) {
	var head struct {
		Type models.DocumentType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}
	switch head.Type {
	case models.TypeExported, models.TypeEncrypted, models.TypeRaw, models.TypePlain:
		return head.Type, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
	}
}

func decodeAs(data []byte, want models.DocumentType, v any) error {
	got, err := Detect(data)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: document type %q, want %q", common.ErrMalformed, got, want)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}
	return nil
}

func ParseRaw(data []byte) (*Raw, error) {
	var doc Raw
	if err := decodeAs(data, models.TypeRaw, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		doc.Data = []*models.PlainEntry{}
	}
	return &doc, nil
}

func ParsePlain(data []byte) (*Plain, error) {
	var doc Plain
	if err := decodeAs(data, models.TypePlain, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%w: plain document without data", common.ErrMalformed)
	}
	return &doc, nil
}

// ParseEncrypted decodes a package. A document that is not a complete
// encrypted package yields ErrNotEncryptedPackage.
func ParseEncrypted(data []byte) (*Encrypted, error) {
	var doc Encrypted
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEncryptedPackage, err)
	}
	if !doc.complete() {
		return nil, ErrNotEncryptedPackage
	}
	return &doc, nil
}
