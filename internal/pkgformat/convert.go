package pkgformat

import (
	"encoding/base64"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// PlainToRaw keeps only the entry tree of a plain document. Items that failed
// to decrypt are left out: raw documents are meant for import and carry no
// failure markers.
func PlainToRaw(p *Plain) *Raw {
	if p == nil || p.Data == nil {
		return NewRaw(nil)
	}
	return NewRaw(rawEntries(p.Data.Entries))
}

func rawEntries(entries []*models.PlainEntry) []*models.PlainEntry {
	out := make([]*models.PlainEntry, 0, len(entries))
	for _, e := range entries {
		re := &models.PlainEntry{
			ID:           e.ID,
			UUID:         e.UUID,
			CompleteName: e.CompleteName,
			Name:         e.Name,
			URL:          e.URL,
			Note:         e.Note,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.UpdatedAt,
			Fields:       make([]*models.PlainField, 0, len(e.Fields)),
			Files:        make([]*models.PlainFile, 0, len(e.Files)),
			Entries:      rawEntries(e.Entries),
		}
		for _, f := range e.Fields {
			if f.Failed() {
				continue
			}
			cp := *f
			re.Fields = append(re.Fields, &cp)
		}
		for _, f := range e.Files {
			if f.Failed() {
				continue
			}
			cp := *f
			cp.Value = append([]byte{}, f.Value...)
			re.Files = append(re.Files, &cp)
		}
		out = append(out, re)
	}
	return out
}

// RawToEncrypted seals the entries of raw under password with a fresh salt
// and IV and cryptox.ExportIterations rounds.
func RawToEncrypted(raw *Raw, password []byte) (*Encrypted, error) {
	if len(password) == 0 {
		return nil, common.ErrNoCredentials
	}
	entries := raw.Data
	if entries == nil {
		entries = []*models.PlainEntry{}
	}

	salt := cryptox.NewSalt()
	iv := cryptox.NewIV()
	key := cryptox.DeriveKey(password, salt, cryptox.ExportIterations)
	defer common.WipeByteArray(key)

	data, err := cryptox.SealJSON(entries, iv, key)
	if err != nil {
		return nil, err
	}

	return &Encrypted{
		Type:       models.TypeEncrypted,
		IV:         base64.StdEncoding.EncodeToString(iv),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Data:       data,
		Iterations: cryptox.ExportIterations,
	}, nil
}

// EncryptedToRaw opens a package. Incomplete packages are rejected with
// ErrNotEncryptedPackage before any key derivation; a wrong password yields
// cryptox.ErrAuthentication or cryptox.ErrIntegrity.
func EncryptedToRaw(enc *Encrypted, password []byte) (*Raw, error) {
	if enc == nil || !enc.complete() {
		return nil, ErrNotEncryptedPackage
	}
	if len(password) == 0 {
		return nil, common.ErrNoCredentials
	}

	salt, err := cryptox.DecodeBase64(enc.Salt)
	if err != nil {
		return nil, err
	}
	iv, err := cryptox.DecodeBase64(enc.IV)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(password, salt, enc.Iterations)
	defer common.WipeByteArray(key)

	var entries []*models.PlainEntry
	if err := cryptox.OpenJSON(iv, enc.Data, key, &entries); err != nil {
		return nil, err
	}
	return NewRaw(entries), nil
}
