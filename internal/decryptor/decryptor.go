// Package decryptor turns an encrypted vault tree into its plain counterpart.
// The input tree is never modified; per-item failures are recorded in a
// Report and leave an error marker on the item instead of aborting the pass.
package decryptor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/cryptox"
	"github.com/dmitrijs2005/vaultrecovery/internal/logging"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

type Decryptor struct {
	log logging.Logger
}

func New(log logging.Logger) *Decryptor {
	return &Decryptor{log: log}
}

// Vault decrypts every field and file of v under master.
func (d *Decryptor) Vault(ctx context.Context, v *models.Vault, master []byte, report *Report) *models.PlainVault {
	return &models.PlainVault{
		ID:        v.ID,
		UUID:      v.UUID,
		Name:      v.Name,
		Note:      v.Note,
		UserID:    v.UserID,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
		Entries:   d.Entries(ctx, v.UUID, v.Entries, master, report),
	}
}

// Entries decrypts a list of sibling entries and their subtrees.
func (d *Decryptor) Entries(ctx context.Context, vaultUUID string, entries []*models.Entry, master []byte, report *Report) []*models.PlainEntry {
	out := make([]*models.PlainEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, d.entry(ctx, vaultUUID, e, master, report))
	}
	return out
}

func (d *Decryptor) entry(ctx context.Context, vaultUUID string, e *models.Entry, master []byte, report *Report) *models.PlainEntry {
	pe := &models.PlainEntry{
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
	}

	for _, f := range e.Fields {
		pf := &models.PlainField{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
		value, err := decryptField(f, master)
		if err != nil {
			pf.Error = err.Error()
			d.fail(ctx, report, Failure{Vault: vaultUUID, Entry: e.UUID, Kind: KindField, Name: f.Name, Err: err})
		} else {
			pf.Value = value
			report.countField()
		}
		pe.Fields = append(pe.Fields, pf)
	}

	for _, f := range e.Files {
		pf := &models.PlainFile{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt, Value: []byte{}}
		content, err := decryptFile(f, master)
		if err != nil {
			pf.Error = err.Error()
			d.fail(ctx, report, Failure{Vault: vaultUUID, Entry: e.UUID, Kind: KindFile, Name: f.Name, Err: err})
		} else {
			pf.Value = content
			report.countFile()
		}
		pe.Files = append(pe.Files, pf)
	}

	pe.Entries = d.Entries(ctx, vaultUUID, e.Entries, master, report)
	return pe
}

func (d *Decryptor) fail(ctx context.Context, report *Report, f Failure) {
	d.log.Warn(ctx, "item not decrypted", "vault", f.Vault, "entry", f.Entry, string(f.Kind), f.Name, "err", f.Err)
	report.Add(f)
}

func decryptField(f *models.Field, master []byte) (string, error) {
	iv, err := f.DecodedIV()
	if err != nil {
		return "", err
	}
	plain, err := cryptox.SymDecrypt(iv, f.Value, master, true)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(plain)

	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: value is not valid utf-8", cryptox.ErrIntegrity)
	}
	return string(plain), nil
}

func decryptFile(f *models.File, master []byte) ([]byte, error) {
	iv, err := f.DecodedIV()
	if err != nil {
		return nil, err
	}
	return cryptox.SymDecrypt(iv, f.Value, master, true)
}
