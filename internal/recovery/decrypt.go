package recovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/decryptor"
	"github.com/dmitrijs2005/vaultrecovery/internal/extract"
	"github.com/dmitrijs2005/vaultrecovery/internal/keyring"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/dmitrijs2005/vaultrecovery/internal/pkgformat"
)

// Export returns the still encrypted snapshot of user and the vaults they
// can reach, restricted to vaults when not empty.
func (s *Service) Export(ctx context.Context, src extract.Source, user string, vaults []string) (*models.Exported, error) {
	doc, err := src.Snapshot(ctx, models.NormalizeUUID(user), normalizeAll(vaults))
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "exported", "user", doc.UUID, "vaults", len(doc.Vaults))
	return doc, nil
}

// Decrypt opens an exported snapshot or an encrypted package. An exported
// snapshot yields []*pkgformat.Plain, one per recoverable vault; an
// encrypted package yields *pkgformat.Raw. The report is nil for packages.
func (s *Service) Decrypt(ctx context.Context, data []byte, secret keyring.Secret) (any, *Report, error) {
	if secret.Empty() {
		return nil, nil, common.ErrNoCredentials
	}

	typ, err := pkgformat.Detect(data)
	if err != nil {
		return nil, nil, err
	}

	switch typ {
	case models.TypeExported:
		doc, err := extract.ParseExported(data)
		if err != nil {
			return nil, nil, err
		}
		plains, report, err := s.decryptExported(ctx, doc, secret)
		if err != nil {
			return nil, report, err
		}
		return plains, report, nil

	case models.TypeEncrypted:
		enc, err := pkgformat.ParseEncrypted(data)
		if err != nil {
			return nil, nil, err
		}
		material, err := secret.Material()
		if err != nil {
			return nil, nil, err
		}
		defer common.WipeByteArray(material)
		raw, err := pkgformat.EncryptedToRaw(enc, material)
		if err != nil {
			return nil, nil, err
		}
		return raw, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, typ)
	}
}

// Encrypt seals a raw document, or the entries of a plain one, under secret.
func (s *Service) Encrypt(ctx context.Context, data []byte, secret keyring.Secret) (*pkgformat.Encrypted, error) {
	if secret.Empty() {
		return nil, common.ErrNoCredentials
	}

	typ, err := pkgformat.Detect(data)
	if err != nil {
		return nil, err
	}

	var raw *pkgformat.Raw
	switch typ {
	case models.TypeRaw:
		raw, err = pkgformat.ParseRaw(data)
	case models.TypePlain:
		var plain *pkgformat.Plain
		plain, err = pkgformat.ParsePlain(data)
		if err == nil {
			raw = pkgformat.PlainToRaw(plain)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedDocument, typ)
	}
	if err != nil {
		return nil, err
	}

	return s.seal(ctx, raw, secret)
}

func (s *Service) seal(ctx context.Context, raw *pkgformat.Raw, secret keyring.Secret) (*pkgformat.Encrypted, error) {
	material, err := secret.Material()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(material)

	enc, err := pkgformat.RawToEncrypted(raw, material)
	if err != nil {
		return nil, err
	}
	s.log.Debug(ctx, "package sealed", "entries", len(raw.Data))
	return enc, nil
}

// decryptExported unlocks the snapshot key and decrypts each vault on its
// own. A vault whose master key cannot be obtained is reported as failed and
// missing from the result; the others continue. Only credential, record and
// private key problems end the run.
func (s *Service) decryptExported(ctx context.Context, doc *models.Exported, secret keyring.Secret) ([]*pkgformat.Plain, *Report, error) {
	report := &Report{User: doc.UUID, Vaults: []*VaultReport{}}

	session, err := keyring.Unlock(doc.Private, secret)
	if err != nil {
		if errors.Is(err, common.ErrPrivateKeyNotDecryptable) {
			s.log.Error(ctx, "private key not decryptable", "user", doc.UUID)
		}
		return nil, report, err
	}
	defer session.Close()

	plains := make([]*pkgformat.Plain, 0, len(doc.Vaults))
	for _, v := range doc.Vaults {
		vr := newVaultReport(v.UUID, v.Name)
		report.Vaults = append(report.Vaults, vr)

		var plain *models.PlainVault
		err := session.WithMasterKey(v, func(master []byte) error {
			dr := decryptor.NewReport()
			plain = s.dec.Vault(ctx, v, master, dr)
			vr.absorb(dr)
			return nil
		})
		if err != nil {
			vr.Status = StatusFailed
			vr.Failures = append(vr.Failures, decryptor.Failure{Vault: v.UUID, Kind: decryptor.KindVault, Reason: err.Error(), Err: err})
			s.log.Warn(ctx, "vault not recovered", "vault", v.UUID, "err", err)
			continue
		}

		s.log.Info(ctx, "vault decrypted", "vault", v.UUID, "fields", vr.Fields, "files", vr.Files, "failures", len(vr.Failures))
		plains = append(plains, pkgformat.NewPlain(plain))
	}
	return plains, report, nil
}

func normalizeAll(uuids []string) []string {
	if len(uuids) == 0 {
		return nil
	}
	out := make([]string, 0, len(uuids))
	for _, u := range uuids {
		if u = models.NormalizeUUID(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
