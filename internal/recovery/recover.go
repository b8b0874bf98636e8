package recovery

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/dmitrijs2005/vaultrecovery/internal/archive"
	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/decryptor"
	"github.com/dmitrijs2005/vaultrecovery/internal/extract"
	"github.com/dmitrijs2005/vaultrecovery/internal/filex"
	"github.com/dmitrijs2005/vaultrecovery/internal/keyring"
	"github.com/dmitrijs2005/vaultrecovery/internal/pkgformat"
	"github.com/google/uuid"
)

// Output file names inside a vault directory.
const (
	PlainFile     = "plain.json"
	RawFile       = "raw.json"
	EncryptedFile = "encrypted.json"
	FilesDir      = "files"
	ReportFile    = "report.json"
)

// Options select what Recover writes.
type Options struct {
	WritePlain bool
	WriteRaw   bool
	WriteFiles bool
	// AlsoEncryptWith, when set, seals the raw tree of every vault into an
	// encrypted package under this secret.
	AlsoEncryptWith *keyring.Secret
	// Archive uploads the encrypted packages; needs AlsoEncryptWith.
	Archive bool
	// Vaults restricts the run to these vault uuids.
	Vaults []string
}

// Recover decrypts the vaults user can reach and writes them below outdir:
//
//	<outdir>/<vault>/plain.json
//	<outdir>/<vault>/raw.json
//	<outdir>/<vault>/encrypted.json
//	<outdir>/<vault>/files/<entry>/<name>
//	<outdir>/report.json
//
// Per-vault, per-item and per-write failures are recorded in the report and
// do not stop the run.
func (s *Service) Recover(ctx context.Context, src extract.Source, user string, secret keyring.Secret, outdir string, opts Options) (*Report, error) {
	if secret.Empty() {
		return nil, common.ErrNoCredentials
	}
	if opts.Archive {
		if opts.AlsoEncryptWith == nil || opts.AlsoEncryptWith.Empty() {
			return nil, ErrArchiveNeedsPackage
		}
		if s.uploader == nil {
			return nil, ErrNoUploader
		}
	}

	started := s.now().UTC()

	doc, err := s.Export(ctx, src, user, opts.Vaults)
	if err != nil {
		return nil, err
	}

	plains, report, err := s.decryptExported(ctx, doc, secret)
	if err != nil {
		return report, err
	}
	report.RunID = uuid.NewString()
	report.StartedAt = started

	base, err := filex.EnsureDir(outdir)
	if err != nil {
		return report, err
	}

	for _, plain := range plains {
		vr := report.Vault(plain.Data.UUID)
		s.writeVault(ctx, base, plain, vr, opts)
	}

	report.FinishedAt = s.now().UTC()
	if err := filex.WriteJSON(filepath.Join(base, ReportFile), report); err != nil {
		return report, err
	}

	s.log.Info(ctx, "recovery finished", "run", report.RunID, "out", base, "ok", report.OK())
	return report, nil
}

func (s *Service) writeVault(ctx context.Context, base string, plain *pkgformat.Plain, vr *VaultReport, opts Options) {
	vaultUUID := plain.Data.UUID
	dir := filepath.Join(base, filex.SafeName(vaultUUID))
	log := s.log.With("vault", vaultUUID)

	writeFailed := func(name string, err error) {
		log.Warn(ctx, "write failed", "output", name, "err", err)
		vr.fail(decryptor.Failure{Vault: vaultUUID, Kind: decryptor.KindWrite, Name: name, Err: err})
	}
	writeJSON := func(name string, v any) {
		path := filepath.Join(dir, name)
		if err := filex.WriteJSON(path, v); err != nil {
			writeFailed(name, err)
			return
		}
		vr.Outputs = append(vr.Outputs, path)
	}

	raw := pkgformat.PlainToRaw(plain)

	if opts.WritePlain {
		writeJSON(PlainFile, plain)
	}
	if opts.WriteRaw {
		writeJSON(RawFile, raw)
	}

	if opts.AlsoEncryptWith != nil && !opts.AlsoEncryptWith.Empty() {
		enc, err := s.seal(ctx, raw, *opts.AlsoEncryptWith)
		if err != nil {
			writeFailed(EncryptedFile, err)
		} else {
			writeJSON(EncryptedFile, enc)
			if opts.Archive {
				s.archive(ctx, vaultUUID, enc, vr)
			}
		}
	}

	if opts.WriteFiles {
		log.Debug(ctx, "saving files", "dir", filepath.Join(dir, FilesDir))
		saved, err := pkgformat.SaveFiles(plain.Data.Entries, filepath.Join(dir, FilesDir))
		for _, f := range saved {
			vr.Outputs = append(vr.Outputs, f.Path)
		}
		if err != nil {
			writeFailed(FilesDir, err)
		}
	}
}

func (s *Service) archive(ctx context.Context, vaultUUID string, enc *pkgformat.Encrypted, vr *VaultReport) {
	body, err := json.Marshal(enc)
	if err != nil {
		vr.fail(decryptor.Failure{Vault: vaultUUID, Kind: decryptor.KindWrite, Name: "archive", Err: err})
		return
	}

	loc, err := s.uploader.Upload(ctx, archive.ObjectKey(vaultUUID, s.now()), body)
	if err != nil {
		s.log.Warn(ctx, "archive upload failed", "vault", vaultUUID, "err", err)
		vr.fail(decryptor.Failure{Vault: vaultUUID, Kind: decryptor.KindWrite, Name: "archive", Err: err})
		return
	}
	vr.Archive = loc
	s.log.Info(ctx, "package archived", "vault", vaultUUID, "location", loc)
}
