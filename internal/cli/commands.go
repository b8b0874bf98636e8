package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vaultrecovery/internal/extract"
	"github.com/dmitrijs2005/vaultrecovery/internal/recovery"
)

func (a *App) info(ctx context.Context, f commandFlags) error {
	db, x, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	info, err := a.service().Info(ctx, x, f.user, f.vaults)
	if err != nil {
		return err
	}
	return writeResult(a.stdout, "", info)
}

func (a *App) export(ctx context.Context, f commandFlags) error {
	if f.user == "" {
		return fmt.Errorf("export: --user is required")
	}
	db, x, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := a.service().Export(ctx, x, f.user, f.vaults)
	if err != nil {
		return err
	}
	return writeResult(a.stdout, f.output, doc)
}

func (a *App) decrypt(ctx context.Context, f commandFlags) error {
	if f.in == "" {
		return ErrNoInput
	}
	data, err := os.ReadFile(f.in)
	if err != nil {
		return err
	}

	secret, err := readSecret(a.stderr, "Password", f.passfile)
	if err != nil {
		return err
	}
	defer secret.Wipe()

	out, report, err := a.service().Decrypt(ctx, data, secret)
	if err != nil {
		return err
	}
	if err := writeResult(a.stdout, f.output, out); err != nil {
		return err
	}
	if report != nil && !report.OK() {
		return ErrIncomplete
	}
	return nil
}

func (a *App) encrypt(ctx context.Context, f commandFlags) error {
	if f.in == "" {
		return ErrNoInput
	}
	data, err := os.ReadFile(f.in)
	if err != nil {
		return err
	}

	secret, err := readSecret(a.stderr, "Package password", f.passfile)
	if err != nil {
		return err
	}
	defer secret.Wipe()

	enc, err := a.service().Encrypt(ctx, data, secret)
	if err != nil {
		return err
	}
	return writeResult(a.stdout, f.output, enc)
}

func (a *App) recoverVaults(ctx context.Context, f commandFlags) error {
	var src extract.Source
	if f.from != "" {
		s, err := extract.OpenExportedFile(f.from)
		if err != nil {
			return err
		}
		src = s
	} else {
		if f.user == "" {
			return fmt.Errorf("recover: --user is required without --from")
		}
		db, x, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		src = x
	}

	var opts []recovery.Option
	if f.archive {
		up, err := newUploader(ctx, a.archiveOptions())
		if err != nil {
			return err
		}
		opts = append(opts, recovery.WithUploader(up))
	}

	secret, err := readSecret(a.stderr, "Password for "+userLabel(f.user), f.passfile)
	if err != nil {
		return err
	}
	defer secret.Wipe()

	ropts := recovery.Options{
		WritePlain: !f.noPlain,
		WriteRaw:   !f.noRaw,
		WriteFiles: !f.noFiles,
		Archive:    f.archive,
		Vaults:     f.vaults,
	}
	if f.encrypt || f.archive {
		pkg, err := readSecret(a.stderr, "Package password", f.encryptPassfile)
		if err != nil {
			return err
		}
		defer pkg.Wipe()
		ropts.AlsoEncryptWith = &pkg
	}

	report, err := a.service(opts...).Recover(ctx, src, f.user, secret, a.config.OutputDir, ropts)
	if err != nil {
		return err
	}

	for _, v := range report.Vaults {
		fmt.Fprintf(a.stdout, "%s\t%s\t%s\tfields=%d files=%d failures=%d\n",
			v.UUID, v.Status, v.Name, v.Fields, v.Files, len(v.Failures))
	}
	if !report.OK() {
		return ErrIncomplete
	}
	return nil
}
