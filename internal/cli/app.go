package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/vaultrecovery/internal/archive"
	"github.com/dmitrijs2005/vaultrecovery/internal/buildinfo"
	"github.com/dmitrijs2005/vaultrecovery/internal/config"
	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/extract"
	"github.com/dmitrijs2005/vaultrecovery/internal/logging"
	"github.com/dmitrijs2005/vaultrecovery/internal/recovery"
	"github.com/integrii/flaggy"
)

var (
	ErrNoCommand  = errors.New("no command given")
	ErrNoInput    = errors.New("--in is required")
	ErrIncomplete = errors.New("recovery incomplete, see report")
)

// Seams for tests.
var (
	openDB      = dbx.Open
	newUploader = func(ctx context.Context, opts archive.Options) (archive.Uploader, error) {
		return archive.NewS3Archiver(ctx, opts)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	stdout io.Writer
	stderr io.Writer
}

func NewApp(c *config.Config, stdout, stderr io.Writer) *App {
	return &App{config: c, stdout: stdout, stderr: stderr}
}

// flags of every subcommand; only those of the used one are meaningful.
type commandFlags struct {
	user     string
	vaults   []string
	in       string
	output   string
	from     string
	passfile string

	noPlain         bool
	noRaw           bool
	noFiles         bool
	encrypt         bool
	encryptPassfile string
	archive         bool
}

// Run parses args (without the program name) and runs the selected command.
func (a *App) Run(ctx context.Context, args []string) error {
	var f commandFlags

	parser := flaggy.NewParser("vaultrecovery")
	parser.Description = "Recover end-to-end encrypted vaults from a database dump."
	parser.ShowHelpOnUnexpected = false
	parser.DisableShowVersionWithVersion()
	a.config.BindFlags(parser)

	infoCmd := flaggy.NewSubcommand("info")
	infoCmd.Description = "list users with a current key and their vaults"
	infoCmd.String(&f.user, "u", "user", "user uuid")
	infoCmd.StringSlice(&f.vaults, "", "vault", "vault uuid, repeatable")

	exportCmd := flaggy.NewSubcommand("export")
	exportCmd.Description = "write the encrypted snapshot of a user"
	exportCmd.String(&f.user, "u", "user", "user uuid")
	exportCmd.StringSlice(&f.vaults, "", "vault", "vault uuid, repeatable")
	exportCmd.String(&f.output, "f", "output", "output file (stdout when empty)")

	decryptCmd := flaggy.NewSubcommand("decrypt")
	decryptCmd.Description = "decrypt an exported snapshot or an encrypted package"
	decryptCmd.String(&f.in, "i", "in", "input document")
	decryptCmd.String(&f.output, "f", "output", "output file (stdout when empty)")
	decryptCmd.String(&f.passfile, "", "passfile", "file combined with the password")

	encryptCmd := flaggy.NewSubcommand("encrypt")
	encryptCmd.Description = "seal a raw or plain document under a password"
	encryptCmd.String(&f.in, "i", "in", "input document")
	encryptCmd.String(&f.output, "f", "output", "output file (stdout when empty)")
	encryptCmd.String(&f.passfile, "", "passfile", "file combined with the password")

	recoverCmd := flaggy.NewSubcommand("recover")
	recoverCmd.Description = "decrypt every reachable vault into the output directory"
	recoverCmd.String(&f.user, "u", "user", "user uuid")
	recoverCmd.StringSlice(&f.vaults, "", "vault", "vault uuid, repeatable")
	recoverCmd.String(&f.from, "", "from", "exported snapshot to read instead of the database")
	recoverCmd.String(&f.passfile, "", "passfile", "file combined with the password")
	recoverCmd.Bool(&f.noPlain, "", "no-plain", "do not write plain.json")
	recoverCmd.Bool(&f.noRaw, "", "no-raw", "do not write raw.json")
	recoverCmd.Bool(&f.noFiles, "", "no-files", "do not save attachments")
	recoverCmd.Bool(&f.encrypt, "", "encrypt", "also write encrypted.json under a new password")
	recoverCmd.String(&f.encryptPassfile, "", "encrypt-passfile", "file combined with the package password")
	recoverCmd.Bool(&f.archive, "", "archive", "upload encrypted.json to S3")

	versionCmd := flaggy.NewSubcommand("version")
	versionCmd.Description = "print build information"

	parser.AttachSubcommand(versionCmd, 1)
	parser.AttachSubcommand(infoCmd, 1)
	parser.AttachSubcommand(exportCmd, 1)
	parser.AttachSubcommand(decryptCmd, 1)
	parser.AttachSubcommand(encryptCmd, 1)
	parser.AttachSubcommand(recoverCmd, 1)

	if err := parser.ParseArgs(args); err != nil {
		return err
	}
	f.vaults = splitList(f.vaults)

	a.logger = logging.NewTextLogger(a.stderr, a.config.LogLevel)

	switch {
	case versionCmd.Used:
		buildinfo.PrintBuildData(a.stdout)
		return nil
	case infoCmd.Used:
		return a.info(ctx, f)
	case exportCmd.Used:
		return a.export(ctx, f)
	case decryptCmd.Used:
		return a.decrypt(ctx, f)
	case encryptCmd.Used:
		return a.encrypt(ctx, f)
	case recoverCmd.Used:
		return a.recoverVaults(ctx, f)
	default:
		parser.ShowHelp()
		return ErrNoCommand
	}
}

// openStore connects to the configured database. The caller closes the
// returned db.
func (a *App) openStore(ctx context.Context) (*sql.DB, *extract.DBExtractor, error) {
	db, dialect, err := openDB(ctx, a.config.Driver, a.config.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	x, caps, err := extract.NewDBExtractor(ctx, db, dialect, a.logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	a.logger.Debug(ctx, "database opened", "driver", a.config.Driver, "key_version", caps.HasVersion)
	return db, x, nil
}

func (a *App) service(opts ...recovery.Option) *recovery.Service {
	return recovery.New(a.logger, opts...)
}

// splitList accepts repeated flags as well as comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (a *App) archiveOptions() archive.Options {
	return archive.Options{
		Bucket:       a.config.S3Bucket,
		Region:       a.config.S3Region,
		BaseEndpoint: a.config.S3BaseEndpoint,
		AccessKey:    a.config.S3AccessKey,
		SecretKey:    a.config.S3SecretKey,
		Timeout:      a.config.ArchiveTimeout,
	}
}

func userLabel(user string) string {
	if user == "" {
		return "the exported user"
	}
	return fmt.Sprintf("user %s", user)
}
