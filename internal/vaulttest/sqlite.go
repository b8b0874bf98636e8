package vaulttest

import (
	"context"
	"database/sql"
	"embed"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Schema versions of the fixture migrations.
const (
	SchemaLegacy    int64 = 1 // user_key without version
	SchemaVersioned int64 = 2
)

// OpenSQLite creates a file backed SQLite database in a temp dir, migrated
// up to version. Returns the DSN as well so callers can reopen it through
// dbx.Open.
func OpenSQLite(t testing.TB, version int64) (*sql.DB, string) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "vault.db")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpToContext(context.Background(), db, "migrations", version); err != nil {
		t.Fatalf("goose up: %v", err)
	}
	return db, dsn
}

// Seed inserts the fixture: its user, key, vault, right and entry tree.
// withVersion must match the migrated schema.
func (f *Fixture) Seed(t testing.TB, db *sql.DB, withVersion bool) {
	t.Helper()
	ctx := context.Background()

	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("seed %q: %v", query, err)
		}
	}

	exec(`INSERT INTO users (id, uuid, login) VALUES (?, ?, ?)`, f.Vault.UserID, f.Key.UUID, f.Key.Login)
	if withVersion {
		var version any
		if f.Key.Version != nil {
			version = *f.Key.Version
		}
		exec(`INSERT INTO user_key (user_id, fingerprint, version, salt, iterations, iv, private, current) VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
			f.Vault.UserID, f.Key.Fingerprint, version, f.Key.Salt, f.Key.Iterations, f.Key.IV, f.Key.Private)
	} else {
		exec(`INSERT INTO user_key (user_id, fingerprint, salt, iterations, iv, private, current) VALUES (?, ?, ?, ?, ?, ?, 1)`,
			f.Vault.UserID, f.Key.Fingerprint, f.Key.Salt, f.Key.Iterations, f.Key.IV, f.Key.Private)
	}
	// A rotated key must never be picked.
	exec(`INSERT INTO user_key (user_id, fingerprint, salt, iterations, iv, private, current) VALUES (?, 'old', 'x', 1, 'x', 'x', 0)`, f.Vault.UserID)

	exec(`INSERT INTO vault (id, uuid, name, note, user_id) VALUES (?, ?, ?, ?, ?)`,
		f.Vault.ID, f.Vault.UUID, f.Vault.Name, f.Vault.Note, f.Vault.UserID)
	exec(`INSERT INTO vault_right (vault_id, user_id, key) VALUES (?, ?, ?)`,
		f.Vault.ID, f.Vault.UserID, f.Vault.Rights[f.Key.UUID])

	err := models.Walk(f.Vault.Entries, func(e *models.Entry) error {
		var parent any
		if e.ParentID != nil {
			parent = *e.ParentID
		}
		exec(`INSERT INTO vault_entry (id, uuid, vault_id, parent_id, complete_name, name, url, note) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.UUID, f.Vault.ID, parent, e.CompleteName, e.Name, e.URL, e.Note)
		for _, fl := range e.Fields {
			exec(`INSERT INTO vault_field (id, entry_id, name, iv, value) VALUES (?, ?, ?, ?, ?)`,
				fl.ID, e.ID, fl.Name, fl.IV, fl.Value)
		}
		for _, fl := range e.Files {
			exec(`INSERT INTO vault_file (id, entry_id, name, iv, value) VALUES (?, ?, ?, ?, ?)`,
				fl.ID, e.ID, fl.Name, fl.IV, fl.Value)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed entries: %v", err)
	}
}
