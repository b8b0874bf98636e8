// Package repomanager vends the SQL repositories bound to a connection and
// to the dialect and schema capabilities detected at startup.
package repomanager

import (
	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/repositories/entries"
	"github.com/dmitrijs2005/vaultrecovery/internal/repositories/keys"
	"github.com/dmitrijs2005/vaultrecovery/internal/repositories/vaults"
)

type RepositoryManager interface {
	Keys(db dbx.DBTX) keys.Repository
	Vaults(db dbx.DBTX) vaults.Repository
	Entries(db dbx.DBTX) entries.Repository
}

// SQLRepositoryManager builds repositories for one dialect.
type SQLRepositoryManager struct {
	dialect       dbx.Dialect
	keyHasVersion bool
}

// Keys returns a keys.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Keys(db dbx.DBTX) keys.Repository {
	return keys.NewSQLRepository(db, m.dialect, m.keyHasVersion)
}

// Vaults returns a vaults.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Vaults(db dbx.DBTX) vaults.Repository {
	return vaults.NewSQLRepository(db, m.dialect)
}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLRepository(db, m.dialect)
}

// NewSQLRepositoryManager constructs a manager. keyHasVersion reports whether
// user_key carries the version column.
func NewSQLRepositoryManager(dialect dbx.Dialect, keyHasVersion bool) *SQLRepositoryManager {
	return &SQLRepositoryManager{dialect: dialect, keyHasVersion: keyHasVersion}
}
