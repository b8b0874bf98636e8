// Package extract produces export snapshots of users' keys and vault trees,
// either from the relational store or from a previously exported JSON file.
package extract

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
)

// Tables read by the extractor.
const (
	TableUsers   = "users"
	TableUserKey = "user_key"
	TableVault   = "vault"
	TableEntry   = "vault_entry"
	TableField   = "vault_field"
	TableFile    = "vault_file"
	TableRight   = "vault_right"
)

var RequiredTables = []string{TableUsers, TableUserKey, TableVault, TableEntry, TableField, TableFile, TableRight}

// Capabilities describes the schema found at session start.
type Capabilities struct {
	HasVersion bool
	Tables     map[string]bool
}

// InspectSchema reads the schema once. Each table is queried with an always
// false predicate and its columns are read from the result set, which works
// the same on every engine. A missing required table yields common.ErrSchema.
func InspectSchema(ctx context.Context, db dbx.DBTX) (*Capabilities, error) {
	caps := &Capabilities{Tables: make(map[string]bool, len(RequiredTables))}

	var missing []string
	for _, table := range RequiredTables {
		cols, err := columns(ctx, db, table)
		if err != nil {
			missing = append(missing, table)
			continue
		}
		caps.Tables[table] = true
		if table == TableUserKey {
			caps.HasVersion = slices.Contains(cols, "version")
		}
	}

	if len(missing) > 0 {
		return caps, fmt.Errorf("%w: %s", common.ErrSchema, strings.Join(missing, ", "))
	}
	return caps, nil
}

func columns(ctx context.Context, db dbx.DBTX, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1=0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}
	return cols, nil
}
