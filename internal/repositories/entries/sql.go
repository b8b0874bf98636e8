// Package entries provides the SQL repository over vault_entry, vault_field
// and vault_file.
package entries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Entries returns every entry of the vault ordered by id. ParentID is nil for
// root entries.
func (r *SQLRepository) Entries(ctx context.Context, vaultID int64) ([]*models.Entry, error) {
	query := r.dialect.Rebind(`SELECT id, uuid, parent_id, complete_name, name, url, note, created_at, updated_at
		FROM vault_entry
		WHERE vault_id = $1
		ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		var (
			e                       models.Entry
			parentID                sql.NullInt64
			completeName, url, note sql.NullString
			createdAt, updatedAt    sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.UUID, &parentID, &completeName, &e.Name, &url, &note, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if parentID.Valid {
			p := parentID.Int64
			e.ParentID = &p
		}
		e.CompleteName = completeName.String
		e.URL = url.String
		e.Note = note.String
		e.CreatedAt = models.Timestamp{Time: createdAt.Time}
		e.UpdatedAt = models.Timestamp{Time: updatedAt.Time}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Fields(ctx context.Context, vaultID int64) ([]*models.Field, error) {
	return r.values(ctx, "vault_field", vaultID)
}

func (r *SQLRepository) Files(ctx context.Context, vaultID int64) ([]*models.File, error) {
	fields, err := r.values(ctx, "vault_file", vaultID)
	if err != nil {
		return nil, err
	}
	files := make([]*models.File, len(fields))
	for i, f := range fields {
		files[i] = (*models.File)(f)
	}
	return files, nil
}

// values reads vault_field or vault_file; both tables share one layout.
func (r *SQLRepository) values(ctx context.Context, table string, vaultID int64) ([]*models.Field, error) {
	query := r.dialect.Rebind(`SELECT f.id, f.entry_id, f.name, f.iv, f.value, f.created_at, f.updated_at
		FROM ` + table + ` f
		JOIN vault_entry e ON e.id = f.entry_id
		WHERE e.vault_id = $1
		ORDER BY f.id`)

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Field
	for rows.Next() {
		var (
			f                    models.Field
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.EntryID, &f.Name, &f.IV, &f.Value, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		f.CreatedAt = models.Timestamp{Time: createdAt.Time}
		f.UpdatedAt = models.Timestamp{Time: updatedAt.Time}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
