// Package vaults provides the SQL repository over the vault and vault_right tables.
package vaults

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

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

func (r *SQLRepository) List(ctx context.Context, userUUID string, uuids []string) ([]*models.Vault, error) {
	var (
		b     strings.Builder
		where []string
		args  []any
	)

	b.WriteString(`SELECT v.id, v.uuid, v.name, v.note, v.user_id, v.created_at, v.updated_at FROM vault v`)
	if userUUID != "" {
		b.WriteString(` JOIN vault_right r ON r.vault_id = v.id JOIN users u ON u.id = r.user_id`)
		args = append(args, userUUID)
		where = append(where, "u.uuid = "+r.dialect.Placeholder(len(args)))
	}
	if len(uuids) > 0 {
		where = append(where, "v.uuid IN "+r.dialect.In(len(args)+1, len(uuids)))
		for _, u := range uuids {
			args = append(args, u)
		}
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY v.id")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Vault
	for rows.Next() {
		var (
			v                    models.Vault
			note                 sql.NullString
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(&v.ID, &v.UUID, &v.Name, &note, &v.UserID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan vault: %w", err)
		}
		v.Note = note.String
		v.CreatedAt = models.Timestamp{Time: createdAt.Time}
		v.UpdatedAt = models.Timestamp{Time: updatedAt.Time}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLRepository) Rights(ctx context.Context, vaultID int64) (models.Rights, error) {
	query := r.dialect.Rebind(`SELECT u.uuid, r.key
		FROM vault_right r
		JOIN users u ON u.id = r.user_id
		WHERE r.vault_id = $1
		ORDER BY r.id`)

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	rights := models.Rights{}
	for rows.Next() {
		var userUUID, key string
		if err := rows.Scan(&userUUID, &key); err != nil {
			return nil, fmt.Errorf("scan vault right: %w", err)
		}
		rights[userUUID] = key
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rights, nil
}
