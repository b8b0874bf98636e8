// Package keys provides the SQL repository over the users and user_key tables.
package keys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// SQLRepository implements Repository over a dbx.DBTX.
type SQLRepository struct {
	db         dbx.DBTX
	dialect    dbx.Dialect
	hasVersion bool
}

// NewSQLRepository binds the repository to db. hasVersion tells whether the
// user_key table carries the version column; without it every key is legacy.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect, hasVersion bool) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, hasVersion: hasVersion}
}

func (r *SQLRepository) selectQuery(byUser bool) string {
	version := "NULL"
	if r.hasVersion {
		version = "k.version"
	}
	query := `SELECT u.uuid, u.login, k.fingerprint, ` + version + `, k.salt, k.iterations, k.iv, k.private
		FROM user_key k
		JOIN users u ON u.id = k.user_id
		WHERE k.current`
	if byUser {
		query += ` AND u.uuid = $1`
	}
	query += ` ORDER BY u.id`
	return r.dialect.Rebind(query)
}

// CurrentKeys returns current keys ordered by user id.
func (r *SQLRepository) CurrentKeys(ctx context.Context, userUUID string) ([]*models.UserKey, error) {
	var args []any
	if userUUID != "" {
		args = append(args, userUUID)
	}

	rows, err := r.db.QueryContext(ctx, r.selectQuery(userUUID != ""), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.UserKey
	for rows.Next() {
		var (
			k           models.UserKey
			fingerprint sql.NullString
			version     sql.NullInt64
		)
		if err := rows.Scan(&k.UUID, &k.Login, &fingerprint, &version, &k.Salt, &k.Iterations, &k.IV, &k.Private); err != nil {
			return nil, fmt.Errorf("scan user key: %w", err)
		}
		k.Fingerprint = fingerprint.String
		if version.Valid {
			v := int(version.Int64)
			k.Version = &v
		}
		result = append(result, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// CurrentKey returns the single current key of userUUID.
func (r *SQLRepository) CurrentKey(ctx context.Context, userUUID string) (*models.UserKey, error) {
	if userUUID == "" {
		return nil, fmt.Errorf("%w: empty user uuid", common.ErrorNotFound)
	}
	list, err := r.CurrentKeys(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}
