package vaults

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vaultColumns = []string{"id", "uuid", "name", "note", "user_id", "created_at", "updated_at"}

func TestList_AllVaults(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLRepository(db, dbx.Postgres)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`^SELECT v\.id, v\.uuid, v\.name, v\.note, v\.user_id, v\.created_at, v\.updated_at FROM vault v ORDER BY v\.id$`).
		WillReturnRows(sqlmock.NewRows(vaultColumns).
			AddRow(int64(1), "v-1", "Personal", "n", int64(7), ts, ts).
			AddRow(int64(2), "v-2", "Work", nil, int64(7), nil, nil))

	got, err := repo.List(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Personal", got[0].Name)
	assert.Equal(t, ts, got[0].CreatedAt.Time)
	assert.Empty(t, got[1].Note)
	assert.True(t, got[1].CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ByUserAndUUIDs(t *testing.T) {
	tests := []struct {
		name    string
		dialect dbx.Dialect
		pattern string
	}{
		{
			name:    "postgres",
			dialect: dbx.Postgres,
			pattern: `JOIN vault_right r ON r\.vault_id = v\.id JOIN users u ON u\.id = r\.user_id WHERE u\.uuid = \$1 AND v\.uuid IN \(\$2, \$3\) ORDER BY v\.id$`,
		},
		{
			name:    "sqlite",
			dialect: dbx.SQLite,
			pattern: `WHERE u\.uuid = \? AND v\.uuid IN \(\?, \?\) ORDER BY v\.id$`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.pattern).
				WithArgs("u-1", "v-1", "v-9").
				WillReturnRows(sqlmock.NewRows(vaultColumns).AddRow(int64(1), "v-1", "Personal", "", int64(7), nil, nil))

			got, err := NewSQLRepository(db, tt.dialect).List(context.Background(), "u-1", []string{"v-1", "v-9"})
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("boom"))

	_, err = NewSQLRepository(db, dbx.Postgres).List(context.Background(), "", nil)
	require.ErrorContains(t, err, "db error: boom")
}

func TestRights(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT u\.uuid, r\.key\s+FROM vault_right r.*WHERE r\.vault_id = \?`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "key"}).
			AddRow("u-1", "k1").
			AddRow("u-2", "k2"))

	got, err := NewSQLRepository(db, dbx.SQLite).Rights(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.Rights{"u-1": "k1", "u-2": "k2"}, got)
}
