package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectTables(mock sqlmock.Sqlmock, keyColumns []string, missing string) {
	for _, table := range RequiredTables {
		q := mock.ExpectQuery(`^SELECT \* FROM ` + table + ` WHERE 1=0$`)
		switch {
		case table == missing:
			q.WillReturnError(errors.New("no such table: " + table))
		case table == TableUserKey:
			q.WillReturnRows(sqlmock.NewRows(keyColumns))
		default:
			q.WillReturnRows(sqlmock.NewRows([]string{"id"}))
		}
	}
}

func TestInspectSchema(t *testing.T) {
	tests := []struct {
		name        string
		keyColumns  []string
		missing     string
		wantVersion bool
		wantErr     error
	}{
		{
			name:        "versioned schema",
			keyColumns:  []string{"id", "user_id", "fingerprint", "VERSION", "salt"},
			wantVersion: true,
		},
		{
			name:       "legacy schema",
			keyColumns: []string{"id", "user_id", "fingerprint", "salt"},
		},
		{
			name:       "missing table",
			keyColumns: []string{"id", "version"},
			missing:    TableFile,
			wantErr:    common.ErrSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer db.Close()

			expectTables(mock, tt.keyColumns, tt.missing)

			caps, err := InspectSchema(context.Background(), db)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.missing)
				assert.False(t, caps.Tables[tt.missing])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, caps.HasVersion)
			assert.Len(t, caps.Tables, len(RequiredTables))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
