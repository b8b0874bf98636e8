package entries

import (
	"context"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// Repository reads the flat entry rows of a vault with their fields and files.
// Tree assembly is left to the caller.
type Repository interface {
	Entries(ctx context.Context, vaultID int64) ([]*models.Entry, error)
	Fields(ctx context.Context, vaultID int64) ([]*models.Field, error)
	Files(ctx context.Context, vaultID int64) ([]*models.File, error)
}
