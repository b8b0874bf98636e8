package keys

import (
	"context"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// Repository reads current user key records.
type Repository interface {
	// CurrentKeys returns the current key of every user, or only of userUUID
	// when it is not empty.
	CurrentKeys(ctx context.Context, userUUID string) ([]*models.UserKey, error)
	// CurrentKey returns the current key of userUUID or common.ErrorNotFound.
	CurrentKey(ctx context.Context, userUUID string) (*models.UserKey, error)
}
