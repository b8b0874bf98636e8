package vaults

import (
	"context"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// Repository reads vault rows and their rights.
type Repository interface {
	// List returns vaults reachable by userUUID (all vaults when empty),
	// restricted to uuids when that set is not empty. Entries are not loaded.
	List(ctx context.Context, userUUID string, uuids []string) ([]*models.Vault, error)
	// Rights returns the wrapped master keys of a vault keyed by user uuid.
	Rights(ctx context.Context, vaultID int64) (models.Rights, error)
}
