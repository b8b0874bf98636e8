package extract

import (
	"context"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// Source yields the encrypted snapshot a recovery runs on.
type Source interface {
	// Snapshot returns the key of userUUID and the vaults reachable by that
	// user, restricted to vaultUUIDs when not empty.
	Snapshot(ctx context.Context, userUUID string, vaultUUIDs []string) (*models.Exported, error)
}
