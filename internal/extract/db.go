package extract

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultrecovery/internal/dbx"
	"github.com/dmitrijs2005/vaultrecovery/internal/logging"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
	"github.com/dmitrijs2005/vaultrecovery/internal/repositories/repomanager"
)

// DBExtractor reads snapshots straight from the relational store.
type DBExtractor struct {
	db    dbx.DBTX
	repos repomanager.RepositoryManager
	log   logging.Logger
}

// NewDBExtractor inspects the schema and returns an extractor bound to db.
func NewDBExtractor(ctx context.Context, db dbx.DBTX, dialect dbx.Dialect, log logging.Logger) (*DBExtractor, *Capabilities, error) {
	caps, err := InspectSchema(ctx, db)
	if err != nil {
		return nil, caps, err
	}
	if !caps.HasVersion {
		log.Info(ctx, "user_key has no version column, all keys are legacy")
	}
	return NewDBExtractorWith(db, repomanager.NewSQLRepositoryManager(dialect, caps.HasVersion), log), caps, nil
}

// NewDBExtractorWith builds an extractor over explicit repositories.
func NewDBExtractorWith(db dbx.DBTX, repos repomanager.RepositoryManager, log logging.Logger) *DBExtractor {
	return &DBExtractor{db: db, repos: repos, log: log}
}

// Keys returns the current keys of all users, or of userUUID.
func (x *DBExtractor) Keys(ctx context.Context, userUUID string) ([]*models.UserKey, error) {
	return x.repos.Keys(x.db).CurrentKeys(ctx, userUUID)
}

// Vaults returns vaults reachable by userUUID (every vault when empty) with
// their rights. Entry trees are loaded when withEntries is set.
func (x *DBExtractor) Vaults(ctx context.Context, userUUID string, vaultUUIDs []string, withEntries bool) ([]*models.Vault, error) {
	list, err := x.repos.Vaults(x.db).List(ctx, userUUID, vaultUUIDs)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Vault{}
	}

	for _, v := range list {
		rights, err := x.repos.Vaults(x.db).Rights(ctx, v.ID)
		if err != nil {
			return nil, fmt.Errorf("vault %s rights: %w", v.UUID, err)
		}
		v.Rights = rights

		v.Entries = []*models.Entry{}
		if !withEntries {
			continue
		}
		entries, err := x.tree(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("vault %s entries: %w", v.UUID, err)
		}
		v.Entries = entries
	}
	return list, nil
}

func (x *DBExtractor) tree(ctx context.Context, v *models.Vault) ([]*models.Entry, error) {
	repo := x.repos.Entries(x.db)

	rows, err := repo.Entries(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	fields, err := repo.Fields(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	files, err := repo.Files(ctx, v.ID)
	if err != nil {
		return nil, err
	}

	return BuildTree(rows, fields, files, func(e *models.Entry) {
		x.log.Warn(ctx, "entry parent not in vault, attached at root", "vault", v.UUID, "entry", e.UUID)
	}), nil
}

// Snapshot implements Source.
func (x *DBExtractor) Snapshot(ctx context.Context, userUUID string, vaultUUIDs []string) (*models.Exported, error) {
	if userUUID == "" {
		return nil, fmt.Errorf("export needs a user uuid")
	}
	key, err := x.repos.Keys(x.db).CurrentKey(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("user %s key: %w", userUUID, err)
	}

	vaults, err := x.Vaults(ctx, userUUID, vaultUUIDs, true)
	if err != nil {
		return nil, err
	}

	x.log.Info(ctx, "snapshot extracted", "user", userUUID, "vaults", len(vaults))
	return models.NewExported(key, vaults), nil
}
