package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dmitrijs2005/vaultrecovery/internal/common"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// ParseExported decodes and validates an exported snapshot.
func ParseExported(data []byte) (*models.Exported, error) {
	var doc models.Exported
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadExported reads a snapshot from r.
func LoadExported(r io.Reader) (*models.Exported, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseExported(data)
}

// ExportedSource serves snapshots from an already loaded export.
type ExportedSource struct {
	doc *models.Exported
}

func NewExportedSource(doc *models.Exported) *ExportedSource {
	return &ExportedSource{doc: doc}
}

// OpenExportedFile loads the snapshot at path.
func OpenExportedFile(path string) (*ExportedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := LoadExported(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewExportedSource(doc), nil
}

// Snapshot implements Source. An empty userUUID means the export owner.
// Uuids are compared in canonical form on both sides.
func (s *ExportedSource) Snapshot(_ context.Context, userUUID string, vaultUUIDs []string) (*models.Exported, error) {
	if userUUID != "" && models.NormalizeUUID(userUUID) != models.NormalizeUUID(s.doc.UUID) {
		return nil, fmt.Errorf("export belongs to %s, not %s: %w", s.doc.UUID, userUUID, common.ErrorNotFound)
	}
	if len(vaultUUIDs) == 0 {
		return s.doc, nil
	}

	wanted := make([]string, 0, len(vaultUUIDs))
	for _, u := range vaultUUIDs {
		wanted = append(wanted, models.NormalizeUUID(u))
	}
	vaults := make([]*models.Vault, 0, len(s.doc.Vaults))
	for _, v := range s.doc.Vaults {
		if slices.Contains(wanted, models.NormalizeUUID(v.UUID)) {
			vaults = append(vaults, v)
		}
	}
	return models.NewExported(s.doc.Private, vaults), nil
}
