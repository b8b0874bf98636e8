package pkgformat

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/vaultrecovery/internal/filex"
	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// SavedFile is one attachment written by SaveFiles.
type SavedFile struct {
	Entry string
	Name  string
	Path  string
}

// SaveFiles writes the content of every decrypted file to
// dir/<entry uuid>/<name>. Stored names are reduced to safe base names and
// made unique within their entry. Files that failed to decrypt are skipped.
// Write errors do not stop the walk; they are returned joined.
func SaveFiles(entries []*models.PlainEntry, dir string) ([]SavedFile, error) {
	var (
		saved []SavedFile
		errs  []error
	)

	models.WalkPlain(entries, func(e *models.PlainEntry) {
		var pending []*models.PlainFile
		for _, f := range e.Files {
			if !f.Failed() {
				pending = append(pending, f)
			}
		}
		if len(pending) == 0 {
			return
		}

		entryDir, err := filex.EnsureDir(dir, filex.SafeName(e.UUID))
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %s: %w", e.UUID, err))
			return
		}

		used := map[string]bool{}
		for _, f := range pending {
			name := uniqueName(filex.SafeName(f.Name), used)
			path := filepath.Join(entryDir, name)
			if err := filex.WriteFile(path, f.Value); err != nil {
				errs = append(errs, fmt.Errorf("entry %s file %s: %w", e.UUID, f.Name, err))
				continue
			}
			saved = append(saved, SavedFile{Entry: e.UUID, Name: f.Name, Path: path})
		}
	})

	return saved, errors.Join(errs...)
}

// uniqueName returns name, or "stem (n).ext" when name is already taken.
func uniqueName(name string, used map[string]bool) string {
	candidate := name
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
	}
	used[candidate] = true
	return candidate
}
