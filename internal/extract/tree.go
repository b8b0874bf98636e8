package extract

import (
	"slices"

	"github.com/dmitrijs2005/vaultrecovery/internal/models"
)

// BuildTree nests flat entry rows by parent id and attaches fields and files
// to their entries, keeping the order of the input slices. Entries whose
// parent is not among rows are attached at the root and passed to onOrphan,
// as is the first entry of every parent cycle, which is cut from its parent.
func BuildTree(rows []*models.Entry, fields []*models.Field, files []*models.File, onOrphan func(*models.Entry)) []*models.Entry {
	byID := make(map[int64]*models.Entry, len(rows))
	for _, e := range rows {
		e.Fields = []*models.Field{}
		e.Files = []*models.File{}
		e.Entries = []*models.Entry{}
		byID[e.ID] = e
	}

	for _, f := range fields {
		if e, ok := byID[f.EntryID]; ok {
			e.Fields = append(e.Fields, f)
		}
	}
	for _, f := range files {
		if e, ok := byID[f.EntryID]; ok {
			e.Files = append(e.Files, f)
		}
	}

	roots := []*models.Entry{}
	for _, e := range rows {
		if e.ParentID == nil {
			roots = append(roots, e)
			continue
		}
		parent, ok := byID[*e.ParentID]
		if !ok || parent == e {
			if onOrphan != nil {
				onOrphan(e)
			}
			roots = append(roots, e)
			continue
		}
		parent.Entries = append(parent.Entries, e)
	}

	reached := make(map[*models.Entry]bool, len(rows))
	var mark func(*models.Entry)
	mark = func(e *models.Entry) {
		if reached[e] {
			return
		}
		reached[e] = true
		for _, c := range e.Entries {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}

	for _, e := range rows {
		if reached[e] {
			continue
		}
		parent := byID[*e.ParentID]
		parent.Entries = slices.DeleteFunc(parent.Entries, func(c *models.Entry) bool { return c == e })
		if onOrphan != nil {
			onOrphan(e)
		}
		roots = append(roots, e)
		mark(e)
	}
	return roots
}
