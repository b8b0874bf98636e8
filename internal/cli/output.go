package cli

import (
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/vaultrecovery/internal/filex"
)

// writeResult writes v as indented JSON to path, or to w when path is empty.
func writeResult(w io.Writer, path string, v any) error {
	if path != "" {
		return filex.WriteJSON(path, v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
