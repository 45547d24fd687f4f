package history

import (
	"encoding/json"
	"io"
	"time"
)

// ExportFilename returns the download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "career_history_" + t.Format("2006-01-02") + ".json"
}

// Export writes items as an indented JSON array.
func Export(w io.Writer, items []*Item) error {
	if items == nil {
		items = []*Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
