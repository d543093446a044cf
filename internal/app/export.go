package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\uFEFF"

// exportName returns the file name for one exported page.
func exportName(entity string, page int) string {
	return fmt.Sprintf("%s_page_%d.csv", entity, page)
}

// encodeCSV renders a spreadsheet-friendly CSV document: a byte order mark,
// a bare header line, then rows with every cell quoted. Lines end in \n.
func encodeCSV(header []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(strings.Join(header, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// writeCSV writes the document to dir/name and returns its path.
func writeCSV(dir, name string, header []string, rows [][]string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(encodeCSV(header, rows)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}
