// Package batch implements the batch prediction pipeline: CSV parsing,
// bounded previews, and the downloadable artifact lifecycle.
package batch

import "strings"

// DefaultPreviewRows bounds how many parsed rows a preview retains,
// including the header row.
const DefaultPreviewRows = 15

// Parse splits raw CSV text into rows of cells. Lines are split on "\n"
// (tolerating "\r\n"), cells on ",". Quoted fields and escaped commas are
// intentionally unsupported; the service emits plain comma-separated output.
func Parse(text string) [][]string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	if len(rows) == 0 {
		return nil
	}
	return rows
}

// Preview is a bounded view over parsed rows. Row 0 is rendered as a header.
type Preview struct {
	Rows      [][]string
	Truncated bool
}

// NewPreview retains at most limit rows. Truncated reports whether the
// source had more. A non-positive limit falls back to DefaultPreviewRows.
func NewPreview(rows [][]string, limit int) Preview {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	if len(rows) <= limit {
		return Preview{Rows: rows}
	}
	return Preview{Rows: rows[:limit], Truncated: true}
}
