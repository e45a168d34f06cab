package leadscout

import (
	"context"
	"path/filepath"
	"strings"
)

// ExportFormat is a file encoding for exported records.
type ExportFormat string

// ExportFormat values.
const (
	FormatJSON  ExportFormat = "json"
	FormatJSONL ExportFormat = "jsonl"
	FormatCSV   ExportFormat = "csv"
)

// ParseExportFormat returns the format named by s, or EINVALID.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatCSV:
		return f, nil
	case "ndjson":
		return FormatJSONL, nil
	}
	return "", Errorf(EINVALID, "unknown export format %q", s)
}

// ExportFormatFromPath guesses the format from a file extension,
// defaulting to JSON.
func ExportFormatFromPath(path string) ExportFormat {
	f, err := ParseExportFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// RecordExporter writes records to a file.
type RecordExporter interface {
	// Export replaces the file at path with records in the given format.
	// Readers never observe a partially written file.
	Export(ctx context.Context, path string, records []Record, format ExportFormat) error
}
