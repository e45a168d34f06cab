// Package fs writes scraped records to files.
package fs

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.RecordExporter = (*Exporter)(nil)

// Exporter writes records atomically: the file is written next to its
// destination under a temporary name and renamed into place once complete.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes records to path in the given format.
func (e *Exporter) Export(ctx context.Context, path string, records []leadscout.Record, format leadscout.ExportFormat) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	switch format {
	case leadscout.FormatJSON:
		err = writeJSON(w, records)
	case leadscout.FormatJSONL:
		err = writeJSONL(w, records)
	case leadscout.FormatCSV:
		err = writeCSV(w, records)
	default:
		err = leadscout.Errorf(leadscout.EINVALID, "unknown export format %q", format)
	}
	if err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeJSON(w io.Writer, records []leadscout.Record) error {
	if records == nil {
		records = []leadscout.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

func writeJSONL(w io.Writer, records []leadscout.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// writeCSV writes one column per key seen in any record, sorted by name.
// Nested values are JSON encoded.
func writeCSV(w io.Writer, records []leadscout.Record) error {
	seen := make(map[string]struct{})
	var header []string
	for _, r := range records {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				header = append(header, k)
			}
		}
	}
	slices.Sort(header)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, r := range records {
		for i, k := range header {
			cell, err := csvCell(r[k])
			if err != nil {
				return fmt.Errorf("encode %s: %w", k, err)
			}
			row[i] = cell
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvCell(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
