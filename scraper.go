package leadscout

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one scraped result as a flat mapping of named fields.
type Record map[string]any

// ScraperMetadata describes a scraper for listings and help output.
type ScraperMetadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// FieldType is the type of a schema field.
type FieldType string

// FieldType values.
const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
	FieldArray   FieldType = "array"
	FieldObject  FieldType = "object"
	FieldNumber  FieldType = "number"
)

// SchemaField describes one input or output field.
type SchemaField struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	Default     any       `json:"default,omitempty"`
	Required    bool      `json:"required,omitempty"`
}

// Schema is an ordered list of fields.
type Schema []SchemaField

// Scraper extracts records from one kind of site.
type Scraper interface {
	Metadata() ScraperMetadata
	InputSchema() Schema
	OutputSchema() Schema

	// Scrape runs the scraper. Progress may be nil.
	Scrape(ctx context.Context, input Input, progress ProgressSink) ([]Record, error)
}

// ScraperRegistry looks up scrapers by ID.
type ScraperRegistry interface {
	Get(id string) (Scraper, bool)
	List() []Scraper
}

// Input holds scraper parameters as decoded from flags, YAML or JSON.
type Input map[string]any

// String returns the named string, or def when absent.
func (in Input) String(key, def string) string {
	switch v := in[key].(type) {
	case string:
		return v
	case nil:
		return def
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the named integer, or def when absent or unparseable.
func (in Input) Int(key string, def int) int {
	switch v := in[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the named boolean, or def when absent or unparseable.
func (in Input) Bool(key string, def bool) bool {
	switch v := in[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// Strings returns the named list. A single string becomes a one-element
// list; an empty string yields nil.
func (in Input) Strings(key string) []string {
	switch v := in[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringMap returns the named mapping of strings, such as custom selectors.
func (in Input) StringMap(key string) map[string]string {
	switch v := in[key].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	return nil
}

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
