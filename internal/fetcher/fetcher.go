// Package fetcher decodes tabular source documents (XLSX and delimited
// text) into an in-memory table. No business logic lives here: headers
// are whitespace-trimmed and everything else passes through as text.
package fetcher

import (
	"path/filepath"
	"strings"
)

// Table is one decoded source document: a trimmed header row plus the
// data rows as raw strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options configures source decoding.
type Options struct {
	SheetIndex int    // XLSX: sheet to read, default 0 (first sheet)
	SheetName  string // XLSX: if set, overrides SheetIndex
	Delimiter  rune   // CSV: field delimiter, default ','
}

// Read decodes path as XLSX or delimited text based on its extension.
// A missing or unreadable document is a hard error; the pipeline has no
// partial mode for an absent source.
func Read(path string, opts Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, opts)
	default:
		return ReadCSV(path, opts)
	}
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}
