// Package tabular turns mapping sources (delimited text and spreadsheets)
// into rows of raw string cells.
package tabular

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatSpreadsheet Format = "spreadsheet"
)

// Table is a parsed source. Header holds the first row; Rows hold the data
// rows in source order. Rows may be shorter than Header.
type Table struct {
	Format    Format
	Header    []string
	Rows      [][]string
	Encoding  string
	Delimiter rune
}

// Cell returns the value at row/col or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns the index of the header named exactly name, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Reader parses one source file into a Table.
type Reader interface {
	Read(path string) (*Table, error)
}

// ParseError reports a source that cannot be interpreted as a table with at
// least two usable columns.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("cannot parse mapping file '%s': %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReaderFor picks a Reader by file extension.
func ReaderFor(path string) (Reader, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "csv", "tsv", "txt":
		return NewCSVReader(), nil
	case "xlsx", "xlsm":
		return NewXLSXReader(), nil
	case "xls":
		return nil, &ParseError{Path: path, Reason: "legacy .xls workbooks are not supported, save the file as .xlsx or .csv"}
	default:
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unsupported file format %q, use CSV or Excel (.xlsx)", ext)}
	}
}

// Open detects the source format and parses it.
func Open(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ParseError{Path: path, Reason: "file not found", Err: err}
		}
		return nil, &ParseError{Path: path, Reason: "cannot stat file", Err: err}
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Reason: "path is a directory"}
	}
	r, err := ReaderFor(path)
	if err != nil {
		return nil, err
	}
	return r.Read(path)
}
