package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextEncoding names a decoder tried when reading delimited text.
// A nil Decoding means the bytes must already be valid UTF-8.
type TextEncoding struct {
	Name     string
	Decoding encoding.Encoding
}

// Candidate is one (encoding, delimiter) attempt.
type Candidate struct {
	Encoding  TextEncoding
	Delimiter rune
}

var (
	UTF8        = TextEncoding{Name: "utf-8"}
	Latin1      = TextEncoding{Name: "latin-1", Decoding: charmap.ISO8859_1}
	Windows1252 = TextEncoding{Name: "cp1252", Decoding: charmap.Windows1252}

	DefaultEncodings  = []TextEncoding{UTF8, Latin1, Windows1252}
	DefaultDelimiters = []rune{',', ';', '\t'}
)

// DefaultCandidates crosses the encodings (outer) with the delimiters
// (inner) in their fixed order.
func DefaultCandidates() []Candidate {
	out := make([]Candidate, 0, len(DefaultEncodings)*len(DefaultDelimiters))
	for _, enc := range DefaultEncodings {
		for _, d := range DefaultDelimiters {
			out = append(out, Candidate{Encoding: enc, Delimiter: d})
		}
	}
	return out
}

// CSVReader reads delimited text, accepting the first candidate that yields
// a header with at least two columns.
type CSVReader struct {
	Candidates []Candidate
}

func NewCSVReader() *CSVReader {
	return &CSVReader{Candidates: DefaultCandidates()}
}

func (r *CSVReader) Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot read file", Err: err}
	}
	t, err := r.Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Reason: "cannot parse delimited text", Err: err}
	}
	return t, nil
}

// Parse runs the candidates over data in order.
func (r *CSVReader) Parse(data []byte) (*Table, error) {
	candidates := r.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates()
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var lastErr error
	widest := 0
	for _, c := range candidates {
		text, err := decode(data, c.Encoding)
		if err != nil {
			lastErr = err
			continue
		}
		t, err := parseDelimited(text, c.Delimiter)
		if err != nil {
			lastErr = err
			continue
		}
		if len(t.Header) > widest {
			widest = len(t.Header)
		}
		if len(t.Header) < 2 {
			continue
		}
		t.Encoding = c.Encoding.Name
		return t, nil
	}

	found := fmt.Sprintf("found %d", widest)
	if widest == 0 {
		found = "no delimiter could split it"
	} else {
		lastErr = nil
	}
	reason := fmt.Sprintf("the file must have at least 2 columns separated by comma, semicolon or tab (%s); expected layout:\nOriginalName,NewName\nIMG001,PRD001", found)
	return nil, &ParseError{Reason: reason, Err: lastErr}
}

func decode(data []byte, enc TextEncoding) ([]byte, error) {
	if enc.Decoding == nil {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("content is not valid %s", enc.Name)
		}
		return data, nil
	}
	out, err := enc.Decoding.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", enc.Name, err)
	}
	return out, nil
}

func parseDelimited(text []byte, delim rune) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	// Stray quotes such as an inch mark stay part of the cell.
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, fmt.Errorf("expected %d fields in row %d, saw %d", len(header), i+2, len(rec))
		}
		rows = append(rows, rec)
	}
	return &Table{
		Format:    FormatDelimited,
		Header:    header,
		Rows:      rows,
		Delimiter: delim,
	}, nil
}
