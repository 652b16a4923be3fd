// Package mapping builds the bidirectional twin-code table from a parsed
// mapping source.
package mapping

import (
	"fmt"
	"strings"

	"github.com/BartekS5/twinren/internal/tabular"
	"github.com/BartekS5/twinren/pkg/logger"
	"github.com/BartekS5/twinren/pkg/models"
	"github.com/BartekS5/twinren/pkg/utils"
)

// Spreadsheet sources must name their code columns with these headers.
const (
	HeaderLeft  = "CodeX"
	HeaderRight = "CodeY"
)

// EmptyMappingError is returned when no row survives cleaning.
type EmptyMappingError struct {
	Source string
}

func (e *EmptyMappingError) Error() string {
	if e.Source == "" {
		return "no valid rows found in mapping source"
	}
	return fmt.Sprintf("no valid rows found in mapping file '%s'", e.Source)
}

// Options selects the two code columns. Empty header names mean the first
// two columns are used positionally.
type Options struct {
	LeftHeader  string
	RightHeader string
	Source      string
}

// OptionsFor returns the column rules of a table format: spreadsheets are
// addressed by header, delimited text by position.
func OptionsFor(format tabular.Format) Options {
	if format == tabular.FormatSpreadsheet {
		return Options{LeftHeader: HeaderLeft, RightHeader: HeaderRight}
	}
	return Options{}
}

// TabularRow is one candidate pair taken from the selected columns.
type TabularRow struct {
	Left  string
	Right string
	Line  int
}

// BuildFromFile parses path and builds the mapping from it.
func BuildFromFile(path string, log *logger.Logger) (models.CodeMapping, *models.BuildReport, error) {
	tbl, err := tabular.Open(path)
	if err != nil {
		return nil, nil, err
	}
	opts := OptionsFor(tbl.Format)
	opts.Source = path
	return Build(tbl, opts, log)
}

// Build turns a table into a symmetric CodeMapping. The first pair that
// claims a code wins; later rows reusing either code are reported as
// duplicates and skipped.
func Build(tbl *tabular.Table, opts Options, log *logger.Logger) (models.CodeMapping, *models.BuildReport, error) {
	left, right, err := selectColumns(tbl, opts)
	if err != nil {
		return nil, nil, err
	}

	report := &models.BuildReport{
		Source:      opts.Source,
		Format:      string(tbl.Format),
		Encoding:    tbl.Encoding,
		LeftColumn:  tbl.Header[left],
		RightColumn: tbl.Header[right],
	}
	if tbl.Delimiter != 0 {
		report.Delimiter = string(tbl.Delimiter)
		log.Infof("Delimited file read with separator %q and encoding '%s'", tbl.Delimiter, tbl.Encoding)
	}
	log.Infof("Columns found: %v", tbl.Header)
	log.Infof("Using columns: '%s' and '%s'", report.LeftColumn, report.RightColumn)

	rows := cleanRows(tbl, left, right)
	report.Dropped = len(tbl.Rows) - len(rows)
	if len(rows) == 0 {
		return nil, nil, &EmptyMappingError{Source: opts.Source}
	}

	m := make(models.CodeMapping, len(rows)*2)
	for _, row := range rows {
		_, leftTaken := m[row.Left]
		_, rightTaken := m[row.Right]
		if leftTaken || rightTaken || row.Left == row.Right {
			report.Duplicates = append(report.Duplicates, models.RejectedRow{Left: row.Left, Right: row.Right, Line: row.Line})
			continue
		}
		m[row.Left] = row.Right
		m[row.Right] = row.Left
	}
	report.Accepted = m.Pairs()

	if len(report.Duplicates) > 0 {
		dups := make([]string, len(report.Duplicates))
		for i, d := range report.Duplicates {
			dups[i] = d.String()
		}
		log.Warnf("Duplicate rows ignored: [%s]", strings.Join(dups, ", "))
	}
	log.Infof("Mapping built: %d code pairs", report.Accepted)
	return m, report, nil
}

func selectColumns(tbl *tabular.Table, opts Options) (int, int, error) {
	if opts.LeftHeader == "" && opts.RightHeader == "" {
		if len(tbl.Header) < 2 {
			return 0, 0, &tabular.ParseError{
				Path:   opts.Source,
				Reason: fmt.Sprintf("the file must have at least 2 columns, found %d", len(tbl.Header)),
			}
		}
		return 0, 1, nil
	}

	left, right := tbl.Column(opts.LeftHeader), tbl.Column(opts.RightHeader)
	var missing []string
	if left < 0 {
		missing = append(missing, opts.LeftHeader)
	}
	if right < 0 {
		missing = append(missing, opts.RightHeader)
	}
	if len(missing) > 0 {
		return 0, 0, &tabular.ParseError{
			Path:   opts.Source,
			Reason: fmt.Sprintf("missing columns %v, present columns %v", missing, tbl.Header),
		}
	}
	return left, right, nil
}

// cleanRows drops rows whose selected cells are missing or blank and
// coerces the rest to trimmed text. Line numbers count the header as line 1.
func cleanRows(tbl *tabular.Table, left, right int) []TabularRow {
	rows := make([]TabularRow, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		l := utils.CellString(tbl.Cell(i, left))
		r := utils.CellString(tbl.Cell(i, right))
		if l == "" || r == "" {
			continue
		}
		rows = append(rows, TabularRow{Left: l, Right: r, Line: i + 2})
	}
	return rows
}
