package tabular

import (
	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of an Office Open XML workbook.
// The first row is the header.
type XLSXReader struct {
	// Sheet overrides the worksheet name; empty means the first sheet.
	Sheet string
}

func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

func (r *XLSXReader) Read(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &ParseError{Path: path, Reason: "workbook has no worksheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: "cannot read worksheet " + sheet, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: path, Reason: "worksheet " + sheet + " is empty"}
	}

	return &Table{
		Format: FormatSpreadsheet,
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}
