package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Workbook exposes an xlsx workbook as a Source with one table per sheet.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path for reading.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

func (w *Workbook) Name() string { return w.path }

func (w *Workbook) Tables() []string { return w.file.GetSheetList() }

func (w *Workbook) Rows(sheet string) (RowIter, error) {
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, &SourceNotFoundError{Source: w.path, Table: sheet}
	}
	rows, err := w.file.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("tabular: sheet %s of %s: %w", sheet, w.path, err)
	}
	return &sheetIter{rows: rows}, nil
}

func (w *Workbook) Close() error { return w.file.Close() }

type sheetIter struct {
	rows *excelize.Rows
}

func (it *sheetIter) Next() (Row, error) {
	if !it.rows.Next() {
		if err := it.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := it.rows.Columns()
	if err != nil {
		return nil, err
	}
	return Row(cols), nil
}

func (it *sheetIter) Close() error { return it.rows.Close() }
