package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVFile exposes a single CSV file as a one-table Source. The table name is
// the file's base name; Rows ignores the requested name.
type CSVFile struct {
	path string
}

// OpenCSV wraps the CSV file at path. The file itself is opened per Rows
// call, so one source can be iterated more than once.
func OpenCSV(path string) (*CSVFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("tabular: csv %s: %w", path, err)
	}
	return &CSVFile{path: path}, nil
}

func (c *CSVFile) Name() string { return c.path }

func (c *CSVFile) Tables() []string { return []string{filepath.Base(c.path)} }

func (c *CSVFile) Rows(string) (RowIter, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("tabular: open %s: %w", c.path, err)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return &csvIter{file: f, r: r}, nil
}

func (c *CSVFile) Close() error { return nil }

type csvIter struct {
	file  *os.File
	r     *csv.Reader
	begun bool
}

func (it *csvIter) Next() (Row, error) {
	rec, err := it.r.Read()
	if err != nil {
		return nil, err
	}
	// Strip the UTF-8 BOM some exports carry on the first cell.
	if !it.begun {
		it.begun = true
		if len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\uFEFF")
		}
	}
	return Row(rec), nil
}

func (it *csvIter) Close() error { return it.file.Close() }
