package parse

import (
	"fmt"
	"io"

	"github.com/syneteks/billing-reports/tabular"
)

// UserExportRow is one extension from the Adams County user-export tab.
type UserExportRow struct {
	Department string
	UserType   string
}

// UserExport streams extension rows from the master workbook's user-export
// tab. The tab has no fixed name, so it is located by header: the first
// sheet carrying both a Department and a UserType column.
type UserExport struct {
	file    string
	it      tabular.RowIter
	idx     map[string]int
	skipped int
}

// NewUserExport scans the workbook for the user-export tab.
func NewUserExport(src tabular.Source) (*UserExport, error) {
	for _, table := range src.Tables() {
		it, err := src.Rows(table)
		if err != nil {
			continue
		}
		row, err := it.Next()
		if err != nil {
			it.Close()
			continue
		}
		idx := headerIndex(row)
		_, hasDept := idx["department"]
		_, hasType := idx["usertype"]
		if hasDept && hasType {
			return &UserExport{file: src.Name(), it: it, idx: idx}, nil
		}
		it.Close()
	}
	return nil, &tabular.SourceNotFoundError{Source: src.Name(), Table: "user export"}
}

// Next returns the next extension row, or io.EOF. Rows without a department
// are dropped.
func (p *UserExport) Next() (UserExportRow, error) {
	for {
		row, err := p.it.Next()
		if err == io.EOF {
			return UserExportRow{}, io.EOF
		}
		if err != nil {
			return UserExportRow{}, fmt.Errorf("%s: read row: %w", p.file, err)
		}
		dept := cell(row, p.idx["department"])
		if dept == "" {
			continue
		}
		return UserExportRow{
			Department: dept,
			UserType:   cell(row, p.idx["usertype"]),
		}, nil
	}
}

// Skipped reports how many malformed rows were dropped so far.
func (p *UserExport) Skipped() int { return p.skipped }

func (p *UserExport) Close() error { return p.it.Close() }
