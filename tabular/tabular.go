// Package tabular abstracts row-oriented input sources so parsers do not
// care whether records arrive from a CSV file or a workbook tab.
package tabular

import "fmt"

// Row is one raw row of cells.
type Row []string

// RowIter walks a table lazily, one row at a time. Next returns io.EOF when
// the table is exhausted.
type RowIter interface {
	Next() (Row, error)
	Close() error
}

// Source is a named collection of tables.
type Source interface {
	// Name identifies the source in diagnostics, usually the file name.
	Name() string
	// Tables lists the table names this source provides.
	Tables() []string
	// Rows opens a lazy iterator over the named table.
	Rows(table string) (RowIter, error)
	Close() error
}

// SourceNotFoundError reports that an expected table (e.g. a workbook tab)
// is absent from a source.
type SourceNotFoundError struct {
	Source string
	Table  string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source %s: no table %q", e.Source, e.Table)
}
