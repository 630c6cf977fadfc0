// Package parse converts each raw input shape into normalized record
// sequences. Parsers are lazy: rows are pulled one at a time, rows that fail
// value coercion are skipped and tallied, and structural problems (a missing
// required column, an absent workbook tab, a broken row iterator) are fatal.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syneteks/billing-reports/tabular"
)

// MalformedInputError reports a required column missing from a file's header.
type MalformedInputError struct {
	File   string
	Column string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: required column %q missing from header", e.File, e.Column)
}

var spaceRE = regexp.MustCompile(`\s+`)

// norm canonicalizes a header cell for matching: trimmed, lowercased,
// inner whitespace collapsed.
func norm(s string) string {
	return spaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// headerIndex maps normalized column names to their positions.
func headerIndex(header tabular.Row) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[norm(h)] = i
	}
	return idx
}

// requireColumns validates that every named column is present.
func requireColumns(file string, idx map[string]int, columns ...string) error {
	for _, c := range columns {
		if _, ok := idx[norm(c)]; !ok {
			return &MalformedInputError{File: file, Column: c}
		}
	}
	return nil
}

// cell fetches a trimmed cell by column index, tolerating short rows.
func cell(row tabular.Row, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cellFloat coerces a numeric cell. Blank means zero; anything else that
// fails to parse marks the row for skipping.
func cellFloat(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// cellInt coerces an integer cell with the same blank-is-zero rule.
// Workbook cells sometimes render integers as "12.0", so fall back to float.
func cellInt(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// readHeader pulls the header row off an iterator.
func readHeader(file string, it tabular.RowIter) (map[string]int, error) {
	row, err := it.Next()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", file, err)
	}
	return headerIndex(row), nil
}
