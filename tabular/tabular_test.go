package tabular

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func drain(t *testing.T, it RowIter) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, it.Close())
	return rows
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.csv")
	content := "\uFEFFSource,Destination\n2125551234,3105551234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"calls.csv"}, src.Tables())

	it, err := src.Rows("calls.csv")
	require.NoError(t, err)
	rows := drain(t, it)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{"Source", "Destination"}, rows[0], "BOM must be stripped")
	assert.Equal(t, Row{"2125551234", "3105551234"}, rows[1])
}

func TestCSVFileRewindable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0644))

	src, err := OpenCSV(path)
	require.NoError(t, err)
	defer src.Close()

	for i := 0; i < 2; i++ {
		it, err := src.Rows("")
		require.NoError(t, err)
		assert.Len(t, drain(t, it), 2)
	}
}

func TestCSVFileMissing(t *testing.T) {
	_, err := OpenCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")

	x := excelize.NewFile()
	_, err := x.NewSheet("CDR26")
	require.NoError(t, err)
	require.NoError(t, x.SetSheetRow("CDR26", "A1", &[]any{"From", "To"}))
	require.NoError(t, x.SetSheetRow("CDR26", "A2", &[]any{"2125551234", "3105551234"}))
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Contains(t, wb.Tables(), "CDR26")

	it, err := wb.Rows("CDR26")
	require.NoError(t, err)
	rows := drain(t, it)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{"From", "To"}, rows[0])
	assert.Equal(t, Row{"2125551234", "3105551234"}, rows[1])
}

func TestWorkbookMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")
	x := excelize.NewFile()
	require.NoError(t, x.SaveAs(path))
	require.NoError(t, x.Close())

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Rows("CDR26")
	var notFound *SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "CDR26", notFound.Table)
}
