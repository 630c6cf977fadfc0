package npa

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// LoadSQLite builds the table from a read-only SQLite database holding an
// npa_states(npa, state) table. Used when the reference data is maintained
// outside the binary.
func LoadSQLite(path string) (*Table, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("npa: open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT npa, state FROM npa_states`)
	if err != nil {
		return nil, fmt.Errorf("npa: query %s: %w", path, err)
	}
	defer rows.Close()

	states := make(map[string]string)
	for rows.Next() {
		var code, state string
		if err := rows.Scan(&code, &state); err != nil {
			return nil, fmt.Errorf("npa: scan %s: %w", path, err)
		}
		states[code] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("npa: read %s: %w", path, err)
	}
	return &Table{states: states}, nil
}
