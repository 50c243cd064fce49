// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite tables live in a single "records" table. row_index preserves row
// order; every other column is TEXT named after the frame column.
const (
	sqliteTable    = "records"
	sqliteRowIndex = "row_index"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func writeSQLite(path string, f *Frame) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing database: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	defs := []string{quoteIdent(sqliteRowIndex) + " INTEGER PRIMARY KEY"}
	cols := []string{quoteIdent(sqliteRowIndex)}
	for _, c := range f.Columns {
		defs = append(defs, quoteIdent(c)+" TEXT")
		cols = append(cols, quoteIdent(c))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", sqliteTable, strings.Join(defs, ", "))
	if _, err := db.Exec(create); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sqliteTable, strings.Join(cols, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for r, row := range f.Rows {
		args[0] = r
		for i, v := range row {
			args[i+1] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", r+1, err)
		}
	}
	return tx.Commit()
}

func readSQLite(path string) (*Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s ORDER BY %s", sqliteTable, quoteIdent(sqliteRowIndex)))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var cols []string
	for _, n := range names {
		if n != sqliteRowIndex {
			cols = append(cols, n)
		}
	}
	f := New(cols...)

	cells := make([]sql.NullString, len(names))
	dest := make([]any, len(names))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make([]string, 0, len(cols))
		for i, n := range names {
			if n != sqliteRowIndex {
				row = append(row, cells[i].String)
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, rows.Err()
}
