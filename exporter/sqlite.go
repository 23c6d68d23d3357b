package exporter

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"prodscrape/record"
)

// SQLite writes records into a SQLite database table whose columns are the
// field union. The table is recreated on every export so a run always
// reflects exactly the records it produced.
type SQLite struct {
	Path  string
	Table string
}

// NewSQLite creates a SQLite exporter writing to the given database path.
// An empty table name defaults to "products".
func NewSQLite(path, table string) *SQLite {
	if table == "" {
		table = "products"
	}
	return &SQLite{Path: path, Table: table}
}

// Export writes all records. An empty record set still creates the database
// file, with no table.
func (e *SQLite) Export(records []*record.Record) error {
	if err := ensureParentDir(e.Path); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	db, err := sql.Open("sqlite3", e.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(e.Table))); err != nil {
		return fmt.Errorf("failed to reset table: %w", err)
	}

	if len(records) == 0 {
		// Touch the file so a zero-record export is still representable.
		return db.Ping()
	}

	header := headerFields(records)

	columns := make([]string, len(header))
	for i, field := range header {
		columns[i] = quoteIdent(field) + " TEXT"
	}
	schema := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(e.Table), strings.Join(columns, ", "))
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	quoted := make([]string, len(header))
	for i, field := range header {
		quoted[i] = quoteIdent(field)
	}
	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(e.Table), strings.Join(quoted, ", "), placeholders,
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for _, rec := range records {
		for i, field := range header {
			if value, ok := rec.Get(field); ok {
				args[i] = value
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	return tx.Commit()
}

// quoteIdent wraps an identifier in double quotes for use in dynamic DDL.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
