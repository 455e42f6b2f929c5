/*
Package sqltable reads and writes dataset.Table values from SQL databases:
SQLite3 files and PostgreSQL databases.
*/
package sqltable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	// registers the postgres driver
	_ "github.com/lib/pq"
	// registers the sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/sapling/dataset"
)

const (
	// SQLite3 is the driver name for SQLite3 databases
	SQLite3 = "sqlite3"
	// PostgreSQL is the driver name for PostgreSQL databases
	PostgreSQL = "postgres"
)

/*
Source is a SQL database from which tables can be read and to which they can
be written.
*/
type Source struct {
	db *sqlx.DB
}

/*
Open takes a driver name (SQLite3 or PostgreSQL), a data source name and a
limit to the number of open connections (0 for no limit) and returns a
Source on the database or an error if it cannot be reached.
*/
func Open(ctx context.Context, driver, dsn string, maxConns int) (*Source, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %v", driver, err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s database: %v", driver, err)
	}
	return &Source{db}, nil
}

/*
Driver takes an input location and returns the driver to open it with: SQLite3
for paths ending in ".db", PostgreSQL for postgres:// and postgresql:// URLs
and "" for anything else.
*/
func Driver(input string) string {
	switch {
	case strings.HasSuffix(input, ".db"):
		return SQLite3
	case strings.HasPrefix(input, "postgres://"), strings.HasPrefix(input, "postgresql://"):
		return PostgreSQL
	}
	return ""
}

/*
ReadTable takes a context and a table name and returns the contents of the
database table as a dataset.Table: every column as text, NULL values as
empty cells.
*/
func (s *Source) ReadTable(ctx context.Context, name string) (*dataset.Table, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdentifier(name)))
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %v", name, err)
	}
	defer rows.Close()
	headers, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of table %s: %v", name, err)
	}
	var records [][]string
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("reading row %d of table %s: %v", len(records)+1, name, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = text(v)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table %s: %v", name, err)
	}
	return dataset.NewTable(headers, records)
}

/*
WriteTable takes a context, a table name and a dataset.Table and creates a
database table with a text column for each column of the given table, then
inserts its rows in a single transaction.
*/
func (s *Source) WriteTable(ctx context.Context, name string, t *dataset.Table) error {
	columns := make([]string, len(t.Headers))
	placeholders := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		columns[i] = quoteIdentifier(h)
		placeholders[i] = "?"
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("writing table %s: %v", name, err)
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s TEXT)", quoteIdentifier(name), strings.Join(columns, " TEXT, ")))
	if err != nil {
		return fmt.Errorf("creating table %s: %v", name, err)
	}
	insert := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdentifier(name), strings.Join(columns, ", "), strings.Join(placeholders, ", ")))
	for i, row := range t.Rows {
		args := make([]interface{}, len(row))
		for j, cell := range row {
			args[j] = cell
		}
		_, err = tx.ExecContext(ctx, insert, args...)
		if err != nil {
			return fmt.Errorf("inserting row %d into table %s: %v", i+1, name, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("writing table %s: %v", name, err)
	}
	return nil
}

// Close closes the connections to the database.
func (s *Source) Close() error {
	return s.db.Close()
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func text(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}
