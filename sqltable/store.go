// Package sqltable loads table rows from SQL databases
// and persists the edits of a table back to a database table.
//
// Queries use ? placeholders as supported by SQLite and MySQL.
package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/powerhouse-inc/go-datatable"
)

// Row is the row type of tables backed by a Store.
type Row = map[string]any

// ErrRowNotFound is returned when the key of a row
// to be updated or deleted matches no database row.
var ErrRowNotFound = errors.New("row not found")

// QueryRecords executes query and scans the result rows into records.
func QueryRecords(ctx context.Context, db *sql.DB, query string, args ...any) ([]Row, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return ScanRecords(ctx, rows)
}

// Store persists the rows of a table in a database table
// where every row is identified by the value of the Key column.
type Store struct {
	DB    *sql.DB
	Table string
	Key   string
}

func NewStore(db *sql.DB, table, key string) *Store {
	return &Store{DB: db, Table: table, Key: key}
}

// Records returns all rows of the table ordered by key.
func (s *Store) Records(ctx context.Context) ([]Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s ORDER BY %s", QuoteIdentifier(s.Table), QuoteIdentifier(s.Key))
	return QueryRecords(ctx, s.DB, query)
}

// Insert inserts a row with the values of data.
// The keys of data are used as column names.
func (s *Store) Insert(ctx context.Context, data Row) error {
	if len(data) == 0 {
		return errors.New("no values to insert")
	}
	var (
		columns = slices.Sorted(maps.Keys(data))
		names   = make([]string, len(columns))
		marks   = make([]string, len(columns))
		args    = make([]any, len(columns))
	)
	for i, column := range columns {
		names[i] = QuoteIdentifier(column)
		marks[i] = "?"
		args[i] = data[column]
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdentifier(s.Table),
		strings.Join(names, ", "),
		strings.Join(marks, ", "),
	)
	_, err := s.DB.ExecContext(ctx, query, args...)
	return err
}

// Update sets the column of the row identified by
// the key value of row to value.
func (s *Store) Update(ctx context.Context, row Row, column string, value any) error {
	key, err := s.keyOf(row)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		"UPDATE %s SET %s = ? WHERE %s = ?",
		QuoteIdentifier(s.Table),
		QuoteIdentifier(column),
		QuoteIdentifier(s.Key),
	)
	result, err := s.DB.ExecContext(ctx, query, value, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, key)
}

// Delete deletes rows within a transaction,
// either all rows are deleted or none.
func (s *Store) Delete(ctx context.Context, rows []Row) (err error) {
	keys := make([]any, len(rows))
	for i, row := range rows {
		keys[i], err = s.keyOf(row)
		if err != nil {
			return err
		}
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", QuoteIdentifier(s.Table), QuoteIdentifier(s.Key))
	for _, key := range keys {
		result, err := tx.ExecContext(ctx, query, key)
		if err != nil {
			return err
		}
		if err = checkRowsAffected(result, key); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) keyOf(row Row) (any, error) {
	key, ok := row[s.Key]
	if !ok || key == nil {
		return nil, fmt.Errorf("row has no value for key column %q", s.Key)
	}
	return key, nil
}

func checkRowsAffected(result sql.Result, key any) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: key %v", ErrRowNotFound, key)
	}
	return nil
}

// Bind sets the OnAdd and OnDelete callbacks of config and the
// OnSave callbacks of all editable columns to persist the changes
// in the store. After every change the table data is reloaded
// from the store by calling reload.
func (s *Store) Bind(config *datatable.Config[Row], reload func(ctx context.Context) error) {
	config.OnAdd = func(ctx context.Context, data map[string]any) error {
		if err := s.Insert(ctx, data); err != nil {
			return err
		}
		return reload(ctx)
	}
	config.OnDelete = func(ctx context.Context, rows []Row) error {
		if err := s.Delete(ctx, rows); err != nil {
			return err
		}
		return reload(ctx)
	}
	for i := range config.Columns {
		if !config.Columns[i].Editable {
			continue
		}
		config.Columns[i].OnSave = func(ctx context.Context, value any, cell *datatable.CellContext[Row]) (bool, error) {
			if err := s.Update(ctx, cell.Row, cell.Column.Field, value); err != nil {
				return false, err
			}
			return true, reload(ctx)
		}
	}
}

// QuoteIdentifier quotes a table or column name with double quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
