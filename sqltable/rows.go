package sqltable

import (
	"context"
	"database/sql"
	"slices"
)

var _ Rows = &sql.Rows{}

// Rows abstracts the methods of *sql.Rows used
// to scan query results into table records.
type Rows interface {
	// Columns returns the names of the columns in the result set.
	Columns() ([]string, error)
	// Scan copies the column values of the current row into dest.
	Scan(dest ...any) error
	Close() error
	Next() bool
	// Err returns the error encountered during iteration, if any.
	Err() error
}

// ScanRecords scans all rows into records with
// the column names as keys and closes rows.
// []byte values are copied because they are
// only valid until the next call of rows.Next.
func ScanRecords(ctx context.Context, rows Rows) (records []map[string]any, err error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		err = rows.Scan(valueScanners...)
		if err != nil {
			return records, err
		}
		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = scannedValues[i]
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
