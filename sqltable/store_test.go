package sqltable

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/powerhouse-inc/go-datatable"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	// Every connection would open its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, note BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO people (id, name, note) VALUES (1, 'Ann', x'6869'), (2, 'Bob', NULL), (3, 'Cid', NULL)`)
	require.NoError(t, err)
	return db
}

func TestQueryRecords(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	records, err := QueryRecords(ctx, db, `SELECT id, name, note FROM people WHERE id < ? ORDER BY id`, 3)
	require.NoError(t, err)
	require.Equal(t, []Row{
		{"id": int64(1), "name": "Ann", "note": []byte("hi")},
		{"id": int64(2), "name": "Bob", "note": nil},
	}, records)

	_, err = QueryRecords(ctx, db, `SELECT * FROM missing`)
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t), "people", "id")

	require.NoError(t, store.Insert(ctx, Row{"id": 4, "name": "Dan"}))
	require.Error(t, store.Insert(ctx, Row{}))

	require.NoError(t, store.Update(ctx, Row{"id": int64(2)}, "name", "Bea"))
	require.ErrorIs(t, store.Update(ctx, Row{"id": int64(9)}, "name", "X"), ErrRowNotFound)
	require.Error(t, store.Update(ctx, Row{"name": "Ann"}, "name", "X"), "missing key")

	// Unknown keys roll back the whole deletion
	err := store.Delete(ctx, []Row{{"id": int64(1)}, {"id": int64(9)}})
	require.ErrorIs(t, err, ErrRowNotFound)
	require.NoError(t, store.Delete(ctx, []Row{{"id": int64(3)}}))

	records, err := store.Records(ctx)
	require.NoError(t, err)
	names := make([]any, len(records))
	for i, r := range records {
		names[i] = r["name"]
	}
	require.Equal(t, []any{"Ann", "Bea", "Dan"}, names)
}

func TestStore_Bind(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t), "people", "id")

	var table *datatable.Table[Row]
	config := datatable.Config[Row]{
		Columns: []datatable.Column[Row]{
			{Field: "id", Type: datatable.ColumnTypeNumber},
			{Field: "name", Editable: true, Sortable: true},
		},
		Confirmer: datatable.AlwaysConfirm,
	}
	store.Bind(&config, func(ctx context.Context) error {
		records, err := store.Records(ctx)
		if err != nil {
			return err
		}
		table.SetData(records)
		return nil
	})
	records, err := store.Records(ctx)
	require.NoError(t, err)
	config.Data = records
	table = datatable.NewTable(config)
	require.True(t, table.CanAdd())

	require.NoError(t, table.SortRows(ctx, 1, datatable.SortDescending))
	require.Equal(t, "Cid", table.CellValue(0, 1))

	// Edit
	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditInput("Abe")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, "Bob", table.CellValue(0, 1))
	require.Equal(t, "Ann", table.CellValue(1, 1))
	require.Equal(t, "Abe", table.CellValue(2, 1))

	// Insert
	require.NoError(t, table.EnterCellEditMode(table.TotalRowsCount()-1, 1))
	table.SetEditInput("Zoe")
	saved, err = table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, 4, table.NumRows())
	require.Equal(t, "Zoe", table.CellValue(0, 1))

	// Delete
	require.NoError(t, table.DeleteRows(ctx, []int{0, 1}, datatable.DeleteOptions{}))
	records, err = store.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Ann", table.CellValue(0, 1))
	require.Equal(t, "Abe", table.CellValue(1, 1))
}

func TestQuoteIdentifier(t *testing.T) {
	require.Equal(t, `"people"`, QuoteIdentifier("people"))
	require.Equal(t, `"say ""hi"""`, QuoteIdentifier(`say "hi"`))
}
