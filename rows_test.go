package datatable

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type confirmRecorder struct {
	requests []ConfirmRequest
	answer   bool
	err      error
}

func (c *confirmRecorder) Confirm(ctx context.Context, request ConfirmRequest) (bool, error) {
	c.requests = append(c.requests, request)
	return c.answer, c.err
}

func TestTable_InsertRow(t *testing.T) {
	var added []map[string]any
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(ctx context.Context, data map[string]any) error {
			added = append(added, data)
			return nil
		}
	})
	ctx := context.Background()
	require.True(t, table.CanAdd())
	require.Equal(t, 3, table.TotalRowsCount())
	require.Equal(t, 2, table.NumRows())

	require.NoError(t, table.EnterCellEditMode(2, 1))
	require.True(t, table.IsAdding())
	require.True(t, rec.last(EventEditingStart).(EditingStartEvent).IsAddingRow)

	table.SetEditInput("C")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, []map[string]any{{"name": "C"}}, added)
	require.Equal(t, []EventName{
		EventEditingStart,
		EventEditingValidationSuccess,
		EventInsertStart,
		EventInsertSuccess,
		EventEditingSave,
		EventEditingExit,
	}, rec.names())
	require.True(t, rec.last(EventEditingSave).(EditingSaveEvent).IsAddingRow)

	cell, _ := table.SelectedCell()
	require.Equal(t, CellIndex{Row: 3, Column: 1}, cell, "next row accounts for the added row")

	// The host passes the new data
	table.SetData(append(testPeople, person{ID: 3, Name: "C"}))
	cell, _ = table.SelectedCell()
	require.Equal(t, CellIndex{Row: 3, Column: 1}, cell, "the new insertion row")
	require.True(t, table.CanEditCell(3, 1))
}

func TestTable_InsertEmptyValue(t *testing.T) {
	addCalled := false
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(context.Context, map[string]any) error {
			addCalled = true
			return nil
		}
	})

	require.NoError(t, table.EnterCellEditMode(2, 1))
	table.SetEditInput("")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, addCalled)
	require.False(t, table.IsAdding())

	cancel := rec.last(EventInsertCancel).(InsertCancelEvent)
	require.Equal(t, InsertCancelEmptyValue, cancel.Reason)
	require.False(t, rec.last(EventEditingExit).(EditingExitEvent).Saved)
	require.NotContains(t, rec.names(), EventInsertStart)
}

func TestTable_InsertUserCancelled(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(context.Context, map[string]any) error { return nil }
	})

	require.NoError(t, table.EnterCellEditMode(2, 1))
	table.SetEditInput("C")
	_, err := table.ExitCellEditMode(context.Background(), false)
	require.NoError(t, err)
	cancel := rec.last(EventInsertCancel).(InsertCancelEvent)
	require.Equal(t, InsertCancelUserCancelled, cancel.Reason)
	require.Equal(t, map[string]any{"name": "C"}, cancel.Data)
}

func TestTable_InsertMaxRowCount(t *testing.T) {
	addCalled := false
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.MaxRowCount = 2
		c.OnAdd = func(context.Context, map[string]any) error {
			addCalled = true
			return nil
		}
	})
	require.False(t, table.CanAdd())

	require.NoError(t, table.EnterCellEditMode(2, 1))
	table.SetEditInput("C")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, addCalled)
	require.Equal(t, InsertCancelValidationFailed, rec.last(EventInsertCancel).(InsertCancelEvent).Reason)
}

func TestTable_InsertError(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(context.Context, map[string]any) error { panic("constraint violated") }
	})

	require.NoError(t, table.EnterCellEditMode(2, 1))
	table.SetEditInput("C")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.False(t, saved)
	var collabErr *CollaboratorError
	require.ErrorAs(t, err, &collabErr)
	require.Equal(t, "OnAdd", collabErr.Callback)
	require.True(t, table.IsAdding())

	insertErr := rec.last(EventInsertError).(InsertErrorEvent)
	require.Equal(t, err, insertErr.Err)
	require.NotContains(t, rec.names(), EventInsertSuccess)
}

func TestTable_InsertionRowEditor(t *testing.T) {
	table, _ := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(context.Context, map[string]any) error { return nil }
		c.Columns[0].Editor = func(input string) (any, error) { return input, nil }
	})
	require.False(t, table.IsEditable(0))
	require.False(t, table.CanEditCell(0, 0))
	require.True(t, table.CanEditCell(2, 0), "insertion row editable with an Editor")
}

func TestTable_DeleteRows(t *testing.T) {
	var deleted [][]person
	confirmer := &confirmRecorder{answer: true}
	table, rec := newPeopleTable(t, []person{{1, "A"}, {2, "B"}, {3, "C"}}, func(c *Config[person]) {
		c.Confirmer = confirmer
		c.OnDelete = func(ctx context.Context, rows []person) error {
			deleted = append(deleted, rows)
			return nil
		}
	})
	ctx := context.Background()
	require.True(t, table.CanDelete())

	table.SelectRange(0, 1)
	err := table.DeleteSelectedRows(ctx, DeleteOptions{AskConfirmation: true, Title: "Delete people"})
	require.NoError(t, err)
	require.Equal(t, [][]person{{{1, "A"}, {2, "B"}}}, deleted)
	require.Empty(t, table.SelectedRowIndexes())
	require.Len(t, confirmer.requests, 1)
	require.Equal(t, "Delete people", confirmer.requests[0].Title)
	require.False(t, confirmer.requests[0].Informational)
	require.Equal(t, []EventName{EventDeleteStart, EventDeleteConfirm, EventDeleteSuccess}, rec.names())
	success := rec.last(EventDeleteSuccess).(DeleteSuccessEvent)
	require.Equal(t, []int{0, 1}, success.RowIndexes)
	require.Equal(t, []any{person{1, "A"}, person{2, "B"}}, success.Rows)
}

func TestTable_DeleteRowsFiltersIndexes(t *testing.T) {
	var deleted []person
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnDelete = func(ctx context.Context, rows []person) error {
			deleted = rows
			return nil
		}
	})
	ctx := context.Background()

	require.NoError(t, table.DeleteRows(ctx, []int{5, 1, -1, 1}, DeleteOptions{}))
	require.Equal(t, []person{testPeople[1]}, deleted)

	rec.reset()
	deleted = nil
	require.NoError(t, table.DeleteRows(ctx, []int{7}, DeleteOptions{}))
	require.Nil(t, deleted)
	require.Empty(t, rec.events)
}

func TestTable_DeleteRowsMinRowCount(t *testing.T) {
	deleteCalled := false
	confirmer := &confirmRecorder{answer: true}
	table, rec := newPeopleTable(t, []person{{1, "A"}, {2, "B"}, {3, "C"}}, func(c *Config[person]) {
		c.MinRowCount = 3
		c.Confirmer = confirmer
		c.OnDelete = func(context.Context, []person) error {
			deleteCalled = true
			return nil
		}
	})
	require.False(t, table.CanDelete())

	err := table.DeleteRows(context.Background(), []int{0}, DeleteOptions{AskConfirmation: true})
	require.NoError(t, err)
	require.False(t, deleteCalled)
	require.Len(t, confirmer.requests, 1)
	require.True(t, confirmer.requests[0].Informational)
	require.Equal(t, "Can not delete", confirmer.requests[0].Title)
	cancel := rec.last(EventDeleteCancel).(DeleteCancelEvent)
	require.Equal(t, DeleteCancelValidationFailed, cancel.Reason)
}

func TestTable_DeleteRowsNotConfirmed(t *testing.T) {
	deleteCalled := false
	confirmer := &confirmRecorder{answer: false}
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Confirmer = confirmer
		c.OnDelete = func(context.Context, []person) error {
			deleteCalled = true
			return nil
		}
	})
	ctx := context.Background()

	require.NoError(t, table.DeleteRows(ctx, []int{0}, DeleteOptions{AskConfirmation: true}))
	require.False(t, deleteCalled)
	require.Equal(t, DeleteCancelUserCancelled, rec.last(EventDeleteCancel).(DeleteCancelEvent).Reason)

	confirmer.err = context.Canceled
	confirmer.answer = true
	require.NoError(t, table.DeleteRows(ctx, []int{0}, DeleteOptions{AskConfirmation: true}))
	require.False(t, deleteCalled)
}

func TestTable_DeleteRowsPermissionDenied(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, nil)
	require.False(t, table.CanDelete())
	require.NoError(t, table.DeleteRows(context.Background(), []int{0}, DeleteOptions{}))
	require.Equal(t, DeleteCancelPermissionDenied, rec.last(EventDeleteCancel).(DeleteCancelEvent).Reason)

	table, rec = newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnDelete = func(context.Context, []person) error { return nil }
	})
	err := table.DeleteRows(context.Background(), []int{0}, DeleteOptions{AskConfirmation: true})
	require.ErrorIs(t, err, ErrNoConfirmer)
	require.Equal(t, DeleteCancelPermissionDenied, rec.last(EventDeleteCancel).(DeleteCancelEvent).Reason)
}

func TestTable_DeleteRowsError(t *testing.T) {
	deleteErr := errors.New("foreign key constraint")
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnDelete = func(context.Context, []person) error { return deleteErr }
	})
	table.SelectRow(0)

	err := table.DeleteSelectedRows(context.Background(), DeleteOptions{})
	require.ErrorIs(t, err, deleteErr)
	require.Equal(t, []int{0}, table.SelectedRowIndexes(), "selection kept on failure")
	failure := rec.last(EventDeleteError).(FailureEvent)
	require.ErrorIs(t, failure.Failure(), deleteErr)
	require.NotContains(t, rec.names(), EventDeleteSuccess)
}

func TestTable_DeleteAfterSort(t *testing.T) {
	var deleted []person
	table, _ := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnDelete = func(ctx context.Context, rows []person) error {
			deleted = rows
			return nil
		}
	})
	ctx := context.Background()
	require.NoError(t, table.SortRows(ctx, 1, SortDescending))

	require.NoError(t, table.DeleteRows(ctx, []int{0}, DeleteOptions{}))
	require.Equal(t, []person{{ID: 2, Name: "B"}}, deleted)
}

func TestTable_DeleteEditedRow(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnDelete = func(context.Context, []person) error { return nil }
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(1, 1))
	table.SetEditValue("X")
	require.NoError(t, table.DeleteRows(ctx, []int{1}, DeleteOptions{}))
	require.False(t, table.IsEditing())
	require.False(t, rec.last(EventEditingExit).(EditingExitEvent).Saved)
}

func TestTable_DeleteOtherRowWhileEditing(t *testing.T) {
	tests := []struct {
		name      string
		sort      bool
		editRow   int
		deleteRow int
		wantCell  CellIndex
		wantRow   person
		wantIndex int
	}{
		{name: "row above", editRow: 1, deleteRow: 0, wantCell: CellIndex{Row: 0, Column: 1}, wantRow: person{ID: 2, Name: "B"}, wantIndex: 0},
		{name: "last row", editRow: 2, deleteRow: 0, wantCell: CellIndex{Row: 1, Column: 1}, wantRow: person{ID: 3, Name: "C"}, wantIndex: 1},
		{name: "row below", editRow: 0, deleteRow: 2, wantCell: CellIndex{Row: 0, Column: 1}, wantRow: person{ID: 1, Name: "A"}, wantIndex: 0},
		// Displayed as C, B, A
		{name: "sorted", sort: true, editRow: 0, deleteRow: 1, wantCell: CellIndex{Row: 0, Column: 1}, wantRow: person{ID: 3, Name: "C"}, wantIndex: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
			var (
				table     *Table[person]
				savedCell *CellContext[person]
			)
			table, rec := newPeopleTable(t, data, func(c *Config[person]) {
				c.OnDelete = func(ctx context.Context, rows []person) error {
					data = slices.DeleteFunc(slices.Clone(data), func(p person) bool {
						return slices.Contains(rows, p)
					})
					table.SetData(data)
					return nil
				}
				c.Columns[1].OnSave = func(ctx context.Context, value any, cell *CellContext[person]) (bool, error) {
					savedCell = cell
					return true, nil
				}
			})
			ctx := context.Background()
			if tt.sort {
				require.NoError(t, table.SortRows(ctx, 1, SortDescending))
			}

			require.NoError(t, table.EnterCellEditMode(tt.editRow, 1))
			table.SetEditInput("Z")
			rec.reset()
			require.NoError(t, table.DeleteRows(ctx, []int{tt.deleteRow}, DeleteOptions{}))
			require.Equal(t, 2, table.NumRows())
			require.NotContains(t, rec.names(), EventEditingExit)
			require.True(t, table.IsEditingCell(tt.wantCell.Row, tt.wantCell.Column), "edit follows its row")
			require.Equal(t, tt.wantIndex, table.State().Edit.OriginalIndex)
			require.Equal(t, "Z", table.EditValue())

			saved, err := table.ExitCellEditMode(ctx, true)
			require.NoError(t, err)
			require.True(t, saved)
			require.Equal(t, tt.wantRow, savedCell.Row)
			require.Equal(t, tt.wantIndex, savedCell.OriginalIndex)
			require.Equal(t, tt.wantCell, savedCell.Cell())
		})
	}
}

func TestTable_SetDataWhileAdding(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnAdd = func(context.Context, map[string]any) error { return nil }
	})
	require.NoError(t, table.EnterCellEditMode(2, 1))
	table.SetEditInput("C")
	rec.reset()

	table.SetData(testPeople[:1])
	require.True(t, table.IsAdding(), "insertion row moves behind the last row")
	require.True(t, table.IsEditingCell(1, 1))
	require.Equal(t, -1, table.State().Edit.OriginalIndex)
	require.Equal(t, "C", table.EditValue())
	require.Empty(t, rec.names())
}
