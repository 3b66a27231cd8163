package datatable

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireName(ctx context.Context, value any, cell *CellContext[person]) []string {
	if IsEmptyValue(value) {
		return []string{"name is required"}
	}
	return nil
}

func TestTable_EnterCellEditMode(t *testing.T) {
	var focused []CellIndex
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.OnFocusEditor = func(cell CellIndex) { focused = append(focused, cell) }
	})

	err := table.EnterCellEditMode(0, 0)
	require.ErrorIs(t, err, ErrNotEditable)
	var notEditable *NotEditableError
	require.ErrorAs(t, err, &notEditable)
	require.Equal(t, CellIndex{Row: 0, Column: 0}, notEditable.Cell)
	require.ErrorIs(t, table.EnterCellEditMode(2, 1), ErrNotEditable, "no insertion row without OnAdd")

	require.NoError(t, table.EnterCellEditMode(1, 1))
	require.True(t, table.IsEditingCell(1, 1))
	require.Equal(t, "B", table.EditValue())
	cell, _ := table.SelectedCell()
	require.Equal(t, CellIndex{Row: 1, Column: 1}, cell)
	require.Equal(t, []CellIndex{{Row: 1, Column: 1}}, focused)

	start := rec.last(EventEditingStart).(EditingStartEvent)
	require.Equal(t, "B", start.Value)
	require.Equal(t, testPeople[1], start.Row)
	require.False(t, start.IsAddingRow)

	// Entering the edited cell again is a no-op
	require.NoError(t, table.EnterCellEditMode(1, 1))
	require.Len(t, rec.names(), 1)

	require.ErrorIs(t, table.EnterCellEditMode(0, 1), ErrEditInProgress)
	require.True(t, table.IsEditingCell(1, 1))
}

func TestTable_ExitCellEditModeSave(t *testing.T) {
	var savedCell *CellContext[person]
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].OnSave = func(ctx context.Context, value any, cell *CellContext[person]) (bool, error) {
			savedCell = cell
			return true, nil
		}
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditInput("Anna")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.False(t, table.IsEditing())

	require.Equal(t, testPeople[0], savedCell.Row)
	require.Equal(t, []EventName{
		EventEditingStart,
		EventEditingValidationSuccess,
		EventEditingSave,
		EventEditingExit,
	}, rec.names())
	save := rec.last(EventEditingSave).(EditingSaveEvent)
	require.Equal(t, "A", save.OldValue)
	require.Equal(t, "Anna", save.NewValue)
	exit := rec.last(EventEditingExit).(EditingExitEvent)
	require.True(t, exit.Saved)
	require.Equal(t, "Anna", exit.FinalValue)

	cell, _ := table.SelectedCell()
	require.Equal(t, CellIndex{Row: 1, Column: 1}, cell, "selection advanced to the cell below")

	// Saving the last row keeps the selection
	require.NoError(t, table.EnterCellEditMode(1, 1))
	table.SetEditValue("Bob")
	_, err = table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	cell, _ = table.SelectedCell()
	require.Equal(t, CellIndex{Row: 1, Column: 1}, cell)
}

func TestTable_ExitCellEditModeUnchanged(t *testing.T) {
	saveCalled := false
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[0].Editable = true
		c.Columns[0].OnSave = func(context.Context, any, *CellContext[person]) (bool, error) {
			saveCalled = true
			return true, nil
		}
	})

	require.NoError(t, table.EnterCellEditMode(0, 0))
	table.SetEditInput("1") // int64(1) equals int 1
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, saveCalled)
	require.NotContains(t, rec.names(), EventEditingSave)
	require.False(t, rec.last(EventEditingExit).(EditingExitEvent).Saved)
}

func TestTable_ExitCellEditModeCancel(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, nil)

	saved, err := table.ExitCellEditMode(context.Background(), false)
	require.NoError(t, err)
	require.False(t, saved, "not editing")

	require.NoError(t, table.EnterCellEditMode(1, 1))
	table.SetEditValue("X")
	saved, err = table.ExitCellEditMode(context.Background(), false)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, table.IsEditing())
	require.Nil(t, table.EditValue())

	exit := rec.last(EventEditingExit).(EditingExitEvent)
	require.False(t, exit.Saved)
	require.Equal(t, "B", exit.FinalValue)
	cell, _ := table.SelectedCell()
	require.Equal(t, CellIndex{Row: 1, Column: 1}, cell, "selection restored to the edited cell")
}

func TestTable_ValidationGate(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].Validate = requireName
		c.Columns[1].OnSave = func(context.Context, any, *CellContext[person]) (bool, error) { return true, nil }
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditInput("")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.False(t, saved)
	require.True(t, table.IsEditingCell(0, 1), "editor stays open")
	require.Equal(t, []string{"name is required"}, table.CellErrors(0, 1))
	require.Equal(t, []EventName{
		EventEditingStart,
		EventEditingValidationErrorChange,
		EventEditingValidationError,
	}, rec.names())

	// Validating the same errors again does not publish a change
	rec.reset()
	_, err = table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.Equal(t, []EventName{EventEditingValidationError}, rec.names())

	// Other cells can't be edited while errors are unresolved
	require.NoError(t, table.EnterCellEditMode(1, 1))
	require.True(t, table.IsEditingCell(0, 1))

	rec.reset()
	table.SetEditInput("Ada")
	saved, err = table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Empty(t, table.CellErrors(0, 1))
	require.Equal(t, []EventName{
		EventEditingValidationErrorChange,
		EventEditingValidationSuccess,
		EventEditingSave,
		EventEditingExit,
	}, rec.names())
	change := rec.events[0].(ValidationErrorChangeEvent)
	require.Equal(t, []string{"name is required"}, change.PreviousErrors)
	require.Empty(t, change.Errors)
}

func TestTable_ValidationCancelClearsErrors(t *testing.T) {
	table, _ := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].Validate = requireName
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditValue(nil)
	_, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.NotEmpty(t, table.CellErrors(0, 1))

	_, err = table.ExitCellEditMode(ctx, false)
	require.NoError(t, err)
	require.Empty(t, table.CellErrors(0, 1))
	require.NoError(t, table.EnterCellEditMode(1, 1))
	require.True(t, table.IsEditingCell(1, 1))
}

func TestTable_InputParseError(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[0].Editable = true
	})

	require.NoError(t, table.EnterCellEditMode(0, 0))
	table.SetEditInput("abc")
	require.Equal(t, "abc", table.EditValue())
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.False(t, saved)
	require.Equal(t, []string{`"abc" is not a number`}, table.CellErrors(0, 0))
	require.Equal(t, EventEditingValidationError, rec.names()[len(rec.events)-1])
}

func TestTable_CustomEditor(t *testing.T) {
	var got any
	table, _ := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].Editor = func(input string) (any, error) {
			if input == "!" {
				return nil, errors.New("invalid name")
			}
			return "Dr. " + input, nil
		}
		c.Columns[1].OnSave = func(ctx context.Context, value any, cell *CellContext[person]) (bool, error) {
			got = value
			return true, nil
		}
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditInput("!")
	_, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.Equal(t, []string{"invalid name"}, table.CellErrors(0, 1))

	table.SetEditInput("Who")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, "Dr. Who", got)
}

func TestTable_OnSaveDeclined(t *testing.T) {
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].OnSave = func(context.Context, any, *CellContext[person]) (bool, error) { return false, nil }
	})

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditValue("X")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, table.IsEditing())
	require.NotContains(t, rec.names(), EventEditingSave)
}

func TestTable_OnSaveError(t *testing.T) {
	saveErr := errors.New("database offline")
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].OnSave = func(context.Context, any, *CellContext[person]) (bool, error) { return false, saveErr }
	})

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditValue("X")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.ErrorIs(t, err, saveErr)
	require.False(t, saved)
	require.True(t, table.IsEditingCell(0, 1), "editor stays open to retry")

	failure := rec.last(EventEditingError).(FailureEvent)
	require.ErrorIs(t, failure.Failure(), saveErr)
	require.NotContains(t, rec.names(), EventEditingExit)
}

func TestTable_EditAfterSort(t *testing.T) {
	var savedCell *CellContext[person]
	table, _ := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].OnSave = func(ctx context.Context, value any, cell *CellContext[person]) (bool, error) {
			savedCell = cell
			return true, nil
		}
	})
	ctx := context.Background()
	require.NoError(t, table.SortRows(ctx, 1, SortDescending))

	require.NoError(t, table.EnterCellEditMode(0, 1))
	require.Equal(t, "B", table.EditValue())
	table.SetEditValue("Z")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.True(t, saved)
	require.Equal(t, testPeople[1], savedCell.Row)
	require.Equal(t, 1, savedCell.OriginalIndex)
}

func TestTable_SetDataWhileEditing(t *testing.T) {
	tests := []struct {
		name      string
		sort      bool
		editRow   int
		data      []person
		wantCell  *CellIndex // nil if the edit is cancelled
		wantIndex int
	}{
		{
			name:      "row moves up",
			editRow:   1,
			data:      []person{{ID: 2, Name: "B"}, {ID: 3, Name: "C"}},
			wantCell:  &CellIndex{Row: 0, Column: 1},
			wantIndex: 0,
		},
		{
			name:      "row moves down",
			editRow:   0,
			data:      []person{{ID: 0, Name: "0"}, {ID: 1, Name: "A"}},
			wantCell:  &CellIndex{Row: 1, Column: 1},
			wantIndex: 1,
		},
		{
			// Displayed as C, B, A and then as E, B
			name:      "sorted",
			sort:      true,
			editRow:   1,
			data:      []person{{ID: 2, Name: "B"}, {ID: 5, Name: "E"}},
			wantCell:  &CellIndex{Row: 1, Column: 1},
			wantIndex: 0,
		},
		{
			name:    "row removed",
			editRow: 1,
			data:    []person{{ID: 1, Name: "A"}, {ID: 3, Name: "C"}},
		},
		{
			name:    "row changed",
			editRow: 1,
			data:    []person{{ID: 1, Name: "A"}, {ID: 2, Name: "X"}, {ID: 3, Name: "C"}},
		},
		{
			name:    "no rows",
			editRow: 2,
			data:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var savedCell *CellContext[person]
			table, rec := newPeopleTable(t, []person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}, func(c *Config[person]) {
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
			original := table.EditValue()
			table.SetEditInput("Z")
			rec.reset()

			table.SetData(tt.data)

			if tt.wantCell == nil {
				require.False(t, table.IsEditing())
				require.Equal(t, []EventName{EventEditingExit}, rec.names())
				exit := rec.last(EventEditingExit).(EditingExitEvent)
				require.False(t, exit.Saved)
				require.Equal(t, original, exit.FinalValue)
				require.Nil(t, savedCell)
				return
			}
			require.Empty(t, rec.names())
			require.True(t, table.IsEditingCell(tt.wantCell.Row, tt.wantCell.Column), "edit follows its row")
			cell, _ := table.SelectedCell()
			require.Equal(t, *tt.wantCell, cell)
			require.Equal(t, "Z", table.EditValue())

			saved, err := table.ExitCellEditMode(ctx, true)
			require.NoError(t, err)
			require.True(t, saved)
			require.Equal(t, original, savedCell.Row.Name)
			require.Equal(t, tt.wantIndex, savedCell.OriginalIndex)
			require.Equal(t, tt.data[tt.wantIndex], savedCell.Row)
		})
	}
}

func TestTable_SetDataMovesValidationErrors(t *testing.T) {
	data := []person{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	table, _ := newPeopleTable(t, data, func(c *Config[person]) {
		c.Columns[1].Validate = requireName
	})
	ctx := context.Background()

	require.NoError(t, table.EnterCellEditMode(1, 1))
	table.SetEditInput("")
	saved, err := table.ExitCellEditMode(ctx, true)
	require.NoError(t, err)
	require.False(t, saved)
	require.Equal(t, []string{"name is required"}, table.CellErrors(1, 1))

	table.SetData(data[1:])
	require.True(t, table.IsEditingCell(0, 1))
	require.Equal(t, []string{"name is required"}, table.CellErrors(0, 1))
	require.Empty(t, table.CellErrors(1, 1))
}

func TestTable_SetDataDuringSave(t *testing.T) {
	var table *Table[person]
	table, rec := newPeopleTable(t, testPeople, func(c *Config[person]) {
		c.Columns[1].OnSave = func(ctx context.Context, value any, cell *CellContext[person]) (bool, error) {
			// The host reloads its data with the saved value
			data := slices.Clone(testPeople)
			data[cell.OriginalIndex].Name = value.(string)
			table.SetData(data)
			return true, nil
		}
	})

	require.NoError(t, table.EnterCellEditMode(0, 1))
	table.SetEditValue("Z")
	saved, err := table.ExitCellEditMode(context.Background(), true)
	require.NoError(t, err)
	require.True(t, saved)
	require.False(t, table.IsEditing())
	require.Equal(t, []string{"Z", "B"}, displayNames(table))
	require.Equal(t, []EventName{
		EventEditingStart,
		EventEditingValidationSuccess,
		EventEditingSave,
		EventEditingExit,
	}, rec.names())
	require.True(t, rec.last(EventEditingExit).(EditingExitEvent).Saved)
}
