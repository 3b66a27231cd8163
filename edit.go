package datatable

import (
	"context"
	"log/slog"
	"slices"
)

// cellEditController is the state machine of the cell editor:
//
//	Idle -> Editing(cell) -> Committing | Cancelling -> Idle
//
// Only one cell of the table can be edited at a time.
// Validation errors keep the editor open and block
// editing other cells until they are resolved or cancelled.
//
// The edited row is pinned by its original index so that
// SetData moves the editor along with its row.
type cellEditController[T any] struct {
	t *Table[T]
	// committing is true while OnAdd or OnSave is running,
	// the host may pass new data from within these callbacks.
	committing bool
}

func (c *cellEditController[T]) isEditable(col int) bool {
	column, ok := c.t.column(col)
	return ok && column.Editable
}

func (c *cellEditController[T]) canEditCell(row, col int) bool {
	column, ok := c.t.column(col)
	if !ok {
		return false
	}
	if c.t.isInsertionRow(row) {
		// The insertion row can be seeded by any column with an editor
		return column.Editable || column.Editor != nil
	}
	return row >= 0 && row < len(c.t.records) && column.Editable
}

func (c *cellEditController[T]) enter(row, col int) error {
	cell := CellIndex{Row: row, Column: col}
	if !c.canEditCell(row, col) {
		return &NotEditableError{Cell: cell}
	}
	edit := &c.t.state.Edit
	if edit.IsEditing() && *edit.Cell == cell {
		return nil
	}
	if edit.HasErrors() {
		c.t.logger.Debug("Not entering cell edit mode because of unresolved validation errors",
			slog.String("cell", cell.String()),
		)
		return nil
	}
	if edit.IsEditing() {
		return ErrEditInProgress
	}

	value := c.t.CellValue(row, col)
	original := -1
	if rec, ok := c.t.record(row); ok {
		original = rec.OriginalIndex
	}
	c.t.dispatch(func(s *State) {
		s.Edit.Cell = &cell
		s.Edit.OriginalIndex = original
		s.Edit.OriginalValue = value
		s.Edit.Value = value
		s.Edit.InputErr = nil
		setSelectedCell(s, cell)
	})
	c.t.logger.Debug("Entered cell edit mode", slog.String("cell", cell.String()))
	c.t.events.Dispatch(EditingStartEvent{
		CellEvent: c.t.cellEvent(cell),
		Value:     value,
	})
	if c.t.config.OnFocusEditor != nil {
		c.t.config.OnFocusEditor(cell)
	}
	return nil
}

func (c *cellEditController[T]) setValue(value any) {
	if !c.t.state.Edit.IsEditing() {
		return
	}
	c.t.dispatch(func(s *State) {
		s.Edit.Value = value
		s.Edit.InputErr = nil
	})
}

func (c *cellEditController[T]) setInput(input string) {
	edit := &c.t.state.Edit
	if !edit.IsEditing() {
		return
	}
	column, _ := c.t.column(edit.Cell.Column)
	var (
		value any
		err   error
	)
	if column.Editor != nil {
		value, err = column.Editor(input)
	} else {
		value, err = ParseInput(c.t.config.parser(), column.Type, input)
	}
	if err != nil {
		// Keep the raw input so that the user can correct it
		value = input
	}
	c.t.dispatch(func(s *State) {
		s.Edit.Value = value
		s.Edit.InputErr = err
	})
}

// validate runs the validity check of the edited value
// and records the errors of the cell. EventEditingValidationErrorChange
// is only published if the errors differ from the recorded ones.
func (c *cellEditController[T]) validate(ctx context.Context, cell CellIndex) []string {
	edit := &c.t.state.Edit
	var errs []string
	if edit.InputErr != nil {
		errs = append(errs, edit.InputErr.Error())
	} else if column, ok := c.t.column(cell.Column); ok && column.Validate != nil {
		errs = append(errs, column.Validate(ctx, edit.Value, c.cellContext(cell))...)
	}

	previous := edit.Errors[cell]
	if slices.Equal(previous, errs) {
		return errs
	}
	c.t.dispatch(func(s *State) {
		if len(errs) == 0 {
			delete(s.Edit.Errors, cell)
		} else {
			s.Edit.Errors[cell] = errs
		}
	})
	c.t.events.Dispatch(ValidationErrorChangeEvent{
		CellEvent:      c.t.cellEvent(cell),
		PreviousErrors: previous,
		Errors:         errs,
	})
	return errs
}

func (c *cellEditController[T]) exit(ctx context.Context, save bool) (saved bool, err error) {
	edit := &c.t.state.Edit
	if !edit.IsEditing() {
		return false, nil
	}
	cell := *edit.Cell
	cellEvent := c.t.cellEvent(cell)
	adding := cellEvent.IsAddingRow
	oldValue, newValue := edit.OriginalValue, edit.Value
	column, _ := c.t.column(cell.Column)

	if !save {
		c.finish(cell, false, false)
		if adding && !IsEmptyValue(newValue) {
			c.t.events.Dispatch(InsertCancelEvent{
				Cell:   cell,
				Data:   map[string]any{column.Field: newValue},
				Reason: InsertCancelUserCancelled,
			})
		}
		c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: oldValue})
		return false, nil
	}

	errs := c.validate(ctx, cell)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if len(errs) > 0 {
		c.t.logger.Debug("Cell edit blocked by validation errors",
			slog.String("cell", cell.String()),
			slog.Any("errors", errs),
		)
		c.t.events.Dispatch(ValidationErrorEvent{CellEvent: cellEvent, Value: newValue, Errors: errs})
		return false, nil
	}
	c.t.events.Dispatch(ValidationSuccessEvent{CellEvent: cellEvent, Value: newValue})

	switch {
	case adding && IsEmptyValue(newValue):
		c.finish(cell, false, false)
		c.t.events.Dispatch(InsertCancelEvent{Cell: cell, Reason: InsertCancelEmptyValue})
		c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: newValue})
		return false, nil

	case !adding && ValuesEqual(oldValue, newValue):
		c.finish(cell, false, false)
		c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: newValue})
		return false, nil

	case adding:
		data := map[string]any{column.Field: newValue}
		if !c.t.rows.canAdd() {
			c.finish(cell, false, false)
			c.t.events.Dispatch(InsertCancelEvent{Cell: cell, Data: data, Reason: InsertCancelValidationFailed})
			c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: newValue})
			return false, nil
		}
		c.t.events.Dispatch(InsertStartEvent{Cell: cell, Data: data})
		c.committing = true
		err := callCollaborator("OnAdd", func() error { return c.t.config.OnAdd(ctx, data) })
		c.committing = false
		if err != nil {
			c.t.logger.Warn("Adding row failed", slog.Any("error", err))
			c.t.events.Dispatch(InsertErrorEvent{Cell: cell, Data: data, Err: err})
			return false, err
		}
		c.t.events.Dispatch(InsertSuccessEvent{Cell: cell, Data: data})

	default:
		if column.OnSave == nil {
			c.finish(cell, false, false)
			c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: oldValue})
			return false, nil
		}
		cellCtx := c.cellContext(cell)
		var ok bool
		c.committing = true
		err := callCollaborator("OnSave", func() (e error) {
			ok, e = column.OnSave(ctx, newValue, cellCtx)
			return e
		})
		c.committing = false
		if err != nil {
			c.t.logger.Warn("Saving cell failed", slog.String("cell", cell.String()), slog.Any("error", err))
			c.t.events.Dispatch(EditingErrorEvent{CellEvent: cellEvent, Value: newValue, Err: err})
			return false, err
		}
		if !ok {
			c.finish(cell, false, false)
			c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: false, FinalValue: oldValue})
			return false, nil
		}
	}

	c.finish(cell, true, adding)
	c.t.logger.Debug("Saved cell", slog.String("cell", cell.String()), slog.Bool("addedRow", adding))
	c.t.events.Dispatch(EditingSaveEvent{CellEvent: cellEvent, OldValue: oldValue, NewValue: newValue})
	c.t.events.Dispatch(EditingExitEvent{CellEvent: cellEvent, Saved: true, FinalValue: newValue})
	return true, nil
}

// finish resets the edit state and selects the edited cell,
// or after a save the cell below it. When a row was added
// the table has one more row than before the save unless
// the host already passed the new data.
func (c *cellEditController[T]) finish(cell CellIndex, saved, addedRow bool) {
	next := cell
	if saved {
		next.Row++
		total := c.t.TotalRowsCount()
		if addedRow && total <= next.Row {
			total = next.Row + 1
		}
		if next.Row >= total {
			next = cell
		}
	}
	c.t.dispatch(func(s *State) {
		errs := s.Edit.Errors
		delete(errs, cell)
		s.Edit = EditState{Errors: errs}
		setSelectedCell(s, next)
	})
}

// cellContext returns the context of the edited cell
// with the data of the pinned row.
func (c *cellEditController[T]) cellContext(cell CellIndex) *CellContext[T] {
	cellCtx, ok := c.t.CellContext(cell.Row, cell.Column)
	if !ok {
		return nil
	}
	if i := c.t.state.Edit.OriginalIndex; !cellCtx.IsInsertionRow && i >= 0 && i < len(c.t.records) {
		cellCtx.Row = c.t.records[i].Data
		cellCtx.OriginalIndex = i
	}
	return cellCtx
}

// locate returns the index in data of the edited row
// or -1 for the insertion row. Of multiple equal rows
// the one closest to the current original index wins.
func (c *cellEditController[T]) locate(data []T) (int, bool) {
	original := c.t.state.Edit.OriginalIndex
	if original < 0 {
		return -1, true
	}
	if original >= len(c.t.records) {
		return -1, false
	}
	row := c.t.records[original].Data
	found := -1
	for i := range data {
		if !sameRow(row, data[i]) {
			continue
		}
		if found < 0 || distance(i, original) < distance(found, original) {
			found = i
		}
	}
	return found, found >= 0
}

// rebase prepares the editor for the rows of data
// replacing the current rows. If the edited row is not
// part of data the edit is cancelled right away, else
// the returned function moves the edited cell to the
// display row of the edited row once data is ingested.
// Nothing is done while the edit is being committed,
// the commit finishes the edit anyway.
func (c *cellEditController[T]) rebase(data []T) func(s *State) {
	if !c.t.state.Edit.IsEditing() || c.committing {
		return func(*State) {}
	}
	original, ok := c.locate(data)
	if !ok {
		c.t.logger.Debug("Cancelling cell edit because the edited row was removed",
			slog.String("cell", c.t.state.Edit.Cell.String()),
		)
		// Cancelling never fails
		_, _ = c.exit(context.Background(), false)
		return func(*State) {}
	}
	return func(s *State) {
		if !s.Edit.IsEditing() {
			return
		}
		prev := *s.Edit.Cell
		cell := CellIndex{Row: c.t.displayIndex(original), Column: prev.Column}
		s.Edit.Cell = &cell
		s.Edit.OriginalIndex = original
		if errs, ok := s.Edit.Errors[prev]; ok && prev != cell {
			delete(s.Edit.Errors, prev)
			s.Edit.Errors[cell] = errs
		}
		if sel := s.Selection.SelectedCell; sel != nil && *sel == prev {
			s.Selection.SelectedCell = &cell
		}
	}
}

func distance(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
