package datatable

import (
	"context"
	"log/slog"
	"slices"
)

var _ FormattedView = new(Table[any])

// Table is the controller of an interactive data grid
// and the only object hosts interact with.
//
// It composes row and cell selection, sorting, cell editing,
// row insertion and deletion over a single State that is only
// mutated through the table, so every part observes the
// same configuration and state on every call.
// Transitions are reported by the EventBus returned by Events.
//
// All row and cell coordinates are display indices
// into the currently sorted row order.
// Callbacks receive the original row data.
//
// Table is not safe for concurrent use,
// it is driven by a single UI goroutine.
type Table[T any] struct {
	config  Config[T]
	records []RowRecord[T]
	order   []int // display index to index in records
	state   State
	events  *EventBus
	logger  *slog.Logger

	selection *selectionManager[T]
	sorting   *sortEngine[T]
	editing   *cellEditController[T]
	rows      *rowLifecycleController[T]
}

// NewTable creates a table for config.
func NewTable[T any](config Config[T]) *Table[T] {
	t := &Table[T]{
		config: config,
		state:  newState(),
		logger: config.logger(),
	}
	t.events = NewEventBus(t.logger)
	t.selection = &selectionManager[T]{t: t}
	t.sorting = &sortEngine[T]{t: t}
	t.editing = &cellEditController[T]{t: t}
	t.rows = &rowLifecycleController[T]{t: t}
	t.ingest(config.Data)
	return t
}

// Events returns the EventBus of the table.
func (t *Table[T]) Events() *EventBus { return t.events }

// Config returns a copy of the table configuration.
func (t *Table[T]) Config() Config[T] { return t.config }

// State returns a snapshot of the table state.
func (t *Table[T]) State() State { return t.state.Clone() }

// dispatch is the only way the state of the table is changed.
func (t *Table[T]) dispatch(mutate func(s *State)) {
	mutate(&t.state)
	if t.config.OnStateChange != nil {
		t.config.OnStateChange(t.state.Clone())
	}
}

func (t *Table[T]) ingest(data []T) {
	t.config.Data = data
	t.records = make([]RowRecord[T], len(data))
	for i, row := range data {
		t.records[i] = RowRecord[T]{Data: row, OriginalIndex: i}
	}
	t.order = t.sorting.order(t.state.Sort)
}

// SetData replaces the rows of the table.
// The sort state is kept and applied to the new rows,
// selections and errors outside of the new bounds are dropped.
//
// An open cell edit follows its row to the new display position.
// If the edited row is not part of data any more the edit is
// cancelled. Rows are matched by reference for pointer and map
// rows, else by deep equality.
func (t *Table[T]) SetData(data []T) {
	follow := t.editing.rebase(data)
	t.ingest(data)
	t.dispatch(func(s *State) {
		follow(s)
		t.clampState(s)
	})
}

// SetColumns replaces the columns of the table.
// An open cell edit is cancelled and the sort state
// is cleared if its column is no longer sortable.
func (t *Table[T]) SetColumns(columns []Column[T]) {
	if t.state.Edit.IsEditing() {
		// Cancelling never fails
		_, _ = t.editing.exit(context.Background(), false)
	}
	t.config.Columns = columns
	t.dispatch(func(s *State) {
		if s.Sort != nil {
			if col, ok := t.column(s.Sort.ColumnIndex); !ok || !col.Sortable {
				s.Sort = nil
			}
		}
		t.order = t.sorting.order(s.Sort)
		t.clampState(s)
	})
}

// Reset resets selection and edit state like after
// mounting the table anew. An open cell edit is
// cancelled without saving. The sort state is kept.
func (t *Table[T]) Reset() {
	if t.state.Edit.IsEditing() {
		// Cancelling never fails
		_, _ = t.editing.exit(context.Background(), false)
	}
	t.dispatch(func(s *State) {
		sort := s.Sort
		*s = newState()
		s.Sort = sort
	})
}

func (t *Table[T]) clampState(s *State) {
	numRows, total, numCols := len(t.records), t.TotalRowsCount(), len(t.config.Columns)
	for row := range s.Selection.SelectedRows {
		if row >= numRows {
			delete(s.Selection.SelectedRows, row)
		}
	}
	if s.Selection.LastActiveRow >= numRows {
		s.Selection.LastActiveRow = -1
	}
	if c := s.Selection.SelectedCell; c != nil && (c.Row >= total || c.Column >= numCols) {
		s.Selection.SelectedCell = nil
	}
	for cell := range s.Edit.Errors {
		if cell.Row >= total || cell.Column >= numCols {
			delete(s.Edit.Errors, cell)
		}
	}
}

func (t *Table[T]) column(col int) (*Column[T], bool) {
	if col < 0 || col >= len(t.config.Columns) {
		return nil, false
	}
	return &t.config.Columns[col], true
}

func (t *Table[T]) hasInsertionRow() bool {
	return t.config.OnAdd != nil
}

func (t *Table[T]) isInsertionRow(row int) bool {
	return t.hasInsertionRow() && row == len(t.records)
}

// record returns the row record at a display index.
func (t *Table[T]) record(row int) (RowRecord[T], bool) {
	if row < 0 || row >= len(t.order) {
		return RowRecord[T]{}, false
	}
	return t.records[t.order[row]], true
}

// displayIndex returns the display row of the record
// with an original index, -1 is the insertion row.
func (t *Table[T]) displayIndex(original int) int {
	if original < 0 {
		return len(t.records)
	}
	return slices.Index(t.order, original)
}

func (t *Table[T]) inBounds(row, col int) bool {
	return row >= 0 && row < t.TotalRowsCount() && col >= 0 && col < len(t.config.Columns)
}

// TotalRowsCount returns the number of displayed rows
// including the insertion row.
func (t *Table[T]) TotalRowsCount() int {
	if t.hasInsertionRow() {
		return len(t.records) + 1
	}
	return len(t.records)
}

// DisplayRows returns the row records in display order.
func (t *Table[T]) DisplayRows() []RowRecord[T] {
	rows := make([]RowRecord[T], len(t.order))
	for i, index := range t.order {
		rows[i] = t.records[index]
	}
	return rows
}

// CellContext returns the context passed to column callbacks
// for a cell. The result is false for out of range coordinates.
func (t *Table[T]) CellContext(row, col int) (*CellContext[T], bool) {
	column, ok := t.column(col)
	if !ok {
		return nil, false
	}
	cellCtx := &CellContext[T]{
		Column:        column,
		RowIndex:      row,
		ColumnIndex:   col,
		OriginalIndex: -1,
		Config:        &t.config,
	}
	if t.isInsertionRow(row) {
		cellCtx.IsInsertionRow = true
		return cellCtx, true
	}
	rec, ok := t.record(row)
	if !ok {
		return nil, false
	}
	cellCtx.Row = rec.Data
	cellCtx.OriginalIndex = rec.OriginalIndex
	return cellCtx, true
}

func (t *Table[T]) columnValue(column *Column[T], row T) any {
	if column.ValueGetter != nil {
		return column.ValueGetter(row)
	}
	value, _ := t.config.fieldNaming().ResolveField(row, column.Field)
	return value
}

// CellValue returns the raw value of a cell
// or nil for the insertion row and out of range coordinates.
func (t *Table[T]) CellValue(row, col int) any {
	column, ok := t.column(col)
	if !ok {
		return nil
	}
	rec, ok := t.record(row)
	if !ok {
		return nil
	}
	return t.columnValue(column, rec.Data)
}

// FormattedCell returns the cell value formatted
// by the column's ValueFormatter or by FormatValue.
func (t *Table[T]) FormattedCell(row, col int) string {
	column, ok := t.column(col)
	if !ok {
		return ""
	}
	value := t.CellValue(row, col)
	if column.ValueFormatter != nil {
		return column.ValueFormatter(value)
	}
	return FormatValue(value)
}

// Title implements View
func (t *Table[T]) Title() string { return t.config.Title }

// Columns implements View by returning the column header titles.
func (t *Table[T]) Columns() []string {
	titles := make([]string, len(t.config.Columns))
	for i := range t.config.Columns {
		titles[i] = t.config.Columns[i].HeaderTitle()
	}
	return titles
}

// NumRows implements View by returning the number
// of data rows without the insertion row.
func (t *Table[T]) NumRows() int { return len(t.records) }

// Cell implements View, see CellValue.
func (t *Table[T]) Cell(row, col int) any { return t.CellValue(row, col) }

func (t *Table[T]) cellEvent(cell CellIndex) CellEvent {
	e := CellEvent{
		Cell:        cell,
		IsAddingRow: t.isInsertionRow(cell.Row),
	}
	if column, ok := t.column(cell.Column); ok {
		e.Column = column.Info(cell.Column)
	}
	if rec, ok := t.record(cell.Row); ok {
		e.Row = rec.Data
	}
	return e
}

// Selection

// CanSelectRows reflects Config.AllowRowSelection.
func (t *Table[T]) CanSelectRows() bool { return t.selection.canSelect() }

// CanSelectCells reflects Config.AllowRowSelection.
func (t *Table[T]) CanSelectCells() bool { return t.selection.canSelect() }

// SelectCell selects a single cell and clears the row selection.
// Out of range coordinates are ignored.
func (t *Table[T]) SelectCell(row, col int) { t.selection.selectCell(row, col) }

// SelectRow selects only the passed row and makes it the
// anchor of range selections.
func (t *Table[T]) SelectRow(row int) { t.selection.selectRow(row) }

// ToggleRow adds or removes a row from the selection
// keeping the other selected rows.
func (t *Table[T]) ToggleRow(row int) { t.selection.toggleRow(row) }

// SelectRange selects the inclusive range of rows between from and to.
func (t *Table[T]) SelectRange(from, to int) { t.selection.selectRange(from, to) }

// SelectFromLastActiveRow selects the range from the
// last active row to row.
func (t *Table[T]) SelectFromLastActiveRow(row int) { t.selection.selectFromLastActiveRow(row) }

func (t *Table[T]) SelectAllRows()   { t.selection.selectAllRows() }
func (t *Table[T]) ToggleSelectAll() { t.selection.toggleSelectAll() }

func (t *Table[T]) ClearCellSelection() { t.selection.clearCellSelection() }

// Clear clears the row and cell selection.
func (t *Table[T]) Clear() { t.selection.clear() }

// SelectedRowIndexes returns the selected display rows in ascending order.
func (t *Table[T]) SelectedRowIndexes() []int {
	return t.state.Selection.SelectedRows.Sorted()
}

// SelectedCell returns the selected cell or false.
func (t *Table[T]) SelectedCell() (CellIndex, bool) {
	if c := t.state.Selection.SelectedCell; c != nil {
		return *c, true
	}
	return CellIndex{}, false
}

// MoveSelectedCell moves the selected cell by the passed deltas
// clamped to the table bounds, for keyboard navigation.
// Selects the first cell if no cell is selected.
func (t *Table[T]) MoveSelectedCell(dRow, dCol int) { t.selection.moveSelectedCell(dRow, dCol) }

// ClickRowNumber handles a click on the row number cell of a row:
// Shift selects the range from the last active row,
// Ctrl or Meta toggle the row, otherwise only the row is selected.
func (t *Table[T]) ClickRowNumber(row int, mods Modifiers) {
	switch {
	case mods.Has(ModShift):
		t.selection.selectFromLastActiveRow(row)
	case mods.Toggles():
		t.selection.toggleRow(row)
	default:
		t.selection.selectRow(row)
	}
}

// ClickCell handles a click on a data cell.
func (t *Table[T]) ClickCell(row, col int) { t.selection.selectCell(row, col) }

// Editing

// IsEditable returns true if the column is editable.
func (t *Table[T]) IsEditable(col int) bool { return t.editing.isEditable(col) }

// CanEditCell returns true if the cell can enter edit mode.
func (t *Table[T]) CanEditCell(row, col int) bool { return t.editing.canEditCell(row, col) }

func (t *Table[T]) IsEditing() bool { return t.state.Edit.IsEditing() }

func (t *Table[T]) IsEditingCell(row, col int) bool {
	c := t.state.Edit.Cell
	return c != nil && c.Row == row && c.Column == col
}

// EnterCellEditMode starts editing a cell.
// Returns a *NotEditableError if the cell can't be edited
// and ErrEditInProgress if another cell is being edited.
// Does nothing while any cell has unresolved validation errors.
func (t *Table[T]) EnterCellEditMode(row, col int) error { return t.editing.enter(row, col) }

// ExitCellEditMode ends editing the current cell.
// With save the value is validated and committed,
// validation errors keep the editor open.
// Without save the pending value is discarded.
// The result saved is true if a changed value was committed.
func (t *Table[T]) ExitCellEditMode(ctx context.Context, save bool) (saved bool, err error) {
	return t.editing.exit(ctx, save)
}

// SetEditValue sets the pending value of the cell editor.
func (t *Table[T]) SetEditValue(value any) { t.editing.setValue(value) }

// SetEditInput parses text input with the column's Editor
// or Config.Parser and sets it as pending editor value.
// Parse errors are reported as validation errors.
func (t *Table[T]) SetEditInput(input string) { t.editing.setInput(input) }

// EditValue returns the pending value of the cell editor.
func (t *Table[T]) EditValue() any { return t.state.Edit.Value }

// CellErrors returns the recorded validation errors of a cell.
func (t *Table[T]) CellErrors(row, col int) []string {
	return t.state.Edit.Errors[CellIndex{Row: row, Column: col}]
}

// Sorting

// SortRows sorts the table by a column.
// SortNone clears the sort state.
// Sorting with the current sort state is a no-op.
// An open cell edit is saved first, if saving is blocked
// by validation errors ErrEditInProgress is returned.
func (t *Table[T]) SortRows(ctx context.Context, col int, direction SortDirection) error {
	previous := t.CurrentSortInfo()
	changed, err := t.sorting.sortRows(ctx, col, direction)
	if err != nil || !changed {
		return err
	}
	t.emitSortEvent(previous)
	return nil
}

// ClickHeader advances the sort state of a sortable column
// through ascending, descending and unsorted.
// Clicking a column that is not sorted starts with ascending.
// Clicks on columns that are not sortable are ignored.
func (t *Table[T]) ClickHeader(ctx context.Context, col int) error {
	column, ok := t.column(col)
	if !ok || !column.Sortable {
		return nil
	}
	direction := SortAscending
	if s := t.state.Sort; s != nil && s.ColumnIndex == col {
		direction = s.Direction.Next()
	}
	return t.SortRows(ctx, col, direction)
}

// CurrentSortInfo returns the sort state or nil if unsorted.
func (t *Table[T]) CurrentSortInfo() *SortInfo {
	if t.state.Sort == nil {
		return nil
	}
	info := *t.state.Sort
	return &info
}

func (t *Table[T]) emitSortEvent(previous *SortInfo) {
	prevCol, prevDir := -1, SortNone
	if previous != nil {
		prevCol, prevDir = previous.ColumnIndex, previous.Direction
	}
	current := t.state.Sort
	if current == nil {
		t.events.Dispatch(SortClearEvent{
			PreviousColumnIndex: prevCol,
			PreviousDirection:   prevDir,
		})
		return
	}
	column, _ := t.column(current.ColumnIndex)
	t.events.Dispatch(SortChangeEvent{
		Column:              column.Info(current.ColumnIndex),
		Direction:           current.Direction,
		PreviousColumnIndex: prevCol,
		PreviousDirection:   prevDir,
	})
}

// Row lifecycle

// CanAdd returns true if Config.OnAdd is set and
// the number of rows is below Config.MaxRowCount.
func (t *Table[T]) CanAdd() bool { return t.rows.canAdd() }

// CanDelete returns true if Config.OnDelete is set and
// the number of rows is above Config.MinRowCount.
func (t *Table[T]) CanDelete() bool { return t.rows.canDelete() }

// IsAdding returns true if the insertion row is being edited.
func (t *Table[T]) IsAdding() bool { return t.rows.isAdding() }

// DeleteRows deletes the rows at the passed display indices
// after an optional confirmation, see DeleteOptions.
func (t *Table[T]) DeleteRows(ctx context.Context, rows []int, opts DeleteOptions) error {
	return t.rows.deleteRows(ctx, rows, opts)
}

// DeleteSelectedRows deletes the selected rows.
func (t *Table[T]) DeleteSelectedRows(ctx context.Context, opts DeleteOptions) error {
	return t.rows.deleteRows(ctx, t.SelectedRowIndexes(), opts)
}
