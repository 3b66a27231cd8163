package datatable

import (
	"fmt"
	"maps"
	"slices"
)

// CellIndex is a coordinate in the displayed, possibly sorted,
// row order of a table. It is not an index into Config.Data.
type CellIndex struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c CellIndex) String() string {
	return fmt.Sprintf("[%d,%d]", c.Row, c.Column)
}

// RowRecord wraps a row of Config.Data with its index in Config.Data
// which stays stable when the rows are sorted.
type RowRecord[T any] struct {
	Data          T
	OriginalIndex int
}

// RowSet is a set of display row indices.
type RowSet map[int]struct{}

func NewRowSet(rows ...int) RowSet {
	s := make(RowSet, len(rows))
	for _, row := range rows {
		s[row] = struct{}{}
	}
	return s
}

func (s RowSet) Has(row int) bool {
	_, ok := s[row]
	return ok
}

// Sorted returns the rows in ascending order.
func (s RowSet) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

func (s RowSet) Clone() RowSet {
	if s == nil {
		return RowSet{}
	}
	return maps.Clone(s)
}

type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Next returns the direction following d in the
// ascending, descending, unsorted click cycle.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	}
	return SortNone
}

func (d SortDirection) Valid() bool {
	return d == SortNone || d == SortAscending || d == SortDescending
}

// SortInfo is the sort state of a table.
// A nil *SortInfo means the table is unsorted.
type SortInfo struct {
	ColumnIndex int           `json:"columnIndex"`
	Direction   SortDirection `json:"direction"`
}

// SelectionState holds either selected rows or a selected cell, never both.
type SelectionState struct {
	SelectedRows RowSet
	SelectedCell *CellIndex
	// LastActiveRow anchors range selections, -1 if there is none.
	LastActiveRow int
}

// EditState holds the cell edit session.
// At most one cell of a table is edited at a time.
type EditState struct {
	// Cell is the edited cell or nil if not editing.
	Cell *CellIndex
	// OriginalIndex is the index in Config.Data of the
	// edited row or -1 for the insertion row.
	OriginalIndex int
	OriginalValue any
	// Value is the pending value of the cell editor.
	Value any
	// InputErr is the error from parsing the last editor input.
	InputErr error
	// Errors holds the last validation errors per cell.
	Errors map[CellIndex][]string
}

func (e *EditState) IsEditing() bool {
	return e.Cell != nil
}

// HasErrors returns true if any cell has unresolved validation errors.
func (e *EditState) HasErrors() bool {
	for _, errs := range e.Errors {
		if len(errs) > 0 {
			return true
		}
	}
	return false
}

// State is the mutable state of a table,
// changed only through the table's dispatch.
type State struct {
	Selection SelectionState
	Edit      EditState
	Sort      *SortInfo
}

func newState() State {
	return State{
		Selection: SelectionState{
			SelectedRows:  RowSet{},
			LastActiveRow: -1,
		},
		Edit: EditState{
			Errors: make(map[CellIndex][]string),
		},
	}
}

// Clone returns a deep copy of the state
// except for the editor values.
func (s *State) Clone() State {
	c := *s
	c.Selection.SelectedRows = s.Selection.SelectedRows.Clone()
	if s.Selection.SelectedCell != nil {
		cell := *s.Selection.SelectedCell
		c.Selection.SelectedCell = &cell
	}
	if s.Edit.Cell != nil {
		cell := *s.Edit.Cell
		c.Edit.Cell = &cell
	}
	c.Edit.Errors = make(map[CellIndex][]string, len(s.Edit.Errors))
	for cell, errs := range s.Edit.Errors {
		c.Edit.Errors[cell] = slices.Clone(errs)
	}
	if s.Sort != nil {
		sort := *s.Sort
		c.Sort = &sort
	}
	return c
}
