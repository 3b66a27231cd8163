package datatable

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// sortEngine owns the single column sort state and
// the display order of the rows derived from it.
// It does not publish events, Table wraps sort changes
// with EventSortChange and EventSortClear.
type sortEngine[T any] struct {
	t *Table[T]
}

// order returns the display permutation of the table's records
// for the passed sort state. Sorting is stable on the original
// row order so equal and empty values keep their relative order
// and clearing the sort state restores the original order.
func (e *sortEngine[T]) order(info *SortInfo) []int {
	records := e.t.records
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	if info == nil {
		return order
	}
	column, ok := e.t.column(info.ColumnIndex)
	if !ok {
		return order
	}
	values := make([]any, len(records))
	for i := range records {
		values[i] = e.t.columnValue(column, records[i].Data)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return compareColumnValues(column, values[a], values[b], records[a].Data, records[b].Data, info.Direction)
	})
	return order
}

func (e *sortEngine[T]) sortRows(ctx context.Context, col int, direction SortDirection) (changed bool, err error) {
	if !direction.Valid() {
		return false, fmt.Errorf("invalid sort direction %q", direction)
	}
	current := e.t.state.Sort
	var next *SortInfo
	if direction == SortNone {
		if current == nil {
			return false, nil
		}
	} else {
		column, ok := e.t.column(col)
		if !ok || !column.Sortable {
			return false, fmt.Errorf("%w: column %d", ErrNotSortable, col)
		}
		if current != nil && current.ColumnIndex == col && current.Direction == direction {
			return false, nil
		}
		next = &SortInfo{ColumnIndex: col, Direction: direction}
	}

	// Display indices change with the sort order,
	// so an open edit must be saved before sorting
	if e.t.state.Edit.IsEditing() {
		if _, err := e.t.editing.exit(ctx, true); err != nil {
			return false, err
		}
		if e.t.state.Edit.IsEditing() {
			return false, fmt.Errorf("%w: can't sort while the edited cell has validation errors", ErrEditInProgress)
		}
	}
	e.t.selection.clear()

	e.t.dispatch(func(s *State) {
		s.Sort = next
		e.t.order = e.order(next)
	})
	e.t.logger.Debug("Table sorted",
		slog.String("from", formatSortInfo(current)),
		slog.String("to", formatSortInfo(next)),
	)
	return true, nil
}
