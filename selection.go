package datatable

// selectionManager translates selection gestures into
// SelectionState transitions. Selecting a cell clears the
// row selection and selecting rows clears the selected cell.
// Selection changes are not published as events.
type selectionManager[T any] struct {
	t *Table[T]
}

func (m *selectionManager[T]) canSelect() bool {
	return m.t.config.AllowRowSelection
}

func (m *selectionManager[T]) isDataRow(row int) bool {
	return row >= 0 && row < len(m.t.records)
}

func (m *selectionManager[T]) selectCell(row, col int) {
	if !m.canSelect() || !m.t.inBounds(row, col) {
		return
	}
	m.t.dispatch(func(s *State) { setSelectedCell(s, CellIndex{Row: row, Column: col}) })
}

// setSelectedCell is used by the edit controller which
// selects the edited cell independent of AllowRowSelection.
func setSelectedCell(s *State, cell CellIndex) {
	s.Selection.SelectedCell = &cell
	s.Selection.SelectedRows = RowSet{}
}

func (m *selectionManager[T]) selectRow(row int) {
	if !m.canSelect() || !m.isDataRow(row) {
		return
	}
	m.t.dispatch(func(s *State) {
		s.Selection.SelectedRows = NewRowSet(row)
		s.Selection.SelectedCell = nil
		s.Selection.LastActiveRow = row
	})
}

func (m *selectionManager[T]) toggleRow(row int) {
	if !m.canSelect() || !m.isDataRow(row) {
		return
	}
	m.t.dispatch(func(s *State) {
		rows := s.Selection.SelectedRows.Clone()
		if rows.Has(row) {
			delete(rows, row)
		} else {
			rows[row] = struct{}{}
		}
		s.Selection.SelectedRows = rows
		s.Selection.SelectedCell = nil
		s.Selection.LastActiveRow = row
	})
}

func (m *selectionManager[T]) selectRange(from, to int) {
	numRows := len(m.t.records)
	if !m.canSelect() || numRows == 0 {
		return
	}
	from = min(max(from, 0), numRows-1)
	to = min(max(to, 0), numRows-1)
	m.t.dispatch(func(s *State) {
		rows := make(RowSet, max(from, to)-min(from, to)+1)
		for row := min(from, to); row <= max(from, to); row++ {
			rows[row] = struct{}{}
		}
		s.Selection.SelectedRows = rows
		s.Selection.SelectedCell = nil
		if s.Selection.LastActiveRow < 0 {
			s.Selection.LastActiveRow = from
		}
	})
}

func (m *selectionManager[T]) selectFromLastActiveRow(row int) {
	from := m.t.state.Selection.LastActiveRow
	if from < 0 {
		from = row
	}
	m.selectRange(from, row)
}

func (m *selectionManager[T]) allRowsSelected() bool {
	numRows := len(m.t.records)
	rows := m.t.state.Selection.SelectedRows
	if numRows == 0 || len(rows) != numRows {
		return false
	}
	for row := range numRows {
		if !rows.Has(row) {
			return false
		}
	}
	return true
}

func (m *selectionManager[T]) selectAllRows() {
	if !m.canSelect() || len(m.t.records) == 0 {
		return
	}
	m.selectRange(0, len(m.t.records)-1)
}

func (m *selectionManager[T]) toggleSelectAll() {
	if !m.canSelect() {
		return
	}
	if m.allRowsSelected() {
		m.t.dispatch(func(s *State) {
			s.Selection.SelectedRows = RowSet{}
		})
		return
	}
	m.selectAllRows()
}

func (m *selectionManager[T]) clearCellSelection() {
	if m.t.state.Selection.SelectedCell == nil {
		return
	}
	m.t.dispatch(func(s *State) { s.Selection.SelectedCell = nil })
}

func (m *selectionManager[T]) clear() {
	m.t.dispatch(func(s *State) {
		s.Selection = SelectionState{
			SelectedRows:  RowSet{},
			LastActiveRow: -1,
		}
	})
}

func (m *selectionManager[T]) moveSelectedCell(dRow, dCol int) {
	total, numCols := m.t.TotalRowsCount(), len(m.t.config.Columns)
	if !m.canSelect() || total == 0 || numCols == 0 {
		return
	}
	cell, ok := m.t.SelectedCell()
	if ok {
		cell.Row = min(max(cell.Row+dRow, 0), total-1)
		cell.Column = min(max(cell.Column+dCol, 0), numCols-1)
	}
	m.selectCell(cell.Row, cell.Column)
}
