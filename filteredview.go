package datatable

import "fmt"

var (
	_ View          = new(FilteredView)
	_ FormattedView = new(FilteredView)
)

// FilteredView is a window of rows and a selection
// of columns of a source View, used to export a page
// of the displayed rows of a table.
type FilteredView struct {
	Source View
	// RowOffset is the number of source rows to skip.
	RowOffset int
	// RowLimit limits the number of rows if > 0.
	RowLimit int
	// ColumnMapping holds the source column index
	// for every column of the view, nil means all columns.
	ColumnMapping []int
}

// NewColumnFilteredView returns a FilteredView with the
// columns of source that have the passed titles in the passed order.
func NewColumnFilteredView(source View, columns ...string) (*FilteredView, error) {
	sourceCols := source.Columns()
	mapping := make([]int, len(columns))
	for i, title := range columns {
		mapping[i] = -1
		for j, sourceTitle := range sourceCols {
			if sourceTitle == title {
				mapping[i] = j
				break
			}
		}
		if mapping[i] == -1 {
			return nil, fmt.Errorf("column %q not found", title)
		}
	}
	return &FilteredView{Source: source, ColumnMapping: mapping}, nil
}

func (view *FilteredView) Title() string {
	return view.Source.Title()
}

func (view *FilteredView) Columns() []string {
	sourceCols := view.Source.Columns()
	if view.ColumnMapping == nil {
		return sourceCols
	}
	mappedCols := make([]string, len(view.ColumnMapping))
	for i, iSource := range view.ColumnMapping {
		mappedCols[i] = sourceCols[iSource]
	}
	return mappedCols
}

func (view *FilteredView) numCols() int {
	if view.ColumnMapping != nil {
		return len(view.ColumnMapping)
	}
	return len(view.Source.Columns())
}

func (view *FilteredView) NumRows() int {
	n := view.Source.NumRows() - max(view.RowOffset, 0)
	if n < 0 {
		return 0
	}
	if view.RowLimit > 0 && n > view.RowLimit {
		return view.RowLimit
	}
	return n
}

// sourceCell maps view coordinates to source coordinates.
func (view *FilteredView) sourceCell(row, col int) (int, int, bool) {
	if row < 0 || col < 0 || row >= view.NumRows() || col >= view.numCols() {
		return 0, 0, false
	}
	row += max(view.RowOffset, 0)
	if view.ColumnMapping != nil {
		col = view.ColumnMapping[col]
	}
	return row, col, true
}

func (view *FilteredView) Cell(row, col int) any {
	row, col, ok := view.sourceCell(row, col)
	if !ok {
		return nil
	}
	return view.Source.Cell(row, col)
}

// FormattedCell uses the formatting of the source
// if it implements FormattedView.
func (view *FilteredView) FormattedCell(row, col int) string {
	row, col, ok := view.sourceCell(row, col)
	if !ok {
		return ""
	}
	if f, ok := view.Source.(FormattedView); ok {
		return f.FormattedCell(row, col)
	}
	return FormatValue(view.Source.Cell(row, col))
}
