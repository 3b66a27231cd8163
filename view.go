package datatable

import "context"

// View is a read only, row and column indexed view of a table.
// Out of range coordinates return nil.
type View interface {
	Title() string
	Columns() []string
	NumRows() int
	Cell(row, col int) any
}

// FormattedView is implemented by views that know
// how to format their cells as strings.
type FormattedView interface {
	View
	FormattedCell(row, col int) string
}

// FormatViewAsStrings converts a View into a 2D string slice.
// Cells are formatted with FormattedCell if the view implements
// FormattedView or else with FormatValue.
// If addHeaderRow is true, the column titles are added as first row.
func FormatViewAsStrings(ctx context.Context, view View, addHeaderRow bool) (rows [][]string, err error) {
	numRows := view.NumRows()
	numCols := len(view.Columns())

	if addHeaderRow {
		rows = append(rows, append([]string(nil), view.Columns()...))
	}

	formatted, _ := view.(FormattedView)
	for row := 0; row < numRows; row++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rowStrings := make([]string, numCols)
		for col := 0; col < numCols; col++ {
			if formatted != nil {
				rowStrings[col] = formatted.FormattedCell(row, col)
			} else {
				rowStrings[col] = FormatValue(view.Cell(row, col))
			}
		}
		rows = append(rows, rowStrings)
	}
	return rows, nil
}
