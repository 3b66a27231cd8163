// Package htmltable writes the displayed rows of a table as HTML.
//
// Views that carry table state, like *datatable.Table, are rendered
// as a snapshot of that state: the sorted column header gets an
// aria-sort attribute, selected rows and the selected cell get the
// class "selected" and cells with validation errors the class "invalid"
// with the errors as title.
//
// Example usage:
//
//	err := htmltable.NewWriter().
//	    WithHeaderRow(true).
//	    WithTableClass("people").
//	    WriteView(ctx, os.Stdout, table)
package htmltable

import (
	"context"
	"errors"
	"html/template"
	"io"
	"maps"
	"strings"

	"github.com/powerhouse-inc/go-datatable"
)

type sortedView interface {
	CurrentSortInfo() *datatable.SortInfo
}

type selectionView interface {
	SelectedRowIndexes() []int
	SelectedCell() (datatable.CellIndex, bool)
}

type errorsView interface {
	CellErrors(row, col int) []string
}

// Writer writes views as HTML table elements.
//
// Writer is immutable after creation,
// all With* methods return a modified copy.
//
// All cell values are HTML-escaped unless a
// column formatter returns them as raw HTML.
type Writer struct {
	tableClass       string
	columnFormatters map[int]CellFormatter
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter returns a Writer with the default templates,
// no header row and empty strings for nil values.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]CellFormatter),
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// WriteView writes view as HTML table to dest.
//
// Cells are formatted by the column formatter if there is one
// for the column, else with FormattedCell if the view implements
// datatable.FormattedView or datatable.FormatValue.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view datatable.View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns   = view.Columns()
		numCols   = len(columns)
		templData = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
				Caption:    view.Title(),
			},
			Cells: make([]CellTemplateContext, numCols),
		}
		formatted, _ = view.(datatable.FormattedView)
		cellErrors, _ = view.(errorsView)
		selectedRows  = make(map[int]bool)
		selectedCell  *datatable.CellIndex
	)
	if s, ok := view.(selectionView); ok {
		for _, row := range s.SelectedRowIndexes() {
			selectedRows[row] = true
		}
		if cell, ok := s.SelectedCell(); ok {
			selectedCell = &cell
		}
	}

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		var sort *datatable.SortInfo
		if s, ok := view.(sortedView); ok {
			sort = s.CurrentSortInfo()
		}
		templData.IsHeaderRow = true
		for i := range columns {
			templData.Cells[i] = CellTemplateContext{HTML: template.HTML(template.HTMLEscapeString(columns[i]))} //#nosec G203
			if sort != nil && sort.ColumnIndex == i {
				templData.Cells[i].Sort = ariaSort(sort.Direction)
			}
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.IsHeaderRow = false
		templData.RowIndex++
	}

	for row, numRows := 0, view.NumRows(); row < numRows; row++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		templData.Selected = selectedRows[row]
		for col := 0; col < numCols; col++ {
			html, err := w.formatCell(ctx, view, formatted, row, col)
			if err != nil {
				return err
			}
			cell := CellTemplateContext{HTML: html}
			if selectedCell != nil && selectedCell.Row == row && selectedCell.Column == col {
				cell.Class = "selected"
			}
			if cellErrors != nil {
				if errs := cellErrors.CellErrors(row, col); len(errs) > 0 {
					cell.Class = "invalid"
					cell.Title = strings.Join(errs, "\n")
				}
			}
			templData.Cells[col] = cell
		}

		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}

		templData.RowIndex++
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer) formatCell(ctx context.Context, view datatable.View, formatted datatable.FormattedView, row, col int) (template.HTML, error) {
	if colFormatter, ok := w.columnFormatters[col]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, view, row, col)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		if err == nil {
			if !isRaw {
				str = template.HTMLEscapeString(str)
			}
			return template.HTML(str), nil //#nosec G203
		}
	}

	if datatable.IsEmptyValue(view.Cell(row, col)) {
		return w.nilValue, nil
	}
	var str string
	if formatted != nil {
		str = formatted.FormattedCell(row, col)
	} else {
		str = datatable.FormatValue(view.Cell(row, col))
	}
	return template.HTML(template.HTMLEscapeString(str)), nil //#nosec G203
}

func ariaSort(direction datatable.SortDirection) string {
	switch direction {
	case datatable.SortAscending:
		return "ascending"
	case datatable.SortDescending:
		return "descending"
	}
	return ""
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter sets the formatter of a column,
// a nil formatter removes it.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = maps.Clone(w.columnFormatters)
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

func (w *Writer) WithColumnFormatterFunc(columnIndex int, formatterFunc CellFormatterFunc) *Writer {
	return w.WithColumnFormatter(columnIndex, formatterFunc)
}

// WithRawColumn writes the formatted values of a column without HTML escaping.
func (w *Writer) WithRawColumn(columnIndex int) *Writer {
	return w.WithColumnFormatterFunc(columnIndex, func(ctx context.Context, view datatable.View, row, col int) (string, bool, error) {
		if f, ok := view.(datatable.FormattedView); ok {
			return f.FormattedCell(row, col), true, nil
		}
		return datatable.FormatValue(view.Cell(row, col)), true, nil
	})
}

func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithTemplate(headerTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = headerTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}
