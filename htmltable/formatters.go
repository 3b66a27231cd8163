package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/powerhouse-inc/go-datatable"
)

// CellFormatter formats the cell of a view for HTML output.
// If raw is true, str is written without HTML escaping.
// errors.ErrUnsupported lets the Writer fall back
// to the default formatting of the cell.
type CellFormatter interface {
	FormatCell(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
	return f(ctx, view, row, col)
}

var (
	HTMLPreCellFormatter CellFormatterFunc = func(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(datatable.FormatValue(view.Cell(row, col)))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter CellFormatterFunc = func(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(datatable.FormatValue(view.Cell(row, col)))
		return "<code>" + value + "</code>", true, nil
	}

	_ CellFormatter = JSONCellFormatter("")
	_ CellFormatter = HTMLSpanClassCellFormatter("")
)

// JSONCellFormatter formats cells holding JSON text within a pre element.
// The JSON is indented with the string value of the formatter
// or compacted if it is empty. Empty cells are not supported.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
	var src []byte
	switch x := view.Cell(row, col).(type) {
	case string:
		src = []byte(x)
	case []byte:
		src = x
	case json.RawMessage:
		src = x
	default:
		if datatable.IsEmptyValue(x) {
			return "", false, errors.ErrUnsupported
		}
		src, err = json.Marshal(x)
		if err != nil {
			return "", false, err
		}
	}
	if len(src) == 0 {
		return "", false, errors.ErrUnsupported
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, src)
	} else {
		err = json.Indent(buf, src, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within
// an HTML span element with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, view datatable.View, row, col int) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(datatable.FormatValue(view.Cell(row, col)))
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}
