package csvtable

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/domonda/go-types/charset"

	"github.com/powerhouse-inc/go-datatable"
)

// WriteView writes the rows of view as CSV in the passed format.
// If the view implements datatable.FormattedView its cells are
// written as formatted, else with datatable.FormatValue.
// A *datatable.Table is written in its displayed row order.
// A nil format writes UTF-8 with comma separator.
func WriteView(ctx context.Context, dest io.Writer, view datatable.View, format *Format, header bool) error {
	if format == nil {
		format = NewFormat(",")
	}
	if err := format.Validate(); err != nil {
		return err
	}
	rows, err := datatable.FormatViewAsStrings(ctx, view, header)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = format.separator()
	w.UseCRLF = format.Newline == "\r\n"
	if err = w.WriteAll(rows); err != nil {
		return err
	}
	data := buf.Bytes()
	if format.Newline == "\n\r" {
		data = bytes.ReplaceAll(data, []byte("\n"), []byte("\n\r"))
	}

	if format.Encoding != "UTF-8" {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return err
		}
		data, err = enc.Encode(data)
		if err != nil {
			return fmt.Errorf("can't encode CSV as %s: %w", format.Encoding, err)
		}
	}
	_, err = dest.Write(data)
	return err
}
