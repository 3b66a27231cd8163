// Package exceltable loads table rows from Excel workbooks
// (.xlsx, .xlsm, .xltm, .xltx) so that they can be passed
// as Config.Data of a datatable.Table.
//
// The package uses the excelize library (github.com/xuri/excelize/v2)
// to parse the workbooks. The first row of a sheet holds the column
// names and every following row becomes a map from column name
// to the cell string, see datatable.StringRecords.
//
// Key features:
//   - Read a named sheet or the first sheet of a workbook
//   - Support for both file paths and io.Reader sources
//   - Automatic cleaning of empty rows and columns
//   - Listing the sheet names of a workbook
//
// Example usage:
//
//	records, err := exceltable.ReadFileRecords("people.xlsx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table := datatable.NewTable(datatable.Config[map[string]any]{
//	    Columns: columns,
//	    Data:    records,
//	})
package exceltable

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/powerhouse-inc/go-datatable"
)

// ReadRecords reads the rows of a sheet of a workbook as table rows
// keyed by the sheet's first row, see datatable.StringRecords.
//
// Empty rows and columns are removed from the edges of the data range
// before the first row is used as column names.
// Cells are read as formatted by Excel, so dates and numbers
// appear as they are displayed by the cell's number format.
//
// Parameters:
//   - reader: An io.Reader containing the workbook data
//   - sheet: The name of the sheet to read, an empty string reads the first sheet
//
// Returns:
//   - records: One map per data row from column name to cell string
//   - err: Error if the workbook can't be parsed, ErrSheetNotExist
//     if there is no such sheet, or ErrEmptySheet if the sheet holds no cells
func ReadRecords(reader io.Reader, sheet string) (records []map[string]any, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readSheetRecords(f, sheet)
}

// ReadFileRecords reads the rows of a sheet of a local workbook file.
//
// Parameters:
//   - filename: Path of the workbook file
//   - sheet: The name of the sheet to read, an empty string reads the first sheet
//
// Returns the same records and errors as ReadRecords
// plus the error of opening the file.
func ReadFileRecords(filename, sheet string) (records []map[string]any, err error) {
	f, e := excelize.OpenFile(filename)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readSheetRecords(f, sheet)
}

// SheetNames returns the names of the sheets of a workbook
// in the order of the workbook's tabs.
//
// The returned names can be passed as sheet argument to ReadRecords.
func SheetNames(reader io.Reader) (names []string, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return f.GetSheetList(), nil
}

// readSheetRecords reads the records of a sheet of an opened workbook.
// The caller is responsible for closing f.
func readSheetRecords(f *excelize.File, sheet string) ([]map[string]any, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"}
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	rows = datatable.RemoveEmptyStringRows(rows)
	if len(rows) == 0 || datatable.RemoveEmptyStringColumns(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return datatable.StringRecords(rows), nil
}
