package datatable

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// StringColumnWidths returns the column widths of the passed
// rows as count of UTF-8 runes.
// If numCols is negative, the longest row determines
// the number of columns.
func StringColumnWidths(rows [][]string, numCols int) []int {
	if numCols < 0 {
		for _, row := range rows {
			numCols = max(numCols, len(row))
		}
		if numCols <= 0 {
			return nil
		}
	}
	colWidths := make([]int, numCols)
	for _, row := range rows {
		for col := 0; col < numCols && col < len(row); col++ {
			colWidths[col] = max(colWidths[col], utf8.RuneCountInString(row[col]))
		}
	}
	return colWidths
}

func isEmptyString(str string) bool {
	return strings.TrimSpace(str) == ""
}

// RemoveEmptyStringRows removes rows where all
// cells are empty or contain only whitespace.
// The passed rows are modified in place.
func RemoveEmptyStringRows(rows [][]string) [][]string {
	result := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if !isEmptyString(cell) {
				result = append(result, row)
				break
			}
		}
	}
	return result
}

// RemoveEmptyStringColumns removes trailing columns
// that are empty in all rows and returns the number of
// remaining columns. Rows are truncated but not padded.
func RemoveEmptyStringColumns(rows [][]string) (numCols int) {
	for _, row := range rows {
		for col := len(row) - 1; col >= numCols; col-- {
			if !isEmptyString(row[col]) {
				numCols = col + 1
				break
			}
		}
	}
	for i, row := range rows {
		if len(row) > numCols {
			rows[i] = row[:numCols]
		}
	}
	return numCols
}

// StringHeader returns the trimmed column names of the first row.
// Empty names are replaced with "ColumnN" using the 1 based column number.
func StringHeader(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			header[i] = fmt.Sprintf("Column%d", i+1)
		}
	}
	return header
}

// StringRecords converts string rows with a header row
// into table rows keyed by the StringHeader names.
// Empty rows are removed, missing trailing cells are nil
// and cells beyond the header are ignored.
func StringRecords(rows [][]string) []map[string]any {
	rows = RemoveEmptyStringRows(rows)
	if len(rows) < 2 {
		return []map[string]any{}
	}
	header := StringHeader(rows)
	records := make([]map[string]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]any, len(header))
		for col, name := range header {
			if col < len(row) {
				record[name] = row[col]
			} else {
				record[name] = nil
			}
		}
		records = append(records, record)
	}
	return records
}
