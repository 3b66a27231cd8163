package datatable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringColumnWidths(t *testing.T) {
	rows := [][]string{
		{"a", "äöü"},
		{"abcd"},
	}
	require.Equal(t, []int{4, 3}, StringColumnWidths(rows, -1))
	require.Equal(t, []int{4}, StringColumnWidths(rows, 1))
	require.Nil(t, StringColumnWidths(nil, -1))
}

func TestRemoveEmptyStringColumns(t *testing.T) {
	rows := [][]string{
		{"a", "", " "},
		{"b", "c", ""},
		{"", ""},
	}
	numCols := RemoveEmptyStringColumns(rows)
	require.Equal(t, 2, numCols)
	require.Equal(t, [][]string{{"a", ""}, {"b", "c"}, {"", ""}}, rows)
	require.Equal(t, [][]string{{"a", ""}, {"b", "c"}}, RemoveEmptyStringRows(rows))
}

func TestStringRecords(t *testing.T) {
	rows := [][]string{
		{" id ", "name", ""},
		{"1", "A", "x"},
		{"", " ", ""},
		{"2"},
	}
	require.Equal(t, []map[string]any{
		{"id": "1", "name": "A", "Column3": "x"},
		{"id": "2", "name": nil, "Column3": nil},
	}, StringRecords(rows))

	require.Empty(t, StringRecords(nil))
	require.Empty(t, StringRecords([][]string{{"header"}}))
}
