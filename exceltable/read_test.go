package exceltable

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheets map[string][][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRecords(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"People": {
			{"id", "name", nil},
			{1, "A"},
			{nil, nil},
			{2, "B"},
		},
	})
	records, err := ReadRecords(data, "")
	require.NoError(t, err)
	require.Equal(t, []map[string]any{
		{"id": "1", "name": "A"},
		{"id": "2", "name": "B"},
	}, records)
}

func TestReadRecordsErrors(t *testing.T) {
	data := workbook(t, map[string][][]any{"Empty": {}})
	_, err := ReadRecords(bytes.NewReader(data.Bytes()), "")
	require.ErrorIs(t, err, ErrEmptySheet)

	_, err = ReadRecords(bytes.NewReader(data.Bytes()), "Missing")
	var notExist ErrSheetNotExist
	require.True(t, errors.As(err, &notExist))
	require.Equal(t, "Missing", notExist.SheetName)

	names, err := SheetNames(bytes.NewReader(data.Bytes()))
	require.NoError(t, err)
	require.Equal(t, []string{"Empty"}, names)
}
