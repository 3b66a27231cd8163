package datatable

import (
	"context"
	"fmt"
	"strings"
)

// ColumnType determines how a column's values are parsed
// from editor input, compared and formatted by default.
type ColumnType int

const (
	ColumnTypeText ColumnType = iota
	ColumnTypeNumber
	ColumnTypeBoolean
)

func (t ColumnType) String() string {
	switch t {
	case ColumnTypeText:
		return "text"
	case ColumnTypeNumber:
		return "number"
	case ColumnTypeBoolean:
		return "boolean"
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// ParseColumnType parses the names returned by ColumnType.String.
// An empty string is parsed as ColumnTypeText.
func ParseColumnType(str string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "text", "string":
		return ColumnTypeText, nil
	case "number", "numeric":
		return ColumnTypeNumber, nil
	case "boolean", "bool":
		return ColumnTypeBoolean, nil
	}
	return 0, fmt.Errorf("invalid column type %q", str)
}

// MarshalText implements encoding.TextMarshaler
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ColumnType) UnmarshalText(text []byte) error {
	parsed, err := ParseColumnType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Validator checks a value entered into a cell editor
// and returns the list of validation error messages.
// An empty result means the value is valid.
// Validators may block, for example to check a value
// against a remote service, and should respect ctx.
type Validator[T any] func(ctx context.Context, value any, cell *CellContext[T]) []string

// EditorFunc is a custom cell editor that converts
// the raw text input of a cell editor into a cell value.
type EditorFunc func(input string) (value any, err error)

// SaveFunc persists a value edited in an existing row.
// The result saved is false if the save was declined.
type SaveFunc[T any] func(ctx context.Context, value any, cell *CellContext[T]) (saved bool, err error)

// RowComparator compares two non-empty cell values of a column
// and returns a negative number if a sorts before b,
// zero if both are equal, and a positive number otherwise.
type RowComparator[T any] func(a, b any, rowA, rowB T) int

// Column defines a column of a table with rows of type T.
// A column is identified by its index within Config.Columns.
type Column[T any] struct {
	// Field is the dot separated path of the column's value
	// within a row, see StructFieldNaming.ResolveField.
	// It is also the key of the value passed to Config.OnAdd.
	Field string
	// Title of the column header,
	// defaults to SpacePascalCase of the last Field segment.
	Title string
	Type  ColumnType

	// ValueGetter overrides the resolution of Field.
	ValueGetter func(row T) any
	// ValueFormatter overrides the default formatting of values.
	ValueFormatter func(value any) string

	// Editor is a custom cell editor for input parsing.
	// The insertion row can edit every column with an Editor
	// even if the column is not Editable.
	Editor   EditorFunc
	Editable bool
	OnSave   SaveFunc[T]
	Validate Validator[T]

	Sortable      bool
	RowComparator RowComparator[T]
}

// HeaderTitle returns Title or a title derived from Field.
func (c *Column[T]) HeaderTitle() string {
	if c.Title != "" {
		return c.Title
	}
	field := c.Field
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return SpacePascalCase(field)
}

// Info returns the non generic description of the column
// that is used in event payloads.
func (c *Column[T]) Info(index int) ColumnInfo {
	return ColumnInfo{
		Index:    index,
		Field:    c.Field,
		Title:    c.HeaderTitle(),
		Type:     c.Type,
		Editable: c.Editable,
		Sortable: c.Sortable,
	}
}

// ColumnInfo describes a column independent of the row type.
type ColumnInfo struct {
	Index    int        `json:"index"`
	Field    string     `json:"field"`
	Title    string     `json:"title"`
	Type     ColumnType `json:"type"`
	Editable bool       `json:"editable"`
	Sortable bool       `json:"sortable"`
}

// CellContext is passed to all column level callbacks.
type CellContext[T any] struct {
	// Row is the row data, the zero value of T for the insertion row.
	Row         T
	Column      *Column[T]
	RowIndex    int
	ColumnIndex int
	// OriginalIndex is the index of the row in Config.Data
	// or -1 for the insertion row.
	OriginalIndex int
	// IsInsertionRow is true for the virtual row used to add rows.
	IsInsertionRow bool
	Config         *Config[T]
}

// Cell returns the display coordinates of the cell.
func (c *CellContext[T]) Cell() CellIndex {
	return CellIndex{Row: c.RowIndex, Column: c.ColumnIndex}
}
