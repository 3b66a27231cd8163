package datatable

import (
	"context"
	"log/slog"
)

// AddFunc creates a new row from the values entered into the insertion row.
// The keys of data are the Column.Field paths of the edited columns.
type AddFunc func(ctx context.Context, data map[string]any) error

// DeleteFunc deletes the passed rows from the data source.
type DeleteFunc[T any] func(ctx context.Context, rows []T) error

// Config is the external configuration of a table.
// The columns and data are owned by the host and replaced
// via Table.SetColumns and Table.SetData.
type Config[T any] struct {
	Title   string
	Columns []Column[T]
	Data    []T

	// MinRowCount is the number of rows that can't be deleted.
	MinRowCount int
	// MaxRowCount limits adding rows, only used if > 0.
	MaxRowCount int

	AllowRowSelection bool
	ShowRowNumbers    bool

	// OnAdd enables the insertion row if not nil.
	OnAdd AddFunc
	// OnDelete enables deleting rows if not nil.
	OnDelete DeleteFunc[T]

	// Confirmer asks the user to confirm deletions and
	// shows informational dialogs.
	Confirmer Confirmer

	// OnStateChange is called after every state change
	// so that the host can re-render.
	OnStateChange func(State)
	// OnFocusEditor is called after entering edit mode
	// to move the input focus to the cell editor.
	OnFocusEditor func(cell CellIndex)

	// FieldNaming used to resolve Column.Field paths,
	// defaults to DefaultStructFieldNaming.
	FieldNaming *StructFieldNaming
	// Parser for editor input of columns without an Editor,
	// defaults to NewStringParser().
	Parser Parser
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (c *Config[T]) fieldNaming() *StructFieldNaming {
	if c.FieldNaming != nil {
		return c.FieldNaming
	}
	return &DefaultStructFieldNaming
}

func (c *Config[T]) parser() Parser {
	if c.Parser != nil {
		return c.Parser
	}
	return defaultParser
}

func (c *Config[T]) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
