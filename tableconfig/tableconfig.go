// Package tableconfig loads declarative table configurations
// for tables of map[string]any rows from YAML or JSONC files.
//
// Example YAML:
//
//	title: People
//	minRowCount: 1
//	allowRowSelection: true
//	sort: {column: name, direction: asc}
//	columns:
//	  - field: id
//	    type: number
//	    sortable: true
//	  - field: name
//	    editable: true
//	    required: true
//	    maxLength: 40
package tableconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"

	"github.com/powerhouse-inc/go-datatable"
)

// Row is the row type of tables configured by a File.
type Row = map[string]any

// File is a declarative table configuration.
type File struct {
	Title             string `yaml:"title" json:"title"`
	MinRowCount       int    `yaml:"minRowCount" json:"minRowCount"`
	MaxRowCount       int    `yaml:"maxRowCount" json:"maxRowCount"`
	AllowRowSelection bool   `yaml:"allowRowSelection" json:"allowRowSelection"`
	ShowRowNumbers    bool   `yaml:"showRowNumbers" json:"showRowNumbers"`

	// Parser overrides the parsing of editor input.
	Parser *datatable.StringParser `yaml:"parser,omitempty" json:"parser,omitempty"`

	Columns []Column `yaml:"columns" json:"columns"`
	// Sort is the initial sort state.
	Sort *Sort `yaml:"sort,omitempty" json:"sort,omitempty"`
}

// Sort references a column by its field.
type Sort struct {
	Column    string                  `yaml:"column" json:"column"`
	Direction datatable.SortDirection `yaml:"direction" json:"direction"`
}

// Parse parses a YAML configuration.
// JSON is valid YAML and can also be parsed.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing table config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseJSONC parses a JSON configuration that may contain
// comments and trailing commas.
func ParseJSONC(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return nil, fmt.Errorf("parsing table config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads a configuration file.
// Files with the extension .json or .jsonc are parsed
// with ParseJSONC, all others with Parse.
func Load(ctx context.Context, file fs.FileReader) (*File, error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, err
	}
	var f *File
	switch strings.ToLower(path.Ext(file.Name())) {
	case ".json", ".jsonc":
		f, err = ParseJSONC(data)
	default:
		f, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Name(), err)
	}
	return f, nil
}

// Validate checks the configuration for consistency.
func (f *File) Validate() error {
	if len(f.Columns) == 0 {
		return fmt.Errorf("no columns")
	}
	if f.MinRowCount < 0 {
		return fmt.Errorf("negative minRowCount %d", f.MinRowCount)
	}
	if f.MaxRowCount > 0 && f.MaxRowCount < f.MinRowCount {
		return fmt.Errorf("maxRowCount %d is less than minRowCount %d", f.MaxRowCount, f.MinRowCount)
	}
	fields := make(map[string]bool, len(f.Columns))
	for i := range f.Columns {
		col := &f.Columns[i]
		if err := col.validate(); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		if fields[col.Field] {
			return fmt.Errorf("column %d: duplicate field %q", i, col.Field)
		}
		fields[col.Field] = true
	}
	if f.Sort != nil {
		index := f.ColumnIndex(f.Sort.Column)
		switch {
		case index < 0:
			return fmt.Errorf("sort column %q not found", f.Sort.Column)
		case !f.Columns[index].Sortable:
			return fmt.Errorf("sort column %q is not sortable", f.Sort.Column)
		case f.Sort.Direction == datatable.SortNone || !f.Sort.Direction.Valid():
			return fmt.Errorf("invalid sort direction %q", f.Sort.Direction)
		}
	}
	return nil
}

// ColumnIndex returns the index of the column with
// the passed field or -1 if there is none.
func (f *File) ColumnIndex(field string) int {
	for i := range f.Columns {
		if f.Columns[i].Field == field {
			return i
		}
	}
	return -1
}

// TableColumns returns the table columns of the configuration.
func (f *File) TableColumns() []datatable.Column[Row] {
	columns := make([]datatable.Column[Row], len(f.Columns))
	for i := range f.Columns {
		columns[i] = f.Columns[i].Column()
	}
	return columns
}

// Apply sets the configured options of config,
// the data and callbacks of config are not changed.
func (f *File) Apply(config *datatable.Config[Row]) {
	config.Title = f.Title
	config.Columns = f.TableColumns()
	config.MinRowCount = f.MinRowCount
	config.MaxRowCount = f.MaxRowCount
	config.AllowRowSelection = f.AllowRowSelection
	config.ShowRowNumbers = f.ShowRowNumbers
	if f.Parser != nil {
		config.Parser = f.Parser
	}
}

// ApplySort applies the configured initial sort state to table.
func (f *File) ApplySort(ctx context.Context, table *datatable.Table[Row]) error {
	if f.Sort == nil {
		return nil
	}
	return table.SortRows(ctx, f.ColumnIndex(f.Sort.Column), f.Sort.Direction)
}
