package tableconfig

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/powerhouse-inc/go-datatable"
)

// Column is the declarative configuration of a table column.
type Column struct {
	Field    string               `yaml:"field" json:"field"`
	Title    string               `yaml:"title,omitempty" json:"title,omitempty"`
	Type     datatable.ColumnType `yaml:"type,omitempty" json:"type,omitempty"`
	Editable bool                 `yaml:"editable,omitempty" json:"editable,omitempty"`
	Sortable bool                 `yaml:"sortable,omitempty" json:"sortable,omitempty"`

	// Format is a fmt.Sprintf format for the cell values.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	Required  bool     `yaml:"required,omitempty" json:"required,omitempty"`
	MaxLength int      `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Min       *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

func (c *Column) validate() error {
	switch {
	case c.Field == "":
		return errors.New("missing field")
	case c.MaxLength < 0:
		return fmt.Errorf("negative maxLength %d", c.MaxLength)
	case c.Min != nil && c.Max != nil && *c.Min > *c.Max:
		return fmt.Errorf("min %v is greater than max %v", *c.Min, *c.Max)
	case (c.Min != nil || c.Max != nil) && c.Type != datatable.ColumnTypeNumber:
		return fmt.Errorf("min and max require a number column, not %s", c.Type)
	case c.Format != "" && !strings.Contains(c.Format, "%"):
		return fmt.Errorf("format %q has no verb", c.Format)
	}
	return nil
}

func (c *Column) hasRules() bool {
	return c.Required || c.MaxLength > 0 || c.Min != nil || c.Max != nil
}

// Column returns the table column of the configuration.
func (c *Column) Column() datatable.Column[Row] {
	col := datatable.Column[Row]{
		Field:    c.Field,
		Title:    c.Title,
		Type:     c.Type,
		Editable: c.Editable,
		Sortable: c.Sortable,
	}
	if c.Format != "" {
		col.ValueFormatter = datatable.ValueFormatterFunc(datatable.PrintfFormatter(c.Format))
	}
	if c.hasRules() {
		rules := *c
		col.Validate = func(ctx context.Context, value any, cell *datatable.CellContext[Row]) []string {
			return rules.Check(value)
		}
	}
	return col
}

// Check returns the validation errors of a cell value.
func (c *Column) Check(value any) (errs []string) {
	if datatable.IsEmptyValue(value) {
		if c.Required {
			errs = append(errs, "value is required")
		}
		return errs
	}
	if c.MaxLength > 0 {
		if n := utf8.RuneCountInString(datatable.FormatValue(value)); n > c.MaxLength {
			errs = append(errs, fmt.Sprintf("must be at most %d characters", c.MaxLength))
		}
	}
	if c.Min != nil || c.Max != nil {
		f, ok := number(value)
		switch {
		case !ok:
			errs = append(errs, "must be a number")
		case c.Min != nil && f < *c.Min:
			errs = append(errs, fmt.Sprintf("must be at least %v", *c.Min))
		case c.Max != nil && f > *c.Max:
			errs = append(errs, fmt.Sprintf("must be at most %v", *c.Max))
		}
	}
	return errs
}

func number(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	return 0, false
}
