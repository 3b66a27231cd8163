package datatable

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Formatter converts a cell value to its string representation.
// Returns errors.ErrUnsupported if the formatter doesn't support
// the value's type so that the next formatter can be tried.
type Formatter interface {
	Format(reflect.Value) (string, error)
}

// FormatterFunc implements Formatter for a function.
type FormatterFunc func(reflect.Value) (string, error)

func (f FormatterFunc) Format(v reflect.Value) (string, error) {
	return f(v)
}

// PrintfFormatter implements Formatter by calling
// fmt.Sprintf with this type's string value as format.
// Nil values are formatted as empty string.
type PrintfFormatter string

func (format PrintfFormatter) Format(v reflect.Value) (string, error) {
	if ValueIsNil(v) {
		return "", nil
	}
	return fmt.Sprintf(string(format), v.Interface()), nil
}

// TryFormatters returns the result of the first Formatter
// that does not return errors.ErrUnsupported.
type TryFormatters []Formatter

func (formatters TryFormatters) Format(v reflect.Value) (string, error) {
	for _, f := range formatters {
		str, err := f.Format(v)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, err
		}
	}
	return "", errors.ErrUnsupported
}

// ValueFormatterFunc adapts a Formatter to the signature
// of Column.ValueFormatter. Values the formatter fails
// to format are formatted by FormatValue.
func ValueFormatterFunc(f Formatter) func(value any) string {
	return func(value any) string {
		str, err := f.Format(reflect.ValueOf(value))
		if err != nil {
			return FormatValue(value)
		}
		return str
	}
}

// FormatValue is the default formatting of cell values.
// Empty values are formatted as empty string,
// floats without trailing zeros, and times as RFC 3339.
func FormatValue(value any) string {
	value = derefValue(value)
	switch x := value.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	return fmt.Sprint(value)
}
