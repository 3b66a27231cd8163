package datatable

import (
	"fmt"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// DefaultStructFieldNaming matches path segments against the
// "col" struct tag first and the Go field name second,
// and ignores fields tagged with "-".
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:    "col",
	Ignore: "-",
}

// StructFieldNaming defines how the segments of a Column.Field
// path are mapped to struct fields.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will match segments only against
// exported struct field names.
type StructFieldNaming struct {
	// Tag is the struct field tag whose name part
	// is matched against a path segment.
	// If Tag is empty, then only field names are matched.
	Tag string
	// Ignore is the tag value that excludes a field
	// from path resolution.
	Ignore string
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldName returns the name a struct field is addressed by
// or an empty string if the field is ignored.
func (n *StructFieldNaming) StructFieldName(structField reflect.StructField) string {
	if n == nil || n.Tag == "" {
		return structField.Name
	}
	if tag, ok := structField.Tag.Lookup(n.Tag); ok {
		if i := strings.IndexByte(tag, ','); i != -1 {
			tag = tag[:i]
		}
		if n.Ignore != "" && tag == n.Ignore {
			return ""
		}
		if tag != "" {
			return tag
		}
	}
	return structField.Name
}

// Names returns the addressable names of the exported fields of strct
// including the inlined fields of any anonymously embedded structs.
func (n *StructFieldNaming) Names(strct any) []string {
	fields := StructFieldTypes(reflect.TypeOf(strct))
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if name := n.StructFieldName(field); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (n *StructFieldNaming) structField(strct reflect.Value, segment string) reflect.Value {
	fields := StructFieldTypes(strct.Type())
	values := StructFieldValues(strct)
	// Explicit names win over Go field names
	for i, field := range fields {
		if n.StructFieldName(field) == segment {
			return values[i]
		}
	}
	for i, field := range fields {
		if field.Name == segment && n.StructFieldName(field) != "" {
			return values[i]
		}
	}
	return reflect.Value{}
}

// ResolveField returns the value addressed by the dot separated path
// within row. Path segments address struct fields (see StructFieldNaming),
// string keyed map entries, or slice and array elements by index.
// Pointers and interfaces are dereferenced along the way.
// The result is false if any segment can't be resolved.
func (n *StructFieldNaming) ResolveField(row any, path string) (value any, ok bool) {
	val := reflect.ValueOf(row)
	if path == "" {
		return row, val.IsValid()
	}
	for _, segment := range strings.Split(path, ".") {
		for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
			if val.IsNil() {
				return nil, false
			}
			val = val.Elem()
		}
		switch val.Kind() {
		case reflect.Struct:
			val = n.structField(val, segment)
		case reflect.Map:
			if val.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			val = val.MapIndex(reflect.ValueOf(segment).Convert(val.Type().Key()))
		case reflect.Slice, reflect.Array:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= val.Len() {
				return nil, false
			}
			val = val.Index(i)
		default:
			return nil, false
		}
		if !val.IsValid() {
			return nil, false
		}
	}
	if !val.CanInterface() {
		return nil, false
	}
	return val.Interface(), true
}

// StructFieldTypes returns the exported fields of a struct type
// including the inlined fields of any anonymously embedded structs.
func StructFieldTypes(structType reflect.Type) (fields []reflect.StructField) {
	if structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous && field.Type.Kind() == reflect.Struct:
			fields = append(fields, StructFieldTypes(field.Type)...)
		case token.IsExported(field.Name):
			fields = append(fields, field)
		}
	}
	return fields
}

// StructFieldValues returns the reflect.Value of exported struct fields
// including the inlined fields of any anonymously embedded structs.
func StructFieldValues(structValue reflect.Value) (values []reflect.Value) {
	if structValue.Kind() == reflect.Ptr {
		structValue = structValue.Elem()
	}
	structType := structValue.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		switch {
		case field.Anonymous && field.Type.Kind() == reflect.Struct:
			values = append(values, StructFieldValues(structValue.Field(i))...)
		case token.IsExported(field.Name):
			values = append(values, structValue.Field(i))
		}
	}
	return values
}
