package datatable

import (
	"reflect"
	"strings"
	"unicode"
)

// SpacePascalCase inserts spaces before upper case
// characters within PascalCase like names.
// It also replaces underscore '_' characters with spaces.
// Used to derive a column title from a field path
// when Column.Title is empty.
func SpacePascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	lastWasUpper := true
	lastWasSpace := true
	for _, r := range name {
		if r == '_' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasUpper = false
			lastWasSpace = true
			continue
		}
		isUpper := unicode.IsUpper(r)
		if isUpper && !lastWasUpper && !lastWasSpace {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		lastWasUpper = isUpper
		lastWasSpace = unicode.IsSpace(r)
	}
	return strings.TrimSpace(b.String())
}

// ValueIsNil return true if passed reflect.Value
// is not valid, nil (of a type that can be nil),
// or is of type struct{}
func ValueIsNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return val.IsNil()
	case reflect.Struct:
		if t := val.Type(); t.NumField() == 0 && t.NumMethod() == 0 {
			// Treat a value of type struct{} like nil
			return true
		}
	}
	return false
}

// IsEmptyValue returns true for nil values, nil pointers
// and empty strings, including pointers to empty strings.
//
// Empty values are sorted to the end of a column
// regardless of the sort direction and an empty value
// typed into the insertion row does not create a row.
func IsEmptyValue(value any) bool {
	val := reflect.ValueOf(value)
	for {
		if ValueIsNil(val) {
			return true
		}
		if val.Kind() != reflect.Ptr && val.Kind() != reflect.Interface {
			break
		}
		val = val.Elem()
	}
	return val.Kind() == reflect.String && val.Len() == 0
}

// derefValue dereferences pointers and interfaces
// until a non-pointer value or nil is reached.
func derefValue(value any) any {
	val := reflect.ValueOf(value)
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if !val.IsValid() {
		return nil
	}
	return val.Interface()
}
