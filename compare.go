package datatable

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// CompareValues is the default comparator of non-empty cell values.
//
// Numbers of any Go number type are compared numerically,
// booleans with false before true, times chronologically,
// and strings case insensitive with the case sensitive
// order as tie breaker.
// Values of different kinds are compared by their
// formatted strings.
func CompareValues(a, b any) int {
	a, b = derefValue(a), derefValue(b)
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	switch x := a.(type) {
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			return compareStrings(x, y)
		}
	}
	return compareStrings(FormatValue(a), FormatValue(b))
}

func compareStrings(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// ValuesEqual returns true if a and b are equal cell values.
// Numbers are compared numerically independent of their Go type,
// so the int64 parsed from editor input equals an int row value.
func ValuesEqual(a, b any) bool {
	a, b = derefValue(a), derefValue(b)
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return fa == fb
		}
	}
	if IsEmptyValue(a) && IsEmptyValue(b) {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// sameRow returns true if a and b are the same row,
// by reference for pointer and map rows that are not
// copies of each other, else by deep equality.
func sameRow[T any](a, b T) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsValid() && vb.IsValid() && va.Kind() == vb.Kind() {
		switch va.Kind() {
		case reflect.Pointer, reflect.Map:
			if va.Pointer() == vb.Pointer() {
				return true
			}
		}
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(value any) (float64, bool) {
	val := reflect.ValueOf(value)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return val.Float(), true
	}
	return 0, false
}

// compareColumnValues orders a and b with empty values last
// for both directions. Only non-empty values are passed to
// the column's RowComparator.
func compareColumnValues[T any](column *Column[T], a, b any, rowA, rowB T, direction SortDirection) int {
	emptyA, emptyB := IsEmptyValue(a), IsEmptyValue(b)
	switch {
	case emptyA && emptyB:
		return 0
	case emptyA:
		return 1
	case emptyB:
		return -1
	}
	var c int
	if column.RowComparator != nil {
		c = column.RowComparator(a, b, rowA, rowB)
	} else {
		c = CompareValues(a, b)
	}
	if direction == SortDescending {
		return -c
	}
	return c
}

func formatSortInfo(info *SortInfo) string {
	if info == nil {
		return "unsorted"
	}
	return fmt.Sprintf("column %d %s", info.ColumnIndex, info.Direction)
}
