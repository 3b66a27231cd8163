package datatable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Parser converts the text input of a cell editor
// into values of the column types.
type Parser interface {
	ParseInt(string) (int64, error)
	ParseFloat(string) (float64, error)
	ParseBool(string) (bool, error)
	// IsNil returns true if the input represents no value.
	IsNil(string) bool
}

var (
	_ Parser = new(StringParser)

	defaultParser = NewStringParser()
)

// StringParser is a configurable Parser
// using strconv with some leniency for user input.
//
// Example usage:
//
//	parser := NewStringParser()
//	parser.TrueStrings = append(parser.TrueStrings, "on")
//	parser.FalseStrings = append(parser.FalseStrings, "off")
//	b, _ := parser.ParseBool("on") // true
//	f, _ := parser.ParseFloat("3,14") // 3.14
type StringParser struct {
	// TrueStrings lists all strings that should be parsed as boolean true.
	TrueStrings []string `json:"trueStrings" yaml:"trueStrings"`
	// FalseStrings lists all strings that should be parsed as boolean false.
	FalseStrings []string `json:"falseStrings" yaml:"falseStrings"`
	// NilStrings lists all strings that represent an empty cell.
	NilStrings []string `json:"nilStrings" yaml:"nilStrings"`
}

// NewStringParser returns a StringParser with defaults
// for English boolean words and empty input as nil.
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "True", "TRUE", "yes", "Yes", "YES", "1"},
		FalseStrings: []string{"false", "False", "FALSE", "no", "No", "NO", "0"},
		NilStrings:   []string{""},
	}
}

func (p *StringParser) ParseInt(str string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(str), 10, 64)
}

func (p *StringParser) ParseFloat(str string) (float64, error) {
	str = strings.TrimSpace(str)
	f, err := strconv.ParseFloat(str, 64)
	if err == nil {
		return f, nil
	}
	// Accept a single comma as decimal separator
	if strings.Count(str, ",") == 1 && !strings.Contains(str, ".") {
		if f, e := strconv.ParseFloat(strings.ReplaceAll(str, ",", "."), 64); e == nil {
			return f, nil
		}
	}
	return 0, err
}

func (p *StringParser) ParseBool(str string) (bool, error) {
	str = strings.TrimSpace(str)
	switch {
	case slices.Contains(p.TrueStrings, str):
		return true, nil
	case slices.Contains(p.FalseStrings, str):
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

func (p *StringParser) IsNil(str string) bool {
	return slices.Contains(p.NilStrings, strings.TrimSpace(str))
}

// ParseInput parses the text input of a cell editor
// for a column of the passed type.
// Text input is returned unchanged, number input
// as int64 if it's an integer or else as float64.
// Number and boolean input that is nil per the parser
// returns a nil value.
func ParseInput(parser Parser, colType ColumnType, input string) (any, error) {
	if colType == ColumnTypeText {
		return input, nil
	}
	if parser.IsNil(input) {
		return nil, nil
	}
	switch colType {
	case ColumnTypeNumber:
		if i, err := parser.ParseInt(input); err == nil {
			return i, nil
		}
		f, err := parser.ParseFloat(input)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", input)
		}
		return f, nil
	case ColumnTypeBoolean:
		b, err := parser.ParseBool(input)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", input)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported %s", colType)
}
