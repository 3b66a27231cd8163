// Package csvtable loads table rows from CSV data with
// charset and separator detection and exports table views as CSV.
package csvtable

import (
	"errors"
	"fmt"
)

// Format describes the encoding and structural format of CSV data.
type Format struct {
	// Encoding of the CSV data like "UTF-8", "UTF-16LE",
	// "ISO 8859-1", "Windows 1252", or "Macintosh".
	Encoding string `json:"encoding" yaml:"encoding"`
	// Separator is the single character field delimiter.
	Separator string `json:"separator" yaml:"separator"`
	// Newline is one of "\n", "\r\n", or "\n\r".
	Newline string `json:"newline" yaml:"newline"`
}

// NewFormat returns a UTF-8 Format with
// the passed separator and "\r\n" newlines.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

func (f *Format) separator() rune {
	return rune(f.Separator[0])
}

// FormatDetectionConfig configures the detection of CSV formats.
type FormatDetectionConfig struct {
	// Encodings to test in priority order.
	Encodings []string `json:"encodings" yaml:"encodings"`
	// EncodingTests are strings with characters that are encoded
	// differently by the tested encodings.
	// The first encoding that decodes the data to contain
	// one of the tests wins.
	EncodingTests []string `json:"encodingTests" yaml:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}
