package csvtable

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/domonda/go-types/charset"
	fs "github.com/ungerik/go-fs"
)

// Parse parses CSV data detecting its Format.
// A nil config uses NewDefaultFormatDetectionConfig.
//
// The encoding is detected with the config's EncodingTests,
// the separator is either declared by a "sep=X" first line
// or the most frequent of comma, semicolon and tab.
func Parse(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format, text, err := detectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	rows, err = parseText(text, format)
	if err != nil {
		return nil, format, err
	}
	return rows, format, nil
}

// ParseWithFormat parses CSV data with a known Format.
func ParseWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	if err = format.Validate(); err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	text := string(sanitizeUTF8(data))
	first, rest, _ := strings.Cut(text, "\n")
	if sep := parseSepHeaderLine(first); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator %q in header line is different from Format.Separator %q", sep, format.Separator)
		}
		text = rest
	}
	return parseText(text, format)
}

// ReadFile reads and parses a CSV file, see Parse.
func ReadFile(ctx context.Context, file fs.FileReader, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, format, err = Parse(data, config)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing %s: %w", file.Name(), err)
	}
	return rows, format, nil
}

func detectFormat(data []byte, config *FormatDetectionConfig) (format *Format, text string, err error) {
	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, "", err
		}
		encodings = append(encodings, enc)
	}
	format = new(Format)
	data = charset.TrimBOM(data, charset.BOMUTF8)
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, "", err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	text = string(sanitizeUTF8(data))

	switch {
	case strings.Contains(text, "\r\n"):
		format.Newline = "\r\n"
	case strings.Contains(text, "\n\r"):
		format.Newline = "\n\r"
	default:
		format.Newline = "\n"
	}

	first, rest, _ := strings.Cut(text, "\n")
	if sep := parseSepHeaderLine(first); sep != "" {
		format.Separator = sep
		return format, rest, nil
	}

	var commas, semicolons, tabs int
	for line := range strings.Lines(text) {
		commas += strings.Count(line, ",")
		semicolons += strings.Count(line, ";")
		tabs += strings.Count(line, "\t")
	}
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, text, nil
}

// parseSepHeaderLine returns the separator X of a
// first line "sep=X" as written by Excel, or an empty string.
func parseSepHeaderLine(line string) string {
	line = strings.Trim(line, "\r\n")
	if len(line) == 7 && line[0] == '"' && line[6] == '"' {
		line = line[1:6]
	}
	if len(line) != 5 || !(strings.HasPrefix(line, "sep=") || strings.HasPrefix(line, "SEP=")) {
		return ""
	}
	return line[4:]
}

func parseText(text string, format *Format) (rows [][]string, err error) {
	if format.Newline == "\n\r" {
		text = strings.ReplaceAll(text, "\n\r", "\n")
	}
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = format.separator()
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// sanitizeUTF8 replaces the Unicode replacement character
// and non-breaking spaces with normal spaces.
func sanitizeUTF8(data []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			case '\uFFFD', '\u00A0':
				return ' '
			default:
				return r
			}
		},
		data,
	)
}
