package output

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by ParseFormat for names outside the closed format set.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a result table is emitted.
type Format int

const (
	// FormatPretty prints a bordered table to stdout.
	FormatPretty Format = iota

	// FormatFile writes a CSV file to the results directory.
	FormatFile

	// FormatPaged shows the table in a scrollable terminal pager.
	FormatPaged

	// FormatJSON prints the table as JSON.
	FormatJSON

	// FormatMarkdown prints the table as a Markdown document.
	FormatMarkdown
)

// String returns the command-line name of the format.
func (f Format) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatFile:
		return "file"
	case FormatPaged:
		return "paged"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Formats returns every format in declaration order.
func Formats() []Format {
	return []Format{FormatPretty, FormatFile, FormatPaged, FormatJSON, FormatMarkdown}
}

// FormatNames returns the command-line names of every format.
func FormatNames() []string {
	formats := Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return names
}

// ParseFormat converts a command-line name into a Format.
// The empty string selects FormatPretty.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatPretty, nil
	}
	for _, f := range Formats() {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid formats: %v)", ErrUnknownFormat, name, FormatNames())
}
