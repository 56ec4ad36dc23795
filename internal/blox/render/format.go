package render

import (
	"fmt"
	"strings"
)

// Format is the closed set of output dialects blox can emit.
type Format uint8

const (
	// FormatBind emits named/BIND slave zone blocks.
	FormatBind Format = iota
	// FormatNSD emits NSD zone blocks.
	FormatNSD
)

// ErrUnsupportedFormat is returned when a nameserver spec requests a dialect
// other than bind or nsd. Fatal for that nameserver's run only.
var ErrUnsupportedFormat = fmt.Errorf("unsupported output format")

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case FormatBind:
		return "bind"
	case FormatNSD:
		return "nsd"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat converts a configuration string into a Format.
// Accepts: "bind", "nsd" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bind":
		return FormatBind, nil
	case "nsd":
		return FormatNSD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}
