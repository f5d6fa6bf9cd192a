package logger

import (
	"fmt"

	"nkn-funder/pkg/common/iface"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New returns the logger for the requested output format. JSON output goes through
// zap, text output is the plain logger with actor colors.
func New(format string, verbose bool) (iface.Logger, error) {
	switch format {
	case "", FormatJSON:
		return NewZapLogger(verbose), nil
	case FormatText:
		return NewColoredLogger(NewLogger(verbose)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected %q or %q)", format, FormatJSON, FormatText)
	}
}
