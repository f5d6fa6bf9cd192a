package logger

import (
	"fmt"
	"io"
	"log"
	"strings"

	"nkn-funder/pkg/common/iface"
)

type BasicLogger struct {
	verbose bool
	out     *log.Logger
}

func NewLogger(verbose bool) *BasicLogger {
	return &BasicLogger{
		verbose: verbose,
		out:     log.Default(),
	}
}

// NewLoggerWithWriter writes to w instead of the standard logger's output
func NewLoggerWithWriter(w io.Writer, verbose bool) *BasicLogger {
	return &BasicLogger{
		verbose: verbose,
		out:     log.New(w, "", log.LstdFlags),
	}
}

func (l *BasicLogger) printLines(prefix string, msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	lines := strings.Split(strings.TrimSuffix(formatted, "\n"), "\n")
	for _, line := range lines {
		l.out.Printf("%s%s", prefix, line)
	}
}

func (l *BasicLogger) Title(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	l.out.Printf("\n%s\n", formatted)
}

func (l *BasicLogger) Info(msg string, args ...any) {
	l.printLines("", msg, args...)
}

func (l *BasicLogger) Warn(msg string, args ...any) {
	l.printLines("[Warning] ", msg, args...)
}

func (l *BasicLogger) Error(msg string, args ...any) {
	l.printLines("[Error] ", msg, args...)
}

func (l *BasicLogger) Debug(msg string, args ...any) {
	// skip debug when !verbose
	if !l.verbose {
		return
	}
	l.printLines("Debug: ", msg, args...)
}

// Actor-based methods
func (l *BasicLogger) TitleWithActor(actor iface.Actor, msg string, args ...any) {
	l.Title(msg, args...)
}

func (l *BasicLogger) InfoWithActor(actor iface.Actor, msg string, args ...any) {
	l.Info(msg, args...)
}

func (l *BasicLogger) WarnWithActor(actor iface.Actor, msg string, args ...any) {
	l.Warn(msg, args...)
}

func (l *BasicLogger) ErrorWithActor(actor iface.Actor, msg string, args ...any) {
	l.Error(msg, args...)
}

func (l *BasicLogger) DebugWithActor(actor iface.Actor, msg string, args ...any) {
	l.Debug(msg, args...)
}
