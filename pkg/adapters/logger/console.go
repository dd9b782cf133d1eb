// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
	"github.com/user/yuvenc/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorBlue   = "\033[34m"
)

// runIDLength is how much of a run id is shown in the line prefix.
const runIDLength = 8

// ConsoleLogger writes translated messages to stdout, warnings and errors to stderr.
//
// Lines carry an optional run id and component prefix:
//
//	[1b4e28ba] [driver] submitted frame 3 to enc
type ConsoleLogger struct {
	level     ports.LogLevel
	runID     string
	component string
	color     bool
	out       io.Writer
	errOut    io.Writer
}

// ConsoleOption configures a ConsoleLogger.
type ConsoleOption func(*ConsoleLogger)

// WithWriters sends info and debug lines to out and warnings and errors to errOut.
// Color is turned off since the writers are not terminals.
func WithWriters(out, errOut io.Writer) ConsoleOption {
	return func(l *ConsoleLogger) {
		l.out = out
		l.errOut = errOut
		l.color = false
	}
}

// NewConsole creates a console logger that drops messages below level.
// Color output is enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel, opts ...ConsoleOption) *ConsoleLogger {
	l := &ConsoleLogger{
		level:  level,
		color:  isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	l.log(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	l.log(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	l.log(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a copy that tags lines with component. The run id is kept.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	c := *l
	c.component = component
	return &c
}

// WithRunID returns a copy that tags lines with the first characters of id.
func (l *ConsoleLogger) WithRunID(id string) ports.Logger {
	c := *l
	c.runID = shortRunID(id)
	return &c
}

func shortRunID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > runIDLength {
		return id[:runIDLength]
	}
	return id
}

func (l *ConsoleLogger) prefix() string {
	var b strings.Builder
	if l.runID != "" {
		if l.color {
			fmt.Fprintf(&b, "%s[%s]%s ", colorBlue, l.runID, colorReset)
		} else {
			fmt.Fprintf(&b, "[%s] ", l.runID)
		}
	}
	if l.component != "" {
		if l.color {
			fmt.Fprintf(&b, "%s[%s]%s ", colorCyan, l.component, colorReset)
		} else {
			fmt.Fprintf(&b, "[%s] ", l.component)
		}
	}
	return b.String()
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}

	output := l.prefix() + l10n.F(msg, args...)

	if l.color {
		switch level {
		case ports.LevelDebug:
			output = colorGray + output + colorReset
		case ports.LevelWarn:
			output = colorYellow + output + colorReset
		case ports.LevelError:
			output = colorRed + output + colorReset
		}
	}

	if level >= ports.LevelWarn {
		fmt.Fprintln(l.errOut, output)
	} else {
		fmt.Fprintln(l.out, output)
	}
}
