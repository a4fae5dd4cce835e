package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColoredLogger renders log messages using colours when supported by the output writer.
type ColoredLogger struct {
	*StandardLogger
}

// NewColoredLogger returns a logger configured for colourful terminal output when possible.
func NewColoredLogger(options ...Option) *ColoredLogger {
	std := NewStandardLogger(options...)

	writer := std.output
	if writer == nil {
		writer = os.Stdout
	}

	std.formatter = &ColoredFormatter{
		timestampFormat: "15:04:05",
		colors: map[Level]*color.Color{
			LevelDebug:   color.New(color.FgCyan),
			LevelInfo:    color.New(color.FgBlue),
			LevelSuccess: color.New(color.FgGreen),
			LevelWarn:    color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed),
		},
		enableColors: supportsColor(writer) && os.Getenv("NO_COLOR") == "",
	}

	return &ColoredLogger{StandardLogger: std}
}

// ColoredFormatter renders log entries with coloured levels when enabled.
type ColoredFormatter struct {
	timestampFormat string
	colors          map[Level]*color.Color
	enableColors    bool
}

// Format converts the Entry into a coloured textual representation.
func (f *ColoredFormatter) Format(entry *Entry) ([]byte, error) {
	timestampFormat := f.timestampFormat
	if timestampFormat == "" {
		timestampFormat = "15:04:05"
	}

	level := entry.Level.String()
	if f.enableColors {
		if c := f.colors[entry.Level]; c != nil {
			level = c.Sprint(level)
		}
	}

	faint := color.New(color.Faint)
	fieldFormatter := func(field Field) string {
		fieldText := fmt.Sprintf("%s=%v", field.Key, field.Value)
		if f.enableColors {
			return faint.Sprint(fieldText)
		}
		return fieldText
	}

	return formatEntry(entry, entry.Time.Format(timestampFormat), level, fieldFormatter), nil
}

func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
