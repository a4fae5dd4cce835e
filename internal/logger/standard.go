package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// StandardLogger provides a baseline logger implementation backed by a single writer.
type StandardLogger struct {
	mu        sync.Mutex
	level     Level
	output    io.Writer
	formatter Formatter
	fields    []Field
}

// NewStandardLogger constructs a StandardLogger configured by the provided options.
func NewStandardLogger(options ...Option) *StandardLogger {
	log := &StandardLogger{
		level:     LevelInfo,
		output:    os.Stdout,
		formatter: &TextFormatter{TimestampFormat: "15:04:05"},
	}

	for _, opt := range options {
		if opt != nil {
			opt(log)
		}
	}

	if log.output == nil {
		log.output = os.Stdout
	}
	if log.formatter == nil {
		log.formatter = &TextFormatter{TimestampFormat: "15:04:05"}
	}

	return log
}

// Option configures a StandardLogger during construction.
type Option func(*StandardLogger)

// WithLevel sets the minimum Level that will be emitted by the logger.
func WithLevel(level Level) Option {
	return func(l *StandardLogger) {
		l.level = level
	}
}

// WithOutput redirects log output to the provided writer.
func WithOutput(w io.Writer) Option {
	return func(l *StandardLogger) {
		l.output = w
	}
}

// WithFormatter overrides the formatter used to render log entries.
func WithFormatter(formatter Formatter) Option {
	return func(l *StandardLogger) {
		l.formatter = formatter
	}
}

// WithFields registers default fields for all subsequent log entries.
func WithFields(fields ...Field) Option {
	return func(l *StandardLogger) {
		l.fields = append(l.fields, fields...)
	}
}

// Debug emits a debug level log entry.
func (l *StandardLogger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info emits an info level log entry.
func (l *StandardLogger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn emits a warn level log entry.
func (l *StandardLogger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error emits an error level log entry.
func (l *StandardLogger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Success emits a success level log entry.
func (l *StandardLogger) Success(format string, args ...interface{}) {
	l.log(LevelSuccess, format, args...)
}

// With derives a new logger enriched with the provided fields.
func (l *StandardLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	child := &StandardLogger{
		level:     l.level,
		output:    l.output,
		formatter: l.formatter,
		fields:    append(append([]Field{}, l.fields...), fields...),
	}
	l.mu.Unlock()
	return child
}

// SetLevel adjusts the minimum log level emitted.
func (l *StandardLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *StandardLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *StandardLogger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := &Entry{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		Fields:  append([]Field{}, l.fields...),
	}

	l.write(entry)
}

func (l *StandardLogger) write(entry *Entry) {
	data, err := l.formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to format log entry: %v\n", err)
		return
	}

	if _, err := l.output.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log entry: %v\n", err)
	}
}

// Formatter converts log entries to their textual representation.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Entry represents a single log record.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
}

// TextFormatter renders log entries using a plain textual format.
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// Format converts the Entry into a textual representation.
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "15:04:05"
	}

	var timestamp string
	if !f.DisableTimestamp {
		timestamp = entry.Time.Format(timestampFormat)
	}

	return formatEntry(entry, timestamp, entry.Level.String(), nil), nil
}

type fieldFormatter func(Field) string

func defaultFieldFormatter(field Field) string {
	return fmt.Sprintf("%s=%v", field.Key, field.Value)
}

func formatEntry(entry *Entry, timestamp, levelText string, formatter fieldFormatter) []byte {
	if formatter == nil {
		formatter = defaultFieldFormatter
	}

	var buf bytes.Buffer

	if timestamp != "" {
		buf.WriteString(timestamp)
		buf.WriteString(" ")
	}

	buf.WriteString("[")
	buf.WriteString(levelText)
	buf.WriteString("] ")
	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		buf.WriteString(" ")
		buf.WriteString(formatter(field))
	}

	buf.WriteString("\n")
	return buf.Bytes()
}
