package fetcher

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Reporter receives download lifecycle events.
type Reporter interface {
	OnStart(entry string, totalSize int64)
	OnComplete(entry string, written int64, elapsed time.Duration)
}

// NoopReporter discards all download events.
type NoopReporter struct{}

func (*NoopReporter) OnStart(string, int64)                   {}
func (*NoopReporter) OnComplete(string, int64, time.Duration) {}

// ConsoleReporter prints one status line per download event (defaults to stdout).
type ConsoleReporter struct {
	writer io.Writer
}

// NewConsoleReporter constructs a ConsoleReporter.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleReporter{writer: w}
}

func (c *ConsoleReporter) OnStart(entry string, totalSize int64) {
	if totalSize > 0 {
		fmt.Fprintf(c.writer, "  %s: starting download (%.2f MB)\n", entry, float64(totalSize)/1024/1024)
		return
	}
	fmt.Fprintf(c.writer, "  %s: starting download\n", entry)
}

func (c *ConsoleReporter) OnComplete(entry string, written int64, elapsed time.Duration) {
	speed := 0.0
	if elapsed.Seconds() > 0 {
		speed = float64(written) / elapsed.Seconds() / 1024 / 1024
	}
	fmt.Fprintf(c.writer, "  %s: done (%.2f MB, %.2f MB/s)\n", entry, float64(written)/1024/1024, speed)
}
