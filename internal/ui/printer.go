package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"supertonic-fetch/internal/fetcher"
)

// Printer renders the terminal UI fragments used by the CLI.
type Printer struct {
	colorEnabled bool
	success      *color.Color
	info         *color.Color
	warn         *color.Color
	error        *color.Color
}

// NewPrinter constructs a Printer with colour automatically enabled for TTY outputs.
func NewPrinter() *Printer {
	enabled := supportsColor(os.Stdout) && os.Getenv("NO_COLOR") == ""

	p := &Printer{
		colorEnabled: enabled,
		success:      color.New(color.FgGreen, color.Bold),
		info:         color.New(color.FgBlue, color.Bold),
		warn:         color.New(color.FgYellow, color.Bold),
		error:        color.New(color.FgRed, color.Bold),
	}

	if !enabled {
		p.success.DisableColor()
		p.info.DisableColor()
		p.warn.DisableColor()
		p.error.DisableColor()
	}

	return p
}

// PrintBanner renders the application banner.
func (p *Printer) PrintBanner() {
	lines := []string{
		"=========================================================",
		"  supertonic-fetch: Supertonic TTS asset provisioning",
		"  Source: huggingface.co/Supertone/supertonic",
		"=========================================================",
	}

	for _, line := range lines {
		p.info.Println(line)
	}
}

// PrintSeparator prints a repeated character separator.
func (p *Printer) PrintSeparator(char string, length int) {
	if length <= 0 {
		return
	}
	fmt.Println(strings.Repeat(char, length))
}

// PrintEntryStatus renders the status indicator line for one manifest entry.
func (p *Printer) PrintEntryStatus(entry string, width int, status fetcher.EntryStatus) {
	var (
		mark string
		text string
	)

	switch status {
	case fetcher.StatusFetched:
		mark = p.success.Sprint("✓")
		text = "fetched"
	case fetcher.StatusSkipped:
		mark = p.info.Sprint("-")
		text = "already present"
	case fetcher.StatusFailed:
		mark = p.error.Sprint("✕")
		text = "failed"
	default:
		mark = "?"
		text = "unknown"
	}

	fmt.Printf("[ %s ] %s (%s)\n", mark, runewidth.FillRight(entry, width), text)
}

// PrintSummary renders the per-entry outcome table followed by the totals line.
func (p *Printer) PrintSummary(entries []string, sum fetcher.Summary) {
	p.PrintSeparator("-", 57)

	width := 0
	for _, entry := range entries {
		if w := runewidth.StringWidth(entry); w > width {
			width = w
		}
	}

	for _, entry := range entries {
		p.PrintEntryStatus(entry, width, sum.Status(entry))
	}

	p.PrintSeparator("-", 57)

	totals := fmt.Sprintf("%d fetched, %d skipped, %d failed",
		len(sum.Fetched), len(sum.Skipped), len(sum.Failed))
	if sum.Complete() {
		p.success.Printf("All %d assets present. %s\n", sum.Attempted(), totals)
		return
	}
	p.warn.Printf("Asset set incomplete. %s\n", totals)
}

func supportsColor(w *os.File) bool {
	return term.IsTerminal(int(w.Fd()))
}
