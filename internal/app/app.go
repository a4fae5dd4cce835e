package app

import (
	"context"

	"supertonic-fetch/internal/fetcher"
	"supertonic-fetch/internal/logger"
	"supertonic-fetch/internal/manifest"
	"supertonic-fetch/internal/ui"
)

// App wires the manifest, fetcher and terminal UI together.
type App struct {
	man     *manifest.Manifest
	logger  logger.Logger
	fetcher *fetcher.Fetcher
	printer *ui.Printer
}

// New constructs the application from the embedded manifest.
func New(log logger.Logger) (*App, error) {
	man, err := manifest.Embedded()
	if err != nil {
		return nil, err
	}

	f, err := fetcher.New(man, log, fetcher.WithReporter(fetcher.NewConsoleReporter(nil)))
	if err != nil {
		return nil, err
	}

	return &App{
		man:     man,
		logger:  log,
		fetcher: f,
		printer: ui.NewPrinter(),
	}, nil
}

// Run attempts every manifest entry and reports the outcome. Per-entry
// failures are tolerated: Run returns nil even when some assets are
// missing afterwards, and callers must verify completeness themselves.
func (a *App) Run(ctx context.Context) error {
	a.printer.PrintBanner()
	a.logger.Info("Ensuring %d assets under %s", len(a.man.Files), a.man.RootDir)

	sum := a.fetcher.FetchAll(ctx)

	a.printer.PrintSummary(a.man.Files, sum)
	if !sum.Complete() {
		a.logger.Warn("%d of %d assets could not be downloaded", len(sum.Failed), sum.Attempted())
	}

	return nil
}
