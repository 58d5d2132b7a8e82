package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"zillow-save-ratio/browser"
	"zillow-save-ratio/config"
	"zillow-save-ratio/services"
	"zillow-save-ratio/utils"
)

const usage = `usage:
  zillow-save-ratio [watch]                          browse in Chrome, badge every listing
  zillow-save-ratio annotate <in.html> <out.html> [page-url]
                                                     badge a saved listing page offline`

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	mode := "watch"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	var err error
	switch mode {
	case "watch":
		err = runWatch(ctx, cfg, logger)
	case "annotate":
		err = runAnnotate(ctx, cfg, logger, os.Args[2:])
	default:
		stop()
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	stop()

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func runWatch(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Zillow Save-Ratio starting ===")
	logger.Info("Config — nav: %v | scrape: %d×%v | dock: %d×%v | headless: %v",
		cfg.NavInterval, cfg.ScrapeAttempts, cfg.ScrapeInterval, cfg.DockAttempts, cfg.DockInterval, cfg.Headless)

	page, err := browser.Launch(cfg, logger)
	if err != nil {
		return err
	}
	defer page.Close()

	if err := page.Open(ctx, cfg.StartURL); err != nil {
		return err
	}

	watcher, err := services.NewWatcher(page, services.NewAugmenter(cfg, logger), cfg, logger)
	if err != nil {
		return err
	}

	// Stop watching when the user closes the tab or the browser.
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-page.Done():
			logger.Info("[browser] Tab closed")
			cancel()
		case <-watchCtx.Done():
		}
	}()

	if err := watcher.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("=== Zillow Save-Ratio stopped ===")
	return nil
}

func runAnnotate(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	inPath, outPath := args[0], args[1]
	pageURL := "file://" + inPath
	if abs, err := filepath.Abs(inPath); err == nil {
		pageURL = "file://" + abs
	}
	if len(args) == 3 {
		pageURL = args[2]
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("annotate: open input: %w", err)
	}
	page, err := browser.NewDocumentPage(pageURL, in)
	in.Close()
	if err != nil {
		return err
	}

	badge, bootErr := services.NewAugmenter(cfg, logger).Boot(ctx, page)
	if bootErr != nil && !errors.Is(bootErr, services.ErrMetricsNotFound) {
		return fmt.Errorf("annotate: %w", bootErr)
	}
	services.NewReporter(os.Stdout).Print(pageURL, badge)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("annotate: create output dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("annotate: create output %q: %w", outPath, err)
	}
	if err := page.Render(out); err != nil {
		out.Close()
		return fmt.Errorf("annotate: write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("annotate: close output: %w", err)
	}

	if bootErr != nil {
		logger.Warn("No metrics found in %s, output written unchanged", inPath)
		return nil
	}
	logger.Info("Badged page written to %s", outPath)
	return nil
}
