package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"zillow-save-ratio/config"
	"zillow-save-ratio/models"
	"zillow-save-ratio/utils"
)

// navigateTimeout bounds the initial page load, which is much slower than
// the DOM reads and writes done while watching.
const navigateTimeout = 60 * time.Second

// ChromePage is a live Chrome tab driven over the DevTools protocol.
type ChromePage struct {
	logger  *utils.Logger
	timeout time.Duration

	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// Launch starts Chrome and opens a blank tab. The window is visible unless
// cfg.Headless is set, so the user can browse listings in it.
func Launch(cfg *config.Config, logger *utils.Logger) (*ChromePage, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[browser] Using browser binary: %s", displayBin(chromeBin))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1400, 1000),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// The first Run starts the browser process.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start chrome: %w", err)
	}

	timeout := cfg.ActionTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &ChromePage{
		logger:      logger,
		timeout:     timeout,
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Open navigates the tab to pageURL and waits for the load event.
func (p *ChromePage) Open(ctx context.Context, pageURL string) error {
	p.logger.Info("[browser] Opening %s", pageURL)
	if err := p.runWithin(ctx, navigateTimeout, chromedp.Navigate(pageURL)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	return nil
}

// Done is closed when the tab or the browser goes away.
func (p *ChromePage) Done() <-chan struct{} {
	return p.ctx.Done()
}

// Close shuts the tab and the browser process.
func (p *ChromePage) Close() {
	p.cancelTab()
	p.cancelAlloc()
}

func (p *ChromePage) Location(ctx context.Context) (string, error) {
	var href string
	if err := p.run(ctx, chromedp.Location(&href)); err != nil {
		return "", fmt.Errorf("browser: location: %w", err)
	}
	return href, nil
}

func (p *ChromePage) Snapshot(ctx context.Context) (*goquery.Document, error) {
	var raw string
	if err := p.run(ctx, chromedp.Evaluate(snapshotScript, &raw)); err != nil {
		return nil, fmt.Errorf("browser: snapshot: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("browser: parse snapshot: %w", err)
	}
	return doc, nil
}

func (p *ChromePage) InsertBadge(ctx context.Context, b *models.Badge) error {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(insertScript(b), &ok)); err != nil {
		return fmt.Errorf("browser: insert badge: %w", err)
	}
	return nil
}

func (p *ChromePage) DockBadge(ctx context.Context, b *models.Badge, targets []string) (bool, error) {
	var state string
	if err := p.run(ctx, chromedp.Evaluate(dockScript(b, targets), &state)); err != nil {
		return false, fmt.Errorf("browser: dock badge: %w", err)
	}
	switch state {
	case dockDocked:
		return true, nil
	case dockMissing:
		return false, models.ErrBadgeMissing
	default:
		return false, nil
	}
}

func (p *ChromePage) RemoveBadge(ctx context.Context, id string) (bool, error) {
	var removed bool
	if err := p.run(ctx, chromedp.Evaluate(removeScript(id), &removed)); err != nil {
		return false, fmt.Errorf("browser: remove badge: %w", err)
	}
	return removed, nil
}

func (p *ChromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	return p.runWithin(ctx, p.timeout, actions...)
}

// runWithin runs actions in the tab, bounded by timeout and by the caller's ctx.
func (p *ChromePage) runWithin(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	actx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(actx, actions...)
}

// findChromeBinary locates Chrome/Chromium binary. An empty result lets
// chromedp fall back to its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func displayBin(bin string) string {
	if bin == "" {
		return "(chromedp default)"
	}
	return bin
}
