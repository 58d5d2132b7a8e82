package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"zillow-save-ratio/config"
	"zillow-save-ratio/utils"
)

// Watcher polls the page address and boots the augmenter whenever the
// browser lands on a listing. The host page offers no navigation events.
type Watcher struct {
	page      Page
	augmenter *Augmenter
	listing   *regexp.Regexp
	interval  time.Duration
	logger    *utils.Logger

	addr utils.AddressCache

	// Owned by the Run goroutine. At most one boot is in flight.
	cancelBoot context.CancelFunc
	bootDone   chan struct{}
}

// NewWatcher creates a Watcher for page. It fails if cfg.ListingPattern does not compile.
func NewWatcher(page Page, augmenter *Augmenter, cfg *config.Config, logger *utils.Logger) (*Watcher, error) {
	listing, err := regexp.Compile(cfg.ListingPattern)
	if err != nil {
		return nil, fmt.Errorf("watcher: listing pattern %q: %w", cfg.ListingPattern, err)
	}
	interval := cfg.NavInterval
	if interval <= 0 {
		interval = 400 * time.Millisecond
	}
	return &Watcher{
		page:      page,
		augmenter: augmenter,
		listing:   listing,
		interval:  interval,
		logger:    logger,
	}, nil
}

// IsListing reports whether the path of href identifies a listing detail page.
func (w *Watcher) IsListing(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return w.listing.MatchString(u.Path)
}

// Run polls until ctx is done and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("[watcher] Starting URL watcher (every %v)", w.interval)
	defer w.stopBoot()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("[watcher] Stopped at %s", w.addr.Last())
			return ctx.Err()
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watch tick.
func (w *Watcher) check(ctx context.Context) {
	href, err := w.page.Location(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("[watcher] Could not read page address: %v", err)
		}
		return
	}
	if !w.addr.Observe(href) {
		return
	}
	w.logger.Info("[watcher] URL changed: %s", href)

	w.stopBoot()
	if w.IsListing(href) {
		w.logger.Info("[watcher] New listing detected → boot")
		w.startBoot(ctx)
		return
	}

	w.logger.Info("[watcher] Left listing → remove badge")
	if err := w.augmenter.Teardown(ctx, w.page); err != nil {
		w.logger.Warn("[watcher] %v", err)
	}
}

func (w *Watcher) startBoot(ctx context.Context) {
	bootCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w.cancelBoot, w.bootDone = cancel, done

	go func() {
		defer close(done)
		badge, err := w.augmenter.Boot(bootCtx, w.page)
		switch {
		case errors.Is(err, context.Canceled):
			w.logger.Debug("[watcher] Boot cancelled")
		case err != nil:
			w.logger.Warn("[watcher] Boot ended without badge: %v", err)
		default:
			w.logger.Debug("[watcher] Boot finished, badge %s", badge.State)
		}
	}()
}

// stopBoot cancels the in-flight boot and waits for it to return, so that
// an old boot can never insert a badge after its listing was left.
func (w *Watcher) stopBoot() {
	if w.cancelBoot == nil {
		return
	}
	w.cancelBoot()
	<-w.bootDone
	w.cancelBoot, w.bootDone = nil, nil
}

