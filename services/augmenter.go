package services

import (
	"context"
	"fmt"

	"zillow-save-ratio/config"
	"zillow-save-ratio/models"
	"zillow-save-ratio/scraper/zillow"
	"zillow-save-ratio/utils"
)

// Augmenter runs the per-listing boot sequence: scrape, classify, render, dock.
type Augmenter struct {
	badgeID  string
	scraper  *zillow.Scraper
	renderer *BadgeRenderer
	poll     *utils.PollConfig
	logger   *utils.Logger
}

// NewAugmenter creates an Augmenter from cfg.
func NewAugmenter(cfg *config.Config, logger *utils.Logger) *Augmenter {
	return &Augmenter{
		badgeID:  cfg.BadgeID,
		scraper:  zillow.New(logger, cfg.BadgeID),
		renderer: NewBadgeRenderer(cfg, logger),
		poll: &utils.PollConfig{
			MaxAttempts: cfg.ScrapeAttempts,
			Interval:    cfg.ScrapeInterval,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Boot removes any existing badge, polls the page until both metrics are
// found and renders a fresh badge. It returns once docking has settled.
func (a *Augmenter) Boot(ctx context.Context, page Page) (*models.Badge, error) {
	a.logger.Debug("[augmenter] Starting boot for listing")
	if err := a.Teardown(ctx, page); err != nil {
		return nil, err
	}

	var metrics models.Metrics
	outcome := a.poll.Poll(ctx, "scrape-metrics", func(ctx context.Context, attempt int) bool {
		doc, err := page.Snapshot(ctx)
		if err != nil {
			a.logger.Warn("[augmenter] Snapshot attempt %d/%d failed: %v", attempt, a.poll.MaxAttempts, err)
			return false
		}
		m, ok := a.scraper.Scrape(doc)
		if ok {
			metrics = m
		}
		return ok
	})

	switch outcome {
	case utils.Cancelled:
		return nil, ctx.Err()
	case utils.Exhausted:
		a.logger.Info("[augmenter] Metrics not found after %d attempts", a.poll.MaxAttempts)
		return nil, ErrMetricsNotFound
	}

	a.logger.Info("[augmenter] Metrics found: views=%d saves=%d", metrics.Views, metrics.Saves)
	return a.renderer.Render(ctx, page, metrics)
}

// Teardown removes the badge from page if present.
func (a *Augmenter) Teardown(ctx context.Context, page Page) error {
	removed, err := page.RemoveBadge(ctx, a.badgeID)
	if err != nil {
		return fmt.Errorf("remove badge: %w", err)
	}
	if removed {
		a.logger.Debug("[augmenter] Removed existing badge #%s", a.badgeID)
	}
	return nil
}

