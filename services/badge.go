package services

import (
	"context"
	"errors"
	"fmt"

	"zillow-save-ratio/config"
	"zillow-save-ratio/models"
	"zillow-save-ratio/utils"
)

// BadgeRenderer injects the save-ratio badge and docks it into the sidebar.
type BadgeRenderer struct {
	id      string
	targets []string
	dock    *utils.PollConfig
	logger  *utils.Logger
}

// NewBadgeRenderer creates a BadgeRenderer from cfg.
func NewBadgeRenderer(cfg *config.Config, logger *utils.Logger) *BadgeRenderer {
	return &BadgeRenderer{
		id:      cfg.BadgeID,
		targets: cfg.DockTargets,
		dock: &utils.PollConfig{
			MaxAttempts: cfg.DockAttempts,
			Interval:    cfg.DockInterval,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Render validates m, inserts a floating badge and then tries to dock it.
// A badge that cannot be docked stays floating; that is not an error.
func (r *BadgeRenderer) Render(ctx context.Context, page Page, m models.Metrics) (*models.Badge, error) {
	r.logger.Debug("[badge] Attempting to render badge with metrics views=%d saves=%d", m.Views, m.Saves)

	if !m.Valid() {
		r.logger.Warn("[badge] Invalid metrics - cannot calculate ratio (views=%d saves=%d)", m.Views, m.Saves)
		return nil, fmt.Errorf("%w: views=%d saves=%d", ErrInvalidMetrics, m.Views, m.Saves)
	}
	if m.Saves > m.Views {
		r.logger.Warn("[badge] Saves greater than views (%d > %d), this might be incorrect", m.Saves, m.Views)
	}

	ratio := float64(m.Saves) / float64(m.Views)
	if ratio > 1 {
		r.logger.Warn("[badge] Ratio %.3f greater than 1, capping at 1", ratio)
	}
	ratio = ClampRatio(ratio)
	tier := Classify(ratio)

	badge := &models.Badge{
		ID:      r.id,
		Metrics: m,
		Ratio:   ratio,
		Tier:    tier,
		State:   models.Floating,
	}
	if err := page.InsertBadge(ctx, badge); err != nil {
		return nil, fmt.Errorf("insert badge: %w", err)
	}
	r.logger.Info("[badge] Badge rendered %s → %s", badge.Percent(), tier.Label)

	r.dockBadge(ctx, page, badge)
	return badge, nil
}

// dockBadge polls for a dock target. Docked is terminal: polling stops on
// the first success and never moves the badge back. Polling also stops
// when the badge is gone from the page.
func (r *BadgeRenderer) dockBadge(ctx context.Context, page Page, badge *models.Badge) utils.Outcome {
	var missing bool
	outcome := r.dock.Poll(ctx, "dock-badge", func(ctx context.Context, attempt int) bool {
		docked, err := page.DockBadge(ctx, badge, r.targets)
		if errors.Is(err, ErrBadgeMissing) {
			missing = true
			return true
		}
		if err != nil {
			r.logger.Warn("[badge] Docking attempt %d/%d failed: %v", attempt, r.dock.MaxAttempts, err)
			return false
		}
		return docked
	})

	if missing {
		r.logger.Info("[badge] Badge removed before docking, giving up")
		return utils.Exhausted
	}

	switch outcome {
	case utils.Succeeded:
		badge.State = models.Docked
		r.logger.Info("[badge] Badge docked in sidebar")
	case utils.Exhausted:
		r.logger.Info("[badge] No sidebar found, badge will remain floating")
	case utils.Cancelled:
		r.logger.Debug("[badge] Docking cancelled, badge left %s", badge.State)
	}
	return outcome
}
