package services

import (
	"errors"

	"zillow-save-ratio/models"
)

var (
	// ErrMetricsNotFound is returned when scraping exhausts its attempts.
	ErrMetricsNotFound = errors.New("metrics not found")
	// ErrInvalidMetrics is returned for readings no ratio can be computed from.
	ErrInvalidMetrics = errors.New("invalid metrics")
	// ErrBadgeMissing is returned by a Page when the badge left the DOM.
	ErrBadgeMissing = models.ErrBadgeMissing
)
