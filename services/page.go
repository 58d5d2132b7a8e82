package services

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"zillow-save-ratio/models"
)

// Page is the host page the badge is injected into.
type Page interface {
	// Location returns the full current address of the page.
	Location(ctx context.Context) (string, error)
	// Snapshot returns a read-only copy of the current DOM.
	Snapshot(ctx context.Context) (*goquery.Document, error)
	// InsertBadge appends b to the document body in its floating style.
	InsertBadge(ctx context.Context, b *models.Badge) error
	// DockBadge moves b into the first of targets present in the DOM and
	// reports whether a target was found.
	DockBadge(ctx context.Context, b *models.Badge, targets []string) (bool, error)
	// RemoveBadge deletes the element with the given id, reporting whether it existed.
	RemoveBadge(ctx context.Context, id string) (bool, error)
}
