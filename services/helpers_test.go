package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"zillow-save-ratio/browser"
	"zillow-save-ratio/config"
	"zillow-save-ratio/models"
	"zillow-save-ratio/utils"
)

const (
	listingA = "https://www.zillow.com/homedetails/12-Main-St-Springfield-IL/2077_zpid/"
	listingB = "https://www.zillow.com/homedetails/40-Oak-Ave-Springfield-IL/3188_zpid/"
	search   = "https://www.zillow.com/homes/Springfield-IL_rb/"
)

const statsHTML = `
<div class="styles__StyledOverviewStats-fshdp-8-106-0__sc-1x11gd9-0">
  <dl>
    <dt><strong>1,234</strong></dt><dt><button>views</button></dt>
    <dt><strong>56</strong></dt><dt><button>saves</button></dt>
  </dl>
</div>`

const sidebarHTML = `<div data-testid="home-details-summary-container"><h1>$350,000</h1></div>`

func testConfig() *config.Config {
	return &config.Config{
		ListingPattern: `\d+_zpid`,
		BadgeID:        "zsr-widget",
		DockTargets:    config.DefaultDockTargets,
		NavInterval:    2 * time.Millisecond,
		ScrapeInterval: 2 * time.Millisecond,
		ScrapeAttempts: 5,
		DockInterval:   2 * time.Millisecond,
		DockAttempts:   3,
		ActionTimeout:  time.Second,
	}
}

func testLogger() *utils.Logger {
	return utils.NewLoggerTo(&bytes.Buffer{})
}

// spyPage wraps a DocumentPage, counting calls and checking that a badge
// is never inserted while another one is still in the document.
type spyPage struct {
	*browser.DocumentPage
	t *testing.T

	snapshots atomic.Int32
	inserts   atomic.Int32
	docks     atomic.Int32
	removes   atomic.Int32

	mu           sync.Mutex
	beforeScrape func(n int)
	beforeDock   func(n int)
}

func newSpyPage(t *testing.T, pageURL, body string) *spyPage {
	t.Helper()
	p, err := browser.NewDocumentPage(pageURL, strings.NewReader("<html><body>"+body+"</body></html>"))
	if err != nil {
		t.Fatalf("NewDocumentPage: %v", err)
	}
	return &spyPage{DocumentPage: p, t: t}
}

func (s *spyPage) onScrape(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeScrape = fn
}

func (s *spyPage) onDock(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeDock = fn
}

func (s *spyPage) Snapshot(ctx context.Context) (*goquery.Document, error) {
	n := int(s.snapshots.Add(1))
	s.mu.Lock()
	hook := s.beforeScrape
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return s.DocumentPage.Snapshot(ctx)
}

func (s *spyPage) InsertBadge(ctx context.Context, b *models.Badge) error {
	s.inserts.Add(1)
	if n := s.badgeCount(); n != 0 {
		s.t.Errorf("InsertBadge with %d badge(s) already present", n)
	}
	return s.DocumentPage.InsertBadge(ctx, b)
}

func (s *spyPage) DockBadge(ctx context.Context, b *models.Badge, targets []string) (bool, error) {
	n := int(s.docks.Add(1))
	s.mu.Lock()
	hook := s.beforeDock
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return s.DocumentPage.DockBadge(ctx, b, targets)
}

func (s *spyPage) RemoveBadge(ctx context.Context, id string) (bool, error) {
	s.removes.Add(1)
	return s.DocumentPage.RemoveBadge(ctx, id)
}

func (s *spyPage) badge() *goquery.Selection {
	doc, err := s.DocumentPage.Snapshot(context.Background())
	if err != nil {
		s.t.Fatalf("Snapshot: %v", err)
	}
	return doc.Find("#zsr-widget")
}

func (s *spyPage) badgeCount() int {
	return s.badge().Length()
}

// eventually polls cond for up to a second.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
