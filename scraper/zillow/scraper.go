package zillow

import (
	"github.com/PuerkitoBio/goquery"

	"zillow-save-ratio/models"
	"zillow-save-ratio/utils"
)

// Scraper extracts the views and saves counters from a listing DOM snapshot
// without relying on class names, which change with every site deploy.
type Scraper struct {
	logger  *utils.Logger
	badgeID string
}

// New creates a Scraper. Elements inside the badge with id badgeID are
// never read, so an already rendered badge cannot feed its own numbers back.
func New(logger *utils.Logger, badgeID string) *Scraper {
	return &Scraper{logger: logger, badgeID: badgeID}
}

// Scrape inspects doc and returns both metrics, or false if either one
// cannot be found or the pair is unusable. It never returns partial results.
func (sc *Scraper) Scrape(doc *goquery.Document) (models.Metrics, bool) {
	if doc == nil {
		return models.Metrics{}, false
	}
	sc.logger.Debug("[scraper] Starting to scrape metrics")

	views, ok := sc.metric(doc, Views)
	if !ok {
		sc.logger.Debug("[scraper] Could not find views")
		return models.Metrics{}, false
	}
	saves, ok := sc.metric(doc, Saves)
	if !ok {
		sc.logger.Debug("[scraper] Could not find saves")
		return models.Metrics{}, false
	}

	m := models.Metrics{Views: views, Saves: saves}
	if !m.Valid() {
		sc.logger.Debug("[scraper] Rejecting unusable metrics views=%d saves=%d", views, saves)
		return models.Metrics{}, false
	}

	sc.logger.Debug("[scraper] Final metrics → views=%d  saves=%d", views, saves)
	return m, true
}

func (sc *Scraper) metric(doc *goquery.Document, m Metric) (int, bool) {
	labels := sc.candidates(doc, m)
	sc.logger.Debug("[scraper] Found %d %s label candidates", len(labels), m)

	for _, tier := range strategyTiers {
		for _, label := range labels {
			for _, st := range tier {
				if n, ok := st.find(label, m); ok {
					sc.logger.Debug("[scraper] %s=%d via %s (label %q)", m, n, st.name, abbreviate(label.Text()))
					return n, true
				}
			}
		}
	}

	if n, ok := sc.identifierValue(doc, m); ok {
		sc.logger.Debug("[scraper] %s=%d via identifier scan", m, n)
		return n, true
	}
	return 0, false
}

func abbreviate(s string) string {
	const max = 40
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
