package zillow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"zillow-save-ratio/models"
	"zillow-save-ratio/utils"
)

func newTestScraper() *Scraper {
	return New(utils.NewLoggerTo(&bytes.Buffer{}), "zsr-widget")
}

func mustDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

const overviewStats = `
<div class="styles__StyledOverviewStats-fshdp-8-106-0__sc-1x11gd9-0">
  <dl>
    <dt><strong>3 days</strong></dt><dt>on Zillow</dt>
    <dt><strong>1,234</strong></dt><dt><button class="TriggerText-c11n-8-106-0__sc-d96jze-0">views</button></dt>
    <dt><strong>56</strong></dt><dt><button class="TriggerText-c11n-8-106-0__sc-d96jze-0">saves</button></dt>
  </dl>
</div>`

func TestScrapeFound(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.Metrics
	}{
		{
			name: "inline views label and adjacent saves value",
			body: `<div class="stats"><span>1,234 views</span><span>saves</span><strong>56</strong></div>`,
			want: models.Metrics{Views: 1234, Saves: 56},
		},
		{
			name: "overview stats with number cell before label cell",
			body: overviewStats,
			want: models.Metrics{Views: 1234, Saves: 56},
		},
		{
			name: "label followed by value",
			body: `<div><span>Views</span><span>2,001</span></div><div><span>Saves</span><span>180</span></div>`,
			want: models.Metrics{Views: 2001, Saves: 180},
		},
		{
			name: "value before label in same parent",
			body: `<p><b>870</b> <span>Views</span></p><p><b>12</b> <span>Saves</span></p>`,
			want: models.Metrics{Views: 870, Saves: 12},
		},
		{
			name: "identifier lookup within container",
			body: `<section><div><span>Views</span></div><div><span data-testid="views-number">1,234</span></div></section>
			       <section><div><span>Saves</span></div><div><span data-testid="saves-number">56</span></div></section>`,
			want: models.Metrics{Views: 1234, Saves: 56},
		},
		{
			name: "document wide identifier fallback",
			body: `<div data-testid="viewCount"><i>812</i></div><div data-testid="save-count"><i>40</i></div>`,
			want: models.Metrics{Views: 812, Saves: 40},
		},
		{
			name: "run-together identifiers",
			body: `<div data-testid="pageviewcount">2,500</div><div data-testid="pagesavecount">75</div>`,
			want: models.Metrics{Views: 2500, Saves: 75},
		},
		{
			name: "views written after the word",
			body: `<span>Views: 1,234</span><span>Saves: 56</span>`,
			want: models.Metrics{Views: 1234, Saves: 56},
		},
		{
			name: "zero saves is a valid reading",
			body: `<span>480 views</span><span>0 saves</span>`,
			want: models.Metrics{Views: 480, Saves: 0},
		},
		{
			name: "saves above views are kept",
			body: `<span>10 views</span><span>25 saves</span>`,
			want: models.Metrics{Views: 10, Saves: 25},
		},
	}

	sc := newTestScraper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Scrape(mustDoc(t, tt.body))
			if !ok {
				t.Fatalf("Scrape returned not-found; want %+v", tt.want)
			}
			if got != tt.want {
				t.Errorf("Scrape = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestScrapeNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty document", ``},
		{"saves label missing", `<div class="stats"><span>1,234 views</span></div>`},
		{"views label missing", `<div><span>saves</span><strong>56</strong></div>`},
		{"zero views rejected", `<span>0 views</span><span>12 saves</span>`},
		{"label without number", `<span>views</span><span>saves</span>`},
		{"ambiguous identifier", `<div data-testid="views-saves-summary">99</div>`},
		{"overview is not a views token", `<div class="OverviewTotal">500</div><span>saves</span><b>3</b>`},
		{"singular words are not labels", `<button>Save</button><b>12</b><a>View</a><b>300</b>`},
		{"price is not a count", `<span>views</span><span>$350,000</span><span>saves</span><span>7</span>`},
		{"text with letters is not a bare number", `<span>views</span><span>3 beds</span><span>saves</span><span>7</span>`},
	}

	sc := newTestScraper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Scrape(mustDoc(t, tt.body))
			if ok {
				t.Errorf("Scrape = %+v; want not-found", got)
			}
			if got != (models.Metrics{}) {
				t.Errorf("not-found result should be zero Metrics, got %+v", got)
			}
		})
	}
}

// listingPage carries the chrome around a real listing: header actions,
// photo links, price, a facts list and a sidebar full of numbers.
const listingPage = `
<header>
  <a href="/">Zillow</a>
  <nav><a href="/homes/for_sale/">Buy</a><a href="/rent/">Rent</a></nav>
  <div class="actions">
    <button data-testid="save-button" aria-label="Save"><span>Save</span></button>
    <button><span>Share</span></button>
  </div>
</header>
<div class="media-column">
  <a href="#photos">View all 24 photos</a>
  <button>View virtual tour</button>
</div>
<div data-testid="home-details-summary-container">
  <span data-testid="price"><span>$350,000</span></span>
  <div class="facts">
    <ul>
      <li><span>3</span> <span>bd</span></li>
      <li><span>2</span> <span>ba</span></li>
      <li><span>1,850</span> <span>sqft</span></li>
    </ul>
  </div>
  <span>Est. payment: <b>$2,104</b>/mo</span>
  <div class="actions"><button aria-label="Save this home"><span>Save</span></button></div>
</div>
<section>
  <h2>Overview</h2>` + overviewStats + `
  <p>Listed at <b>12:30</b></p>
  <span>Zestimate</span><b>$352,100</b>
</section>
<aside data-testid="sidebar-container">
  <button>Request a tour</button>
  <div><b>4.5</b> <span>stars from 12 reviews</span></div>
</aside>`

func TestScrapeListingPage(t *testing.T) {
	got, ok := newTestScraper().Scrape(mustDoc(t, listingPage))
	if !ok {
		t.Fatal("Scrape returned not-found")
	}
	if want := (models.Metrics{Views: 1234, Saves: 56}); got != want {
		t.Errorf("Scrape = %+v; want %+v", got, want)
	}
}

func TestScrapeIgnoresPageChrome(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "header save button next to the price",
			body: `<span data-testid="price">$350,000</span><div><button><span>Save</span></button><button>Share</button></div>`,
		},
		{
			name: "save button after the bed count",
			body: `<ul><li><span>3</span> <span>bd</span></li><li><span>2</span> <span>ba</span></li></ul><button>Save</button>`,
		},
		{
			name: "photo gallery link",
			body: `<a href="#photos">View all 24 photos</a>`,
		},
		{
			name: "review count",
			body: `<div><b>4.5</b> <span>12 reviews</span></div>`,
		},
	}

	sc := newTestScraper()
	want := models.Metrics{Views: 1234, Saves: 56}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Scrape(mustDoc(t, tt.body+overviewStats))
			if !ok {
				t.Fatal("Scrape returned not-found")
			}
			if got != want {
				t.Errorf("Scrape = %+v; want %+v", got, want)
			}
		})
	}
}

func TestScrapePrefersNearValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "sibling value beats ancestor scan",
			body: `<section><div><p><span>Views</span></p></div><div><b>999</b></div></section>
			       <div><span>Views</span><b>1,234</b></div><span>56 saves</span>`,
		},
		{
			name: "stats block beats earlier label",
			body: `<div><span>Views</span><b>7</b></div>
			       <div data-testid="home-stats"><span>Views</span><b>1,234</b><span>56 saves</span></div>`,
		},
	}

	sc := newTestScraper()
	want := models.Metrics{Views: 1234, Saves: 56}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Scrape(mustDoc(t, tt.body))
			if !ok {
				t.Fatal("Scrape returned not-found")
			}
			if got != want {
				t.Errorf("Scrape = %+v; want %+v", got, want)
			}
		})
	}
}

func TestScrapeNilDocument(t *testing.T) {
	if _, ok := newTestScraper().Scrape(nil); ok {
		t.Error("nil document should be not-found")
	}
}

func TestScrapeIgnoresBadge(t *testing.T) {
	body := `<div id="zsr-widget"><strong>40.0%</strong><br>450 views</div>` + overviewStats
	got, ok := newTestScraper().Scrape(mustDoc(t, body))
	if !ok {
		t.Fatal("Scrape returned not-found")
	}
	if got.Views != 1234 {
		t.Errorf("Views = %d; want 1234 from the page, not the badge", got.Views)
	}
}

func TestScrapeIsIdempotent(t *testing.T) {
	sc := newTestScraper()
	doc := mustDoc(t, overviewStats)
	before, _ := doc.Html()

	first, _ := sc.Scrape(doc)
	second, _ := sc.Scrape(doc)
	after, _ := doc.Html()

	if first != second {
		t.Errorf("repeated scrapes differ: %+v vs %+v", first, second)
	}
	if before != after {
		t.Error("Scrape mutated the document")
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"homeViewCount", "home view count"},
		{"views-count", "views count"},
		{"StyledOverviewStats", "styled overview stats"},
		{"1,234 Views", "1 234 views"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(words(tt.in), " "); got != tt.want {
			t.Errorf("words(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseBare(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"56", 56, true},
		{" 1,234 ", 1234, true},
		{"1.234", 1234, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"12 days", 0, false},
		{"—", 0, false},
		{"0", 0, true},
		{"$350,000", 0, false},
		{"€1.200", 0, false},
		{"12:30", 0, false},
		{"4.5", 0, false},
		{"45%", 0, false},
		{"1,23", 0, false},
		{"3 bd", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseBare(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseBare(%q) = (%d, %v); want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTextMentions(t *testing.T) {
	tests := []struct {
		text string
		m    Metric
		want bool
	}{
		{"views", Views, true},
		{"1,234 Views", Views, true},
		{"1 view", Views, true},
		{"Save", Saves, false},
		{"Save this home", Saves, false},
		{"View all 24 photos", Views, false},
		{"12 reviews", Views, false},
		{"Overview", Views, false},
		{"56 saves", Saves, true},
		{"56 saves", Views, false},
	}
	for _, tt := range tests {
		if got := textMentions(tt.text, tt.m); got != tt.want {
			t.Errorf("textMentions(%q, %s) = %v; want %v", tt.text, tt.m, got, tt.want)
		}
	}
}

func TestIdentMentions(t *testing.T) {
	tests := []struct {
		ident string
		m     Metric
		want  bool
	}{
		{"home-views", Views, true},
		{"viewCount", Views, true},
		{"pageviewcount", Views, true},
		{"save-count", Saves, true},
		{"saves-number", Saves, true},
		{"save-button", Saves, false},
		{"StyledOverviewStats", Views, false},
		{"OverviewTotal", Views, false},
		{"reviews-count", Views, false},
		{"preview-image", Views, false},
		{"", Views, false},
	}
	for _, tt := range tests {
		if got := identMentions(tt.ident, tt.m); got != tt.want {
			t.Errorf("identMentions(%q, %s) = %v; want %v", tt.ident, tt.m, got, tt.want)
		}
	}
}
