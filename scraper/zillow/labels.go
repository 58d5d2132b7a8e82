package zillow

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Metric identifies one of the two counters on a listing page.
type Metric int

const (
	Views Metric = iota
	Saves
)

func (m Metric) String() string {
	if m == Views {
		return "views"
	}
	return "saves"
}

// token is the singular form of the metric word.
func (m Metric) token() string {
	if m == Views {
		return "view"
	}
	return "save"
}

func (m Metric) opposite() Metric {
	if m == Views {
		return Saves
	}
	return Views
}

// maxLabelLen bounds the own text of a label candidate so that prose
// paragraphs mentioning "views" are not treated as labels.
const maxLabelLen = 64

// identifierAttrs are the structured identifiers inspected on every element.
var identifierAttrs = []string{"data-testid", "data-test", "id", "aria-label", "class"}

var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// identifier joins the structured identifier attributes of the first node in s.
func identifier(s *goquery.Selection) string {
	parts := make([]string, 0, len(identifierAttrs))
	for _, attr := range identifierAttrs {
		if v, ok := s.Attr(attr); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// ownText returns the whitespace-collapsed text of the direct text children
// of the first node in s, ignoring nested elements.
func ownText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// words splits s into lowercase words on non-alphanumerics and camelCase humps.
// "homeViewCount" and "home-view-count" both yield [home view count].
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

func isNumber(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// textMentions reports whether visible text names m. The plural word always
// counts. The singular only counts right after a number ("1 view"), so
// buttons like "Save" and links like "View all 24 photos" are not labels.
func textMentions(text string, m Metric) bool {
	ws := words(text)
	for i, w := range ws {
		if w == m.String() {
			return true
		}
		if w == m.token() && i > 0 && isNumber(ws[i-1]) {
			return true
		}
	}
	return false
}

// lookalikes contain a metric token without naming the metric.
var lookalikes = strings.NewReplacer("overview", "|", "preview", "|", "review", "|")

// identParts lowercases ident and squeezes each attribute word into one
// run, so "home-view-count" and "pageviewcount" read the same.
func identParts(ident string) []string {
	fields := strings.Fields(strings.ToLower(ident))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, f)
		parts = append(parts, lookalikes.Replace(f))
	}
	return parts
}

// identMentions reports whether a structured identifier names m: it holds
// the plural token anywhere, or the singular directly followed by a qualifier.
func identMentions(ident string, m Metric) bool {
	for _, p := range identParts(ident) {
		if strings.Contains(p, m.String()) {
			return true
		}
		for _, q := range qualifiers {
			if strings.Contains(p, m.token()+q) {
				return true
			}
		}
	}
	return false
}

// labelFor reports whether s is an unambiguous label for m.
func labelFor(s *goquery.Selection, m Metric) bool {
	ident := identifier(s)
	if identMentions(ident, m) && identMentions(ident, m.opposite()) {
		return false
	}

	text := ownText(s)
	if len(text) > maxLabelLen {
		text = ""
	}
	if textMentions(text, m) && textMentions(text, m.opposite()) {
		return false
	}
	return textMentions(text, m) || identMentions(ident, m)
}

// isLabel reports whether s labels either metric.
func isLabel(s *goquery.Selection) bool {
	return labelFor(s, Views) || labelFor(s, Saves)
}

// statsContainer reports whether ident names a block of listing statistics.
func statsContainer(ident string) bool {
	ident = strings.ToLower(ident)
	return strings.Contains(ident, "stats") || strings.Contains(ident, "statistic")
}

// candidates returns the label elements for m. Labels inside a stats block
// come first, the rest follow, each group in document order.
func (sc *Scraper) candidates(doc *goquery.Document, m Metric) []*goquery.Selection {
	var inStats, rest []*goquery.Selection
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if skipTags[goquery.NodeName(s)] || sc.isBadge(s) || !labelFor(s, m) {
			return
		}
		inBlock := s.Parents().FilterFunction(func(_ int, p *goquery.Selection) bool {
			return statsContainer(identifier(p))
		}).Length() > 0
		if inBlock {
			inStats = append(inStats, s)
		} else {
			rest = append(rest, s)
		}
	})
	return append(inStats, rest...)
}

func (sc *Scraper) isBadge(s *goquery.Selection) bool {
	if sc.badgeID == "" {
		return false
	}
	if id, _ := s.Attr("id"); id == sc.badgeID {
		return true
	}
	return s.ParentsFiltered("#"+sc.badgeID).Length() > 0
}
