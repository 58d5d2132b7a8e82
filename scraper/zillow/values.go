package zillow

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	// valueKinds are the element kinds likely to hold a bare number.
	valueKinds = cascadia.MustCompile("strong, b, span, dd, dt, div")
	// countText is a whole count: plain digits or thousands groups.
	// Currency, times, percentages and decimal fractions never match.
	countText = regexp.MustCompile(`^(\d+|\d{1,3}([,.]\d{3})+)$`)
	nonDigits = regexp.MustCompile(`\D`)

	inlineCounts = map[Metric]*regexp.Regexp{
		Views: inlineCount(Views),
		Saves: inlineCount(Saves),
	}
)

// inlineCount matches a number written next to the metric word inside one
// label, either "1,234 views" or "Views: 1,234".
func inlineCount(m Metric) *regexp.Regexp {
	const num = `(\d(?:[\d,.]*\d)?)`
	word := m.token() + `s?\b`
	return regexp.MustCompile(`(?i)(?:^|[^\d$€£¥.,])` + num + `\s*` + word + `|\b` + word + `\s*:?\s*` + num)
}

// maxValueLen bounds the text of a value element.
const maxValueLen = 24

// containerDepth is how many ancestors the distant strategies climb.
const containerDepth = 3

// qualifiers mark an identifier as naming the numeric value itself.
var qualifiers = []string{"count", "value", "total", "number"}

// strategy looks for the value of m starting from a label element.
type strategy struct {
	name string
	find func(label *goquery.Selection, m Metric) (int, bool)
}

// strategyTiers are tried in order. Every candidate label gets the near
// tier before any candidate gets the distant one, so a label with its
// number right beside it wins over one that needs an ancestor scan.
var strategyTiers = [][]strategy{
	{
		{"inline", inlineValue},
		{"next-sibling", func(l *goquery.Selection, _ Metric) (int, bool) { return scanSiblings(l, (*goquery.Selection).Next) }},
		{"prev-sibling", func(l *goquery.Selection, _ Metric) (int, bool) { return scanSiblings(l, (*goquery.Selection).Prev) }},
		{"parent-sibling", func(l *goquery.Selection, _ Metric) (int, bool) { return ancestorSiblingValue(l, 1, 1) }},
	},
	{
		{"ancestor-sibling", func(l *goquery.Selection, _ Metric) (int, bool) { return ancestorSiblingValue(l, 2, containerDepth) }},
		{"container", containerValue},
	},
}

// parseBare parses text holding nothing but a count with thousands separators.
func parseBare(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxValueLen || !countText.MatchString(text) {
		return 0, false
	}
	n, err := strconv.Atoi(nonDigits.ReplaceAllString(text, ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func inlineValue(label *goquery.Selection, m Metric) (int, bool) {
	text := ownText(label)
	if len(text) > maxLabelLen {
		return 0, false
	}
	// A label found by its identifier may hold nothing but the number.
	if n, ok := parseBare(text); ok {
		return n, true
	}
	match := inlineCounts[m].FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	if match[1] != "" {
		return parseBare(match[1])
	}
	return parseBare(match[2])
}

// valueIn returns the number held by s when s is, or wraps, a value-kind
// element and its whole text is a bare count. "3 bd" is not.
func valueIn(s *goquery.Selection) (int, bool) {
	if !s.IsMatcher(valueKinds) && s.FindMatcher(valueKinds).Length() == 0 {
		return 0, false
	}
	return parseBare(s.Text())
}

// scanSiblings walks from s in one direction, nearest first, and stops at
// the first sibling that is itself a metric label.
func scanSiblings(s *goquery.Selection, step func(*goquery.Selection) *goquery.Selection) (int, bool) {
	for sib := step(s); sib.Length() > 0; sib = step(sib) {
		if isLabel(sib) || sib.Find("*").FilterFunction(func(_ int, d *goquery.Selection) bool { return isLabel(d) }).Length() > 0 {
			return 0, false
		}
		if n, ok := valueIn(sib); ok {
			return n, true
		}
	}
	return 0, false
}

// ancestorSiblingValue scans the siblings of the label's ancestors from
// depth from to depth to, previous ones first: listing stats render the
// number cell before the label cell.
func ancestorSiblingValue(label *goquery.Selection, from, to int) (int, bool) {
	parent := label.Parent()
	for depth := 1; depth <= to && parent.Length() > 0; depth++ {
		if goquery.NodeName(parent) == "body" {
			break
		}
		if depth >= from {
			if n, ok := scanSiblings(parent, (*goquery.Selection).Prev); ok {
				return n, true
			}
			if n, ok := scanSiblings(parent, (*goquery.Selection).Next); ok {
				return n, true
			}
		}
		parent = parent.Parent()
	}
	return 0, false
}

func containerValue(label *goquery.Selection, m Metric) (int, bool) {
	container := label.Parent()
	for depth := 0; depth < containerDepth && container.Length() > 0; depth++ {
		if goquery.NodeName(container) == "body" {
			break
		}

		var (
			n     int
			found bool
		)
		container.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if el.IsSelection(label) {
				return true
			}
			ident := identifier(el)
			if !identMentions(ident, m) || identMentions(ident, m.opposite()) {
				return true
			}
			n, found = parseBare(el.Text())
			return !found
		})
		if found {
			return n, true
		}
		container = container.Parent()
	}
	return 0, false
}

// identifierValue scans the whole document for an element whose identifier
// names m together with a count/value/total qualifier.
func (sc *Scraper) identifierValue(doc *goquery.Document, m Metric) (int, bool) {
	var (
		n     int
		found bool
	)
	doc.Find("body *").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if skipTags[goquery.NodeName(el)] || sc.isBadge(el) {
			return true
		}
		ident := identifier(el)
		if !identMentions(ident, m) || identMentions(ident, m.opposite()) || !qualified(ident) {
			return true
		}
		n, found = parseBare(el.Text())
		return !found
	})
	return n, found
}

func qualified(ident string) bool {
	for _, p := range identParts(ident) {
		for _, q := range qualifiers {
			if strings.Contains(p, q) {
				return true
			}
		}
	}
	return false
}
