package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	xhtml "golang.org/x/net/html"

	"zillow-save-ratio/models"
)

// DocumentPage is an in-memory host page backed by a goquery DOM.
// It is safe for concurrent use.
type DocumentPage struct {
	mu  sync.Mutex
	url string
	doc *goquery.Document
}

// NewDocumentPage parses r as the page served at pageURL.
func NewDocumentPage(pageURL string, r io.Reader) (*DocumentPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}
	return &DocumentPage{url: pageURL, doc: doc}, nil
}

// Navigate changes the page address without touching the DOM, the way a
// client-side router does.
func (p *DocumentPage) Navigate(pageURL string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = pageURL
}

// Mutate runs fn against the live DOM under the page lock.
func (p *DocumentPage) Mutate(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

func (p *DocumentPage) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url, nil
}

// Snapshot returns an independent copy of the DOM.
func (p *DocumentPage) Snapshot(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	p.mu.Lock()
	err := xhtml.Render(&buf, p.doc.Nodes[0])
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("document: render snapshot: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("document: parse snapshot: %w", err)
	}
	return doc, nil
}

func (p *DocumentPage) InsertBadge(ctx context.Context, b *models.Badge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	body := p.doc.Find("body").First()
	if body.Length() == 0 {
		return errors.New("document: no body element")
	}
	byID(p.doc, b.ID).Remove()
	body.AppendHtml(fmt.Sprintf(`<div id="%s" style="%s">%s</div>`,
		html.EscapeString(b.ID), html.EscapeString(b.FloatingStyle()), b.InnerHTML()))
	return nil
}

func (p *DocumentPage) DockBadge(ctx context.Context, b *models.Badge, targets []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	badge := byID(p.doc, b.ID)
	if badge.Length() == 0 {
		return false, models.ErrBadgeMissing
	}

	for _, t := range targets {
		sel, err := cascadia.Compile(t)
		if err != nil {
			return false, fmt.Errorf("document: dock target %q: %w", t, err)
		}
		sidebar := p.doc.FindMatcher(sel).First()
		if sidebar.Length() == 0 {
			continue
		}
		badge.SetAttr("style", b.DockedStyle())
		sidebar.PrependSelection(badge)
		return true, nil
	}
	return false, nil
}

func (p *DocumentPage) RemoveBadge(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	badge := byID(p.doc, id)
	found := badge.Length() > 0
	badge.Remove()
	return found, nil
}

// Render writes the current DOM as HTML.
func (p *DocumentPage) Render(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return xhtml.Render(w, p.doc.Nodes[0])
}

// byID matches elements by id attribute without building a CSS selector,
// so ids with selector metacharacters still work.
func byID(doc *goquery.Document, id string) *goquery.Selection {
	return doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
}
