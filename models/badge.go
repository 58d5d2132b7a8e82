package models

import (
	"fmt"
	"html"
	"strings"
)

// BadgeState is the docking state of an injected badge.
type BadgeState int

const (
	// Floating is a fixed-position overlay in the top-right corner.
	Floating BadgeState = iota
	// Docked is terminal: the badge lives inside the page sidebar.
	Docked
)

func (s BadgeState) String() string {
	switch s {
	case Floating:
		return "floating"
	case Docked:
		return "docked"
	default:
		return fmt.Sprintf("BadgeState(%d)", int(s))
	}
}

// Badge is the single UI element injected into a listing page.
type Badge struct {
	ID      string
	Metrics Metrics
	Ratio   float64
	Tier    Tier
	State   BadgeState
}

// Percent formats the ratio the way the badge displays it, e.g. "12.3%".
func (b *Badge) Percent() string {
	return fmt.Sprintf("%.1f%%", b.Ratio*100)
}

// InnerHTML is the markup placed inside the badge element.
func (b *Badge) InnerHTML() string {
	return "<strong>" + b.Percent() + "</strong><br>" + html.EscapeString(b.Tier.Label)
}

var badgeLook = []string{
	"background:var(--zsr-color)",
	"color:#fff",
	"padding:.55em .85em",
	"border-radius:7px",
	"font:14px/1.35 Arial,sans-serif",
	"text-align:center",
	"max-width:220px",
	"box-shadow:0 2px 6px rgba(0,0,0,.25)",
	"transition:opacity .2s ease",
}

// FloatingStyle is the inline style of a badge pinned to the screen corner.
func (b *Badge) FloatingStyle() string {
	return b.style("position:fixed", "top:12px", "right:12px", "z-index:99999")
}

// DockedStyle is the inline style once the badge sits inside the sidebar.
// Fixed positioning props are dropped entirely.
func (b *Badge) DockedStyle() string {
	return b.style("position:static", "margin-bottom:.75em")
}

func (b *Badge) style(placement ...string) string {
	decls := make([]string, 0, 1+len(placement)+len(badgeLook))
	decls = append(decls, "--zsr-color:"+b.Tier.Color)
	decls = append(decls, placement...)
	decls = append(decls, badgeLook...)
	return strings.Join(decls, "; ")
}
