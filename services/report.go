package services

import (
	"fmt"
	"io"
	"strings"

	"zillow-save-ratio/models"
)

// Reporter prints a console summary of a rendered badge.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter that writes to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Print writes the summary for pageURL. A nil b reports that no badge was rendered.
func (r *Reporter) Print(pageURL string, b *models.Badge) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(r.w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(r.w, "\033[1;35m  🏠 ZILLOW SAVE RATIO\033[0m\n")
	fmt.Fprintf(r.w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(r.w, "\033[1;33m  Listing\033[0m\n")
	fmt.Fprintf(r.w, "  %s\n", thin)
	fmt.Fprintf(r.w, "  %s\n\n", truncate(pageURL, 52))

	if b == nil {
		fmt.Fprintf(r.w, "  No metrics found, no badge rendered\n")
		fmt.Fprintf(r.w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Fprintf(r.w, "\033[1;33m  Metrics\033[0m\n")
	fmt.Fprintf(r.w, "  %s\n", thin)
	fmt.Fprintf(r.w, "  Views : \033[1m%d\033[0m\n", b.Metrics.Views)
	fmt.Fprintf(r.w, "  Saves : \033[1m%d\033[0m\n", b.Metrics.Saves)
	fmt.Fprintf(r.w, "  Ratio : \033[1;32m%s\033[0m\n\n", b.Percent())

	fmt.Fprintf(r.w, "\033[1;33m  Tier\033[0m\n")
	fmt.Fprintf(r.w, "  %s\n", thin)
	for _, t := range Tiers {
		marker := "  "
		if t == b.Tier {
			marker = "▶ "
		}
		fmt.Fprintf(r.w, "  %s%-38s ≥ %4.1f%%\n", marker, t.Label, t.Min*100)
	}
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "  Badge #%s is %s\n", b.ID, b.State)
	fmt.Fprintf(r.w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
