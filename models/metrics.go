package models

// Metrics holds the two counters scraped from a listing page.
// Values are derived fresh from the DOM on every attempt and never stored.
type Metrics struct {
	Views int
	Saves int
}

// Valid reports whether a ratio can be computed from m.
func (m Metrics) Valid() bool {
	return m.Views > 0 && m.Saves >= 0
}

// Tier is one bucket of the save-ratio classification table.
type Tier struct {
	Min   float64
	Name  string
	Label string
	Color string
}
