package services

import (
	"math"

	"zillow-save-ratio/models"
)

// Tiers is the save-ratio classification table, sorted by descending Min.
// The last tier has Min 0 so every ratio in [0,1] matches exactly one entry.
var Tiers = []models.Tier{
	{Min: 0.12, Name: "Quick sale", Label: "Quick sale (likely multiple offers)", Color: "#27ae60"},
	{Min: 0.10, Name: "Strong listing", Label: "Strong listing (1st-week sale)", Color: "#2ecc71"},
	{Min: 0.05, Name: "Average", Label: "Average (1–4 wks on market)", Color: "#f39c12"},
	{Min: 0.00, Name: "Trouble", Label: "⚠ Trouble (<5 %)", Color: "#e74c3c"},
}

// ClampRatio limits r to [0,1]. NaN maps to 0.
func ClampRatio(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// Classify returns the first tier whose minimum is at or below the clamped ratio.
func Classify(r float64) models.Tier {
	r = ClampRatio(r)
	for _, t := range Tiers {
		if r >= t.Min {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}
