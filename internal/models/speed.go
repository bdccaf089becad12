package models

import (
	"fmt"
	"math"
)

// DefaultMinutesPerPage is used for any category missing from a SpeedTable
const DefaultMinutesPerPage = 2.0

// SpeedTable maps a category to its reading speed in minutes per page
type SpeedTable map[Category]float64

// DefaultSpeedTable returns 120, 145 and 180 seconds per page for
// divulgation, theory and analysis books
func DefaultSpeedTable() SpeedTable {
	return SpeedTableFromSeconds(120, 145, 180)
}

// SpeedTableFromSeconds builds a table from seconds-per-page values
func SpeedTableFromSeconds(divulgation, theory, analysis float64) SpeedTable {
	return SpeedTable{
		CategoryDivulgation: divulgation / 60,
		CategoryTheory:      theory / 60,
		CategoryAnalysis:    analysis / 60,
	}
}

// MinutesPerPage returns the reading speed for c.
//
// This is the only place an unknown category is tolerated: an absent or
// non-positive entry silently falls back to DefaultMinutesPerPage.
func (t SpeedTable) MinutesPerPage(c Category) float64 {
	if v, ok := t[c]; ok && v > 0 {
		return v
	}
	return DefaultMinutesPerPage
}

// FormatPace renders a seconds-per-page value as mm:ss, rounded to the second
func FormatPace(secondsPerPage float64) string {
	total := int(math.Round(secondsPerPage))
	return fmt.Sprintf("%02d:%02d", (total/60)%60, total%60)
}
