// Package catalog retrieves and caches the Cerveza Fortuna beer catalog.
// It fetches the brand's website, extracts beer records from the page
// markup, and keeps a JSON snapshot on disk so the catalog survives the
// site being unreachable.
package catalog

import "fmt"

// Beer represents a single beer from the catalog.
type Beer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Style       string  `json:"style"`
	ABV         float64 `json:"abv"`
	IBU         *int    `json:"ibu"` // nil when the page doesn't list bitterness
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Validate checks that a beer record carries usable values.
func (b *Beer) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("beer id must be a non-empty string")
	}
	if b.Name == "" {
		return fmt.Errorf("beer name must be a non-empty string")
	}
	if b.Style == "" {
		return fmt.Errorf("beer style must be a non-empty string")
	}
	if b.ABV < 0 || b.ABV > 20 {
		return fmt.Errorf("beer ABV must be between 0 and 20, got %.1f", b.ABV)
	}
	if b.IBU != nil && (*b.IBU < 0 || *b.IBU > 120) {
		return fmt.Errorf("beer IBU must be between 0 and 120, got %d", *b.IBU)
	}
	if b.Description == "" {
		return fmt.Errorf("beer description must be a non-empty string")
	}
	return nil
}
