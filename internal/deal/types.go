package deal

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Deal represents a single wine deal observed on the monitored page.
// Price carries only the site's own offer price; retail and "best web"
// comparison figures never end up here (see PickOfferPrice).
type Deal struct {
	Title        string           `json:"title"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ListPrice    *decimal.Decimal `json:"list_price,omitempty"`
	Vintage      string           `json:"vintage,omitempty"`
	Region       string           `json:"region,omitempty"`
	BottleSizeML int              `json:"bottle_size_ml"`
	URL          string           `json:"url"`
}

// String renders the deal the way it appears in logs and notifications.
func (d *Deal) String() string {
	s := d.Title
	if d.Vintage != "" {
		s += " " + d.Vintage
	}
	if d.BottleSizeML != DefaultBottleSizeML {
		s += fmt.Sprintf(" (%dml)", d.BottleSizeML)
	}
	if d.Price != nil {
		s += ": $" + d.Price.StringFixed(2)
	}
	return s
}

// Savings returns the discount against the list price, when both prices
// are known and the list price is actually higher.
func (d *Deal) Savings() *decimal.Decimal {
	if d.Price == nil || d.ListPrice == nil || !d.ListPrice.GreaterThan(*d.Price) {
		return nil
	}
	diff := d.ListPrice.Sub(*d.Price)
	return &diff
}

// RatingSummary is one rating triplet from the rating provider. A nil
// *RatingSummary means "no data"; a non-nil one always carries a rating,
// with zero count and nil price standing in for unknown.
type RatingSummary struct {
	Rating      float64          `json:"rating"`
	ReviewCount int              `json:"review_count"`
	AvgPrice    *decimal.Decimal `json:"avg_price,omitempty"`
}

// EnrichedDeal is a deal plus up to two rating triplets: one for the
// specific vintage and one for the wine overall.
type EnrichedDeal struct {
	Deal
	VintageRating *RatingSummary `json:"vintage_rating,omitempty"`
	OverallRating *RatingSummary `json:"overall_rating,omitempty"`
}

// HasRatingData reports whether enrichment found anything at all.
func (e *EnrichedDeal) HasRatingData() bool {
	return e.VintageRating != nil || e.OverallRating != nil
}

// BestRating returns the vintage-specific rating when available, the
// overall rating otherwise, and 0 when neither exists.
func (e *EnrichedDeal) BestRating() float64 {
	if e.VintageRating != nil {
		return e.VintageRating.Rating
	}
	if e.OverallRating != nil {
		return e.OverallRating.Rating
	}
	return 0
}
