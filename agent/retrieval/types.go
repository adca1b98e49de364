package retrieval

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Candidate is one active offer at one establishment.
type Candidate struct {
	OfferID         int64    `json:"offer_id"`
	ProductID       int64    `json:"product_id"`
	Product         string   `json:"product"`
	Category        string   `json:"category,omitempty"`
	EstablishmentID int64    `json:"establishment_id"`
	Establishment   string   `json:"establishment"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Lat             *float64 `json:"latitude"`
	Lng             *float64 `json:"longitude"`
	PriceCents      int64    `json:"price_cents"`
	StartDate       Date     `json:"start_date"`
	EndDate         Date     `json:"end_date"`

	DistanceKM     float64 `json:"distance_km"`
	FormattedPrice string  `json:"price"`
}

func (c Candidate) HasCoordinates() bool {
	return c.Lat != nil && c.Lng != nil
}

// Filter is the conjunctive candidate selection. Sources push it down to
// the data store; Match is the reference predicate.
type Filter struct {
	Today         Date
	Category      string
	MaxPriceCents *int64
	NameFilter    string
	Limit         int
}

func (f Filter) Match(c Candidate) bool {
	if f.Today.Before(c.StartDate) || c.EndDate.Before(f.Today) {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.MaxPriceCents != nil && c.PriceCents > *f.MaxPriceCents {
		return false
	}
	if f.NameFilter != "" && !strings.Contains(strings.ToLower(c.Product), strings.ToLower(f.NameFilter)) {
		return false
	}
	return true
}

// Request is one retrieval call. Nil pointers fall back to configured
// defaults or mean "no filter".
type Request struct {
	UserLat    *float64
	UserLng    *float64
	UserID     *int64
	RadiusKM   *float64
	MaxResults *int
	MaxPrice   *float64
	Category   string
	NameFilter string
}
