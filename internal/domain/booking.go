package domain

import "time"

// Tourist classes. Derived from the booking's origin country: domestic iff
// the origin equals the reporting property's home country.
const (
	ClassDomestic      = "domestic"
	ClassInternational = "international"
)

type Coords struct{ Lat, Lon float64 }

// Booking is one enriched reservation row. CountryName, Coords and Continent
// come from the geographic joins and stay nil when the join found no match;
// rows without a resolvable country code never make it into a Dataset at all.
type Booking struct {
	ArrivalDate  time.Time
	ArrivalYear  int
	ArrivalMonth int
	ArrivalDay   int
	CountryCode  string // normalized ISO-3
	ADR          float64
	Class        string // ClassDomestic | ClassInternational
	CountryName  *string
	Coords       *Coords
	Continent    *string
}

// Dataset is the enriched booking table: built once at startup, read-only
// afterwards. Every aggregation derives fresh results from it without
// mutating it, so it is safe to share across requests and playback frames.
type Dataset struct {
	Bookings []Booking

	// bookkeeping from enrichment
	RawRows          int
	DroppedNoCountry int
	DroppedBadDate   int

	// distinct arrival dates, ascending; drives the map playback
	Dates     []time.Time
	FirstDate time.Time
	LastDate  time.Time
}

// Years returns the distinct arrival years present, ascending.
func (d *Dataset) Years() []int {
	seen := map[int]bool{}
	var out []int
	for _, b := range d.Bookings {
		if !seen[b.ArrivalYear] {
			seen[b.ArrivalYear] = true
			out = append(out, b.ArrivalYear)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
