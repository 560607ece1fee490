package domain

import "time"

// Aggregation read models. All percentages are plain proportions*100; any
// rounding happens at the presentation layer only.

// MonthPoint is one (calendar month, value) pair of a monthly series.
// Month is rendered as "2006-01".
type MonthPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// CountryMean is one country's mean metric for a year, with the geo fields
// the map rendering needs. Coords stays nil when the geo join had no match.
type CountryMean struct {
	CountryName string  `json:"country"`
	Code        string  `json:"code"`
	Mean        float64 `json:"mean"`
	Count       int     `json:"count"`
	Coords      *Coords `json:"coords,omitempty"`
}

// MapPoint is one plotted origin country on the cumulative map.
type MapPoint struct {
	CountryName string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Snapshot is the cumulative map state as of one date.
type Snapshot struct {
	AsOf   time.Time  `json:"as_of"`
	Points []MapPoint `json:"points"`
}

// Summary holds the headline KPIs of the opening section.
type Summary struct {
	Year               int     `json:"year"`
	OriginCountries    int     `json:"origin_countries"`
	Continents         int     `json:"continents"`
	MeanADR            float64 `json:"mean_adr"`
	InternationalShare float64 `json:"international_share"`
}
