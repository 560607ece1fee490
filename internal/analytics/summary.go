package analytics

import (
	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

// Summary computes the opening section's KPIs. Origin countries count the
// whole dataset; the continent count and the rate/share figures are scoped
// to the given year. shareFloorPct mirrors the display floor the pie chart
// applies, so the continent KPI agrees with what the chart shows.
func Summary(ds *domain.Dataset, year int, shareFloorPct float64) (domain.Summary, error) {
	s := domain.Summary{Year: year}

	seen := map[string]bool{}
	for i := range ds.Bookings {
		if name := ds.Bookings[i].CountryName; name != nil && !seen[*name] {
			seen[*name] = true
			s.OriginCountries++
		}
	}

	contShare, err := ShareByCategory(ds, year, "continent")
	if err != nil {
		return domain.Summary{}, err
	}
	for _, pct := range contShare {
		if pct > shareFloorPct {
			s.Continents++
		}
	}

	var sum float64
	var n int
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		if b.ArrivalYear == year {
			sum += b.ADR
			n++
		}
	}
	if n > 0 {
		s.MeanADR = sum / float64(n)
	}

	classShare, err := ShareByCategory(ds, year, "class")
	if err != nil {
		return domain.Summary{}, err
	}
	s.InternationalShare = classShare[domain.ClassInternational]

	return s, nil
}
