// Package analytics derives every chart's backing table from the enriched
// booking dataset. All functions are pure and stateless: they read the
// shared Dataset, never mutate it, and build fresh results per call, so they
// are safe to re-run per request or per playback frame.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

// category columns an aggregation can group by
var categoryColumns = map[string]func(*domain.Booking) (string, bool){
	"class": func(b *domain.Booking) (string, bool) { return b.Class, true },
	"continent": func(b *domain.Booking) (string, bool) {
		if b.Continent == nil {
			return "", false
		}
		return *b.Continent, true
	},
	"country": func(b *domain.Booking) (string, bool) {
		if b.CountryName == nil {
			return "", false
		}
		return *b.CountryName, true
	},
}

// numeric columns a mean can be taken over
var valueColumns = map[string]func(*domain.Booking) float64{
	"adr": func(b *domain.Booking) float64 { return b.ADR },
}

func categoryAccessor(column string) (func(*domain.Booking) (string, bool), error) {
	fn, ok := categoryColumns[column]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category column %q", domain.ErrInvalidArgument, column)
	}
	return fn, nil
}

// ShareByCategory returns each category's percentage of the year's bookings.
// Shares sum to 100 across the categories present; rows whose category is
// null (unmatched joins) are left out of the distribution. An empty year
// yields an empty map.
func ShareByCategory(ds *domain.Dataset, year int, column string) (map[string]float64, error) {
	acc, err := categoryAccessor(column)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	total := 0
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		if b.ArrivalYear != year {
			continue
		}
		if cat, ok := acc(b); ok {
			counts[cat]++
			total++
		}
	}

	out := make(map[string]float64, len(counts))
	if total == 0 {
		return out, nil
	}
	for cat, n := range counts {
		out[cat] = float64(n) / float64(total) * 100
	}
	return out, nil
}

// MonthlyMean returns one (month, mean) point per calendar month present in
// the data, chronologically ordered.
func MonthlyMean(ds *domain.Dataset, column string) ([]domain.MonthPoint, error) {
	val, ok := valueColumns[column]
	if !ok {
		return nil, fmt.Errorf("%w: unknown value column %q", domain.ErrInvalidArgument, column)
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		k := monthKey(b.ArrivalDate)
		sums[k] += val(b)
		counts[k]++
	}

	out := make([]domain.MonthPoint, 0, len(sums))
	for k, sum := range sums {
		out = append(out, domain.MonthPoint{Month: k, Value: sum / float64(counts[k])})
	}
	sortByMonth(out)
	return out, nil
}

// MonthlyShare returns, per month, the percentage that filterValue holds of
// that month's category distribution. Months where the category never
// occurs produce no point, matching how the share is a fact about observed
// categories rather than a filled series.
func MonthlyShare(ds *domain.Dataset, column, filterValue string) ([]domain.MonthPoint, error) {
	acc, err := categoryAccessor(column)
	if err != nil {
		return nil, err
	}

	matched := map[string]int{}
	totals := map[string]int{}
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		cat, ok := acc(b)
		if !ok {
			continue
		}
		k := monthKey(b.ArrivalDate)
		totals[k]++
		if cat == filterValue {
			matched[k]++
		}
	}

	out := make([]domain.MonthPoint, 0, len(matched))
	for k, n := range matched {
		out = append(out, domain.MonthPoint{Month: k, Value: float64(n) / float64(totals[k]) * 100})
	}
	sortByMonth(out)
	return out, nil
}

// TopCountriesByMean ranks a year's origin countries by mean ADR, keeping
// only countries with more than minGroup bookings that year (small samples
// make noisy rates). Descending by mean; equal means order alphabetically
// by country code so the ranking is deterministic. At most n rows.
func TopCountriesByMean(ds *domain.Dataset, year, n, minGroup int) ([]domain.CountryMean, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", domain.ErrInvalidArgument, n)
	}

	type group struct {
		sum    float64
		count  int
		code   string
		coords *domain.Coords
	}
	groups := map[string]*group{}
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		if b.ArrivalYear != year || b.CountryName == nil {
			continue
		}
		g, ok := groups[*b.CountryName]
		if !ok {
			g = &group{code: b.CountryCode, coords: b.Coords}
			groups[*b.CountryName] = g
		}
		g.sum += b.ADR
		g.count++
	}

	out := make([]domain.CountryMean, 0, len(groups))
	for name, g := range groups {
		if g.count <= minGroup {
			continue
		}
		out = append(out, domain.CountryMean{
			CountryName: name,
			Code:        g.code,
			Mean:        g.sum / float64(g.count),
			Count:       g.count,
			Coords:      g.coords,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Code < out[j].Code
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// CumulativeSnapshot returns the distinct plottable origin countries for all
// bookings dated at or before asOf, restricted to countries that have
// crossed minGroup cumulative bookings by then. Recomputed from scratch per
// call so arbitrary cutoffs, including every distinct date in order, give
// consistent frames.
func CumulativeSnapshot(ds *domain.Dataset, asOf time.Time, minGroup int) domain.Snapshot {
	counts := map[string]int{}
	coords := map[string]domain.Coords{}
	for i := range ds.Bookings {
		b := &ds.Bookings[i]
		if b.ArrivalDate.After(asOf) || b.CountryName == nil {
			continue
		}
		counts[*b.CountryName]++
		if b.Coords != nil {
			coords[*b.CountryName] = *b.Coords
		}
	}

	snap := domain.Snapshot{AsOf: asOf}
	for name, n := range counts {
		if n <= minGroup {
			continue
		}
		c, ok := coords[name]
		if !ok {
			continue
		}
		snap.Points = append(snap.Points, domain.MapPoint{CountryName: name, Lat: c.Lat, Lon: c.Lon})
	}
	sort.Slice(snap.Points, func(i, j int) bool {
		return snap.Points[i].CountryName < snap.Points[j].CountryName
	})
	return snap
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

// "YYYY-MM" keys sort chronologically as strings.
func sortByMonth(pts []domain.MonthPoint) {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Month < pts[j].Month })
}
