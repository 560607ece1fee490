package dataset

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/JMuoc/DatavizPAC3/internal/adapters/observability"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

// Enricher turns raw booking rows into the enriched table every aggregation
// reads from. It runs once at startup; the resulting Dataset is immutable.
type Enricher struct {
	home       string
	aliases    map[string]string
	boundaries map[string]domain.CountryBoundary
	continents domain.ContinentLookup
}

func NewEnricher(cfg shared.Config, src *Sources) *Enricher {
	return &Enricher{
		home:       cfg.HomeCountry,
		aliases:    cfg.CountryAliases,
		boundaries: src.Boundaries,
		continents: src.Continents,
	}
}

// NormalizeCode remaps known non-standard codes onto the standard form the
// geo source uses (the booking data encodes China as "CN"). Idempotent:
// alias targets are standard codes and never alias keys themselves.
func (e *Enricher) NormalizeCode(code string) string {
	if std, ok := e.aliases[code]; ok {
		return std
	}
	return code
}

// Classify is a total function of the origin code.
func (e *Enricher) Classify(code string) string {
	if code == e.home {
		return domain.ClassDomestic
	}
	return domain.ClassInternational
}

// Enrich applies the whole per-row pipeline: normalize the country code,
// drop rows without one (a data-cleaning policy, not an error), assemble and
// validate the arrival date (malformed dates reject the row), classify, and
// left-join name/centroid/continent. Join misses keep nil fields.
func (e *Enricher) Enrich(raw []RawBooking) (*domain.Dataset, error) {
	start := time.Now()
	ds := &domain.Dataset{
		Bookings: make([]domain.Booking, 0, len(raw)),
		RawRows:  len(raw),
	}
	dateSet := map[time.Time]bool{}

	for _, r := range raw {
		code := e.NormalizeCode(r.Country)
		if code == "" {
			ds.DroppedNoCountry++
			continue
		}

		date, err := assembleDate(r.Year, r.Month, r.Day)
		if err != nil {
			ds.DroppedBadDate++
			log.Warn().Int("year", r.Year).Int("month", r.Month).Int("day", r.Day).
				Msg("rejecting booking with malformed arrival date")
			continue
		}

		b := domain.Booking{
			ArrivalDate:  date,
			ArrivalYear:  r.Year,
			ArrivalMonth: r.Month,
			ArrivalDay:   r.Day,
			CountryCode:  code,
			ADR:          r.ADR,
			Class:        e.Classify(code),
		}
		if cb, ok := e.boundaries[code]; ok {
			name := cb.Name
			coords := cb.Centroid
			b.CountryName = &name
			b.Coords = &coords
			if cont, ok := e.continents[name]; ok {
				c := cont
				b.Continent = &c
			}
		}

		ds.Bookings = append(ds.Bookings, b)
		dateSet[date] = true
	}

	if len(ds.Bookings) == 0 {
		return nil, fmt.Errorf("%w: no bookings survived enrichment", domain.ErrUnavailable)
	}

	ds.Dates = make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		ds.Dates = append(ds.Dates, d)
	}
	sort.Slice(ds.Dates, func(i, j int) bool { return ds.Dates[i].Before(ds.Dates[j]) })
	ds.FirstDate = ds.Dates[0]
	ds.LastDate = ds.Dates[len(ds.Dates)-1]

	observability.ObservePipeline("rows_enriched", float64(len(ds.Bookings)))
	observability.ObservePipeline("rows_dropped_no_country", float64(ds.DroppedNoCountry))
	observability.ObservePipeline("rows_dropped_bad_date", float64(ds.DroppedBadDate))

	log.Info().
		Int("rows", len(ds.Bookings)).
		Int("dropped_no_country", ds.DroppedNoCountry).
		Int("dropped_bad_date", ds.DroppedBadDate).
		Time("first", ds.FirstDate).
		Time("last", ds.LastDate).
		Dur("took", time.Since(start)).
		Msg("enrichment complete")
	return ds, nil
}

// assembleDate builds the zero-padded "YYYY-MM-DD" string and parses it, so
// impossible combinations (2017-02-30) come back as errors instead of being
// coerced.
func assembleDate(year, month, day int) (time.Time, error) {
	s := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	return time.Parse("2006-01-02", s)
}
