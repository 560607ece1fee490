package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/JMuoc/DatavizPAC3/internal/adapters/observability"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

// RawBooking is one booking row as parsed from the CSV, before enrichment.
type RawBooking struct {
	Year    int
	Month   int
	Day     int
	Country string // raw code, may be empty/placeholder
	ADR     float64
}

// Sources holds the three loaded inputs. Built once at startup, read-only
// afterwards; the Enricher joins against it but never mutates it.
type Sources struct {
	Bookings   []RawBooking
	Boundaries map[string]domain.CountryBoundary // keyed by ISO-3 code
	Continents domain.ContinentLookup            // keyed by country display name
}

// Load reads the three source datasets concurrently. Any missing or
// malformed resource is fatal to the caller; there is no retry.
func Load(ctx context.Context, cfg shared.Config) (*Sources, error) {
	start := time.Now()
	src := &Sources{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := loadBookings(cfg.BookingsCSV)
		if err != nil {
			return err
		}
		src.Bookings = rows
		return nil
	})
	g.Go(func() error {
		bs, err := loadBoundaries(cfg.CountriesGeo)
		if err != nil {
			return err
		}
		src.Boundaries = bs
		return nil
	})
	g.Go(func() error {
		cs, err := loadContinents(cfg.ContinentsCSV)
		if err != nil {
			return err
		}
		src.Continents = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	observability.ObservePipeline("rows_loaded", float64(len(src.Bookings)))
	log.Info().
		Int("bookings", len(src.Bookings)).
		Int("countries", len(src.Boundaries)).
		Int("continents", len(src.Continents)).
		Dur("took", time.Since(start)).
		Msg("datasets loaded")
	return src, nil
}

func loadBookings(path string) ([]RawBooking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: bookings %q: %v", domain.ErrUnavailable, path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("%w: bookings %q: %v", domain.ErrUnavailable, path, df.Err)
	}
	rows, err := mapBookings(df.Maps())
	if err != nil {
		return nil, fmt.Errorf("%w: bookings %q: %v", domain.ErrUnavailable, path, err)
	}
	return rows, nil
}

// loadBoundaries decodes the country polygons and reduces each one to its
// centroid right away. One centroid per country; geometry is not retained.
func loadBoundaries(path string) (map[string]domain.CountryBoundary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: boundaries %q: %v", domain.ErrUnavailable, path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: boundaries %q: %v", domain.ErrUnavailable, path, err)
	}

	out := make(map[string]domain.CountryBoundary, len(fc.Features))
	for _, feat := range fc.Features {
		code, _ := feat.Properties["ADM0_A3"].(string)
		name, _ := feat.Properties["ADMIN"].(string)
		if code == "" || feat.Geometry == nil {
			continue
		}
		center, _ := planar.CentroidArea(feat.Geometry)
		out[code] = domain.CountryBoundary{
			Code:     code,
			Name:     name,
			Centroid: domain.Coords{Lat: center.Lat(), Lon: center.Lon()},
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: boundaries %q: no usable features", domain.ErrUnavailable, path)
	}
	return out, nil
}

func loadContinents(path string) (domain.ContinentLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: continents %q: %v", domain.ErrUnavailable, path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("%w: continents %q: %v", domain.ErrUnavailable, path, df.Err)
	}
	lookup, err := mapContinents(df.Maps())
	if err != nil {
		return nil, fmt.Errorf("%w: continents %q: %v", domain.ErrUnavailable, path, err)
	}
	return lookup, nil
}
