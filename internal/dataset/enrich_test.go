package dataset_test

import (
	"testing"

	"github.com/JMuoc/DatavizPAC3/internal/dataset"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

func testConfig() shared.Config {
	return shared.Config{
		HomeCountry:    "PRT",
		CountryAliases: map[string]string{"CN": "CHN"},
	}
}

func testSources() *dataset.Sources {
	return &dataset.Sources{
		Boundaries: map[string]domain.CountryBoundary{
			"PRT": {Code: "PRT", Name: "Portugal", Centroid: domain.Coords{Lat: 39.5, Lon: -8.0}},
			"CHN": {Code: "CHN", Name: "China", Centroid: domain.Coords{Lat: 36.5, Lon: 103.8}},
			"XKX": {Code: "XKX", Name: "Kosovo", Centroid: domain.Coords{Lat: 42.6, Lon: 20.9}},
		},
		Continents: domain.ContinentLookup{
			"Portugal": "Europe",
			"China":    "Asia",
			// Kosovo deliberately missing to exercise the continent-join miss
		},
	}
}

func TestEnrich_RowCountInvariant(t *testing.T) {
	raw := []dataset.RawBooking{
		{Year: 2017, Month: 7, Day: 1, Country: "PRT", ADR: 80},
		{Year: 2017, Month: 7, Day: 2, Country: "", ADR: 90},     // dropped: no country
		{Year: 2017, Month: 2, Day: 30, Country: "PRT", ADR: 70}, // dropped: bad date
		{Year: 2017, Month: 7, Day: 3, Country: "CN", ADR: 120},
	}
	e := dataset.NewEnricher(testConfig(), testSources())
	ds, err := e.Enrich(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if ds.RawRows != 4 || ds.DroppedNoCountry != 1 || ds.DroppedBadDate != 1 {
		t.Fatalf("unexpected counts: %+v", ds)
	}
	if got := len(ds.Bookings); got != ds.RawRows-ds.DroppedNoCountry-ds.DroppedBadDate {
		t.Fatalf("row-count invariant broken: %d bookings", got)
	}
}

func TestEnrich_NormalizationAndJoins(t *testing.T) {
	raw := []dataset.RawBooking{
		{Year: 2017, Month: 7, Day: 3, Country: "CN", ADR: 120},
		{Year: 2017, Month: 7, Day: 4, Country: "XKX", ADR: 60},
		{Year: 2017, Month: 7, Day: 5, Country: "ZZZ", ADR: 50}, // no boundary match
	}
	e := dataset.NewEnricher(testConfig(), testSources())
	ds, err := e.Enrich(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	cn := ds.Bookings[0]
	if cn.CountryCode != "CHN" {
		t.Fatalf("CN not normalized: %q", cn.CountryCode)
	}
	if cn.CountryName == nil || *cn.CountryName != "China" {
		t.Fatalf("boundary join failed: %+v", cn)
	}
	if cn.Continent == nil || *cn.Continent != "Asia" {
		t.Fatalf("continent join failed: %+v", cn)
	}
	if cn.Coords == nil || cn.Coords.Lat != 36.5 {
		t.Fatalf("centroid join failed: %+v", cn.Coords)
	}
	if cn.Class != domain.ClassInternational {
		t.Fatalf("class: %q", cn.Class)
	}

	// matched boundary, missing continent: name set, continent nil, row kept
	kosovo := ds.Bookings[1]
	if kosovo.CountryName == nil || kosovo.Continent != nil {
		t.Fatalf("expected name without continent: %+v", kosovo)
	}

	// no boundary match: all geo fields nil, row still kept
	unknown := ds.Bookings[2]
	if unknown.CountryName != nil || unknown.Coords != nil || unknown.Continent != nil {
		t.Fatalf("expected nil geo fields: %+v", unknown)
	}
}

func TestEnrich_Classification(t *testing.T) {
	raw := []dataset.RawBooking{
		{Year: 2016, Month: 1, Day: 1, Country: "PRT", ADR: 10},
		{Year: 2016, Month: 1, Day: 1, Country: "CHN", ADR: 10},
	}
	e := dataset.NewEnricher(testConfig(), testSources())
	ds, err := e.Enrich(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ds.Bookings[0].Class != domain.ClassDomestic {
		t.Fatalf("PRT should be domestic, got %q", ds.Bookings[0].Class)
	}
	if ds.Bookings[1].Class != domain.ClassInternational {
		t.Fatalf("CHN should be international, got %q", ds.Bookings[1].Class)
	}
}

func TestNormalizeCode_Idempotent(t *testing.T) {
	e := dataset.NewEnricher(testConfig(), testSources())
	for _, code := range []string{"CN", "CHN", "PRT", "ZZZ", ""} {
		once := e.NormalizeCode(code)
		twice := e.NormalizeCode(once)
		if once != twice {
			t.Fatalf("normalization not idempotent for %q: %q then %q", code, once, twice)
		}
	}
}

func TestEnrich_DateBounds(t *testing.T) {
	raw := []dataset.RawBooking{
		{Year: 2017, Month: 8, Day: 31, Country: "PRT", ADR: 10},
		{Year: 2015, Month: 7, Day: 1, Country: "PRT", ADR: 10},
		{Year: 2016, Month: 3, Day: 15, Country: "PRT", ADR: 10},
		{Year: 2015, Month: 7, Day: 1, Country: "CHN", ADR: 10}, // duplicate date
	}
	e := dataset.NewEnricher(testConfig(), testSources())
	ds, err := e.Enrich(raw)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(ds.Dates) != 3 {
		t.Fatalf("expected 3 distinct dates, got %d", len(ds.Dates))
	}
	if ds.FirstDate.Format("2006-01-02") != "2015-07-01" || ds.LastDate.Format("2006-01-02") != "2017-08-31" {
		t.Fatalf("bounds: %v .. %v", ds.FirstDate, ds.LastDate)
	}
	for i := 1; i < len(ds.Dates); i++ {
		if !ds.Dates[i-1].Before(ds.Dates[i]) {
			t.Fatalf("dates not strictly ascending at %d", i)
		}
	}
}
