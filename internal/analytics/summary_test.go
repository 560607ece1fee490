package analytics_test

import (
	"testing"

	"github.com/JMuoc/DatavizPAC3/internal/analytics"
)

func TestSummary(t *testing.T) {
	ds := newDataset(
		booking("2016-05-01", "BRA", "Brazil", "South America", 300), // prior year only
		booking("2017-07-01", "PRT", "Portugal", "Europe", 80),
		booking("2017-07-02", "CHN", "China", "Asia", 120),
		booking("2017-07-03", "GBR", "United Kingdom", "Europe", 100),
		booking("2017-07-04", "ZZZ", "", "", 500), // unmatched joins
	)

	sum, err := analytics.Summary(ds, 2017, 0.8)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// distinct matched country names across ALL years
	if sum.OriginCountries != 4 {
		t.Fatalf("origin countries: %d", sum.OriginCountries)
	}
	// Europe and Asia both clear the display floor in 2017
	if sum.Continents != 2 {
		t.Fatalf("continents: %d", sum.Continents)
	}
	// mean over every 2017 row, including the unmatched one
	if want := (80.0 + 120 + 100 + 500) / 4; !almostEq(sum.MeanADR, want) {
		t.Fatalf("mean adr: %v want %v", sum.MeanADR, want)
	}
	// 3 of 4 2017 bookings are international
	if !almostEq(sum.InternationalShare, 75) {
		t.Fatalf("international share: %v", sum.InternationalShare)
	}
}

func TestSummary_EmptyYear(t *testing.T) {
	ds := newDataset(booking("2017-07-01", "PRT", "Portugal", "Europe", 80))
	sum, err := analytics.Summary(ds, 1999, 0.8)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sum.MeanADR != 0 || sum.InternationalShare != 0 || sum.Continents != 0 {
		t.Fatalf("expected zero KPIs for empty year: %+v", sum)
	}
}
