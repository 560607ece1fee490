package app

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

// View models for the scrollytelling client. Every number here is already
// rounded to two decimals; nothing upstream rounds.

type Slice struct {
	Label string  `json:"label"`
	Pct   float64 `json:"pct"`
}

type Block struct {
	Kind      string               `json:"kind"` // kpi|pie|line|bar|map|scrubber
	Title     string               `json:"title,omitempty"`
	Narrative string               `json:"narrative,omitempty"`
	Palette   []string             `json:"palette,omitempty"`
	KPIs      *domain.Summary      `json:"kpis,omitempty"`
	Slices    []Slice              `json:"slices,omitempty"`
	Line      []domain.MonthPoint  `json:"line,omitempty"`
	Bars      []domain.CountryMean `json:"bars,omitempty"`
	Map       []domain.MapPoint    `json:"map,omitempty"`
	FirstDate string               `json:"first_date,omitempty"`
	LastDate  string               `json:"last_date,omitempty"`
	Year      int                  `json:"year,omitempty"`
}

type Section struct {
	Heading string  `json:"heading"`
	Blocks  []Block `json:"blocks"`
}

type Story struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// fixed palettes carried over from the dashboard design
var (
	paletteClass = []string{"#64B5F6", "#E57373"}
	paletteBlues = []string{"#BBDEFB", "#90CAF9", "#64B5F6", "#42A5F5", "#1E88E5", "#1565C0", "#0D47A1"}
	paletteBars  = []string{"#6EC1E4", "#4CAF50", "#FF6F61", "#00BCD4", "#607D8B"}
)

// StoryService assembles the full narrated page: three sections of KPI,
// pie, line, bar and map blocks. It owns the presentation-only rules:
// the share display floor and two-decimal rounding.
type StoryService struct {
	q             *QueryService
	shareFloorPct float64
	topN          int
	minGroup      int
}

func NewStoryService(q *QueryService, shareFloorPct float64, topN, minGroup int) *StoryService {
	return &StoryService{q: q, shareFloorPct: shareFloorPct, topN: topN, minGroup: minGroup}
}

// Build renders the whole story against the latest year in the data.
func (s *StoryService) Build(ctx context.Context) (Story, error) {
	ds := s.q.Dataset()
	year := ds.LastDate.Year()

	now, err := s.currentSection(ctx, year)
	if err != nil {
		return Story{}, err
	}
	history, err := s.historySection(ctx)
	if err != nil {
		return Story{}, err
	}
	expansion, err := s.expansionSection(ctx, ds.Years())
	if err != nil {
		return Story{}, err
	}

	return Story{
		Title:    "Tracking Back Tourist Revenue",
		Sections: []Section{now, history, expansion},
	}, nil
}

func (s *StoryService) currentSection(ctx context.Context, year int) (Section, error) {
	kpis, err := s.q.Summary(ctx, year, s.shareFloorPct)
	if err != nil {
		return Section{}, err
	}
	kpis.MeanADR = round2(kpis.MeanADR)
	kpis.InternationalShare = round2(kpis.InternationalShare)

	classShare, err := s.q.Share(ctx, year, "class")
	if err != nil {
		return Section{}, err
	}
	contShare, err := s.q.Share(ctx, year, "continent")
	if err != nil {
		return Section{}, err
	}

	classSlices := toSlices(classShare, 0) // both classes always shown
	contSlices := toSlices(contShare, s.shareFloorPct)

	narrative := ""
	if len(contSlices) > 0 {
		narrative = fmt.Sprintf("We had the most presence in %s (%.0f%%)", contSlices[0].Label, contSlices[0].Pct)
		if len(contSlices) > 1 {
			narrative += fmt.Sprintf(", followed by %s (%.0f%%)", contSlices[1].Label, contSlices[1].Pct)
		}
		narrative += "."
	}

	return Section{
		Heading: fmt.Sprintf("%d: Where are we now?", year),
		Blocks: []Block{
			{Kind: "kpi", KPIs: &kpis},
			{
				Kind: "pie", Title: "Total Bookings (%)", Palette: paletteClass, Slices: classSlices,
				Narrative: fmt.Sprintf("In %d, %.0f%% of our bookings were international.", year, classShare[domain.ClassInternational]),
			},
			{
				Kind: "pie", Title: "International Bookings (%)", Palette: paletteBlues, Slices: contSlices,
				Narrative: narrative,
			},
		},
	}, nil
}

func (s *StoryService) historySection(ctx context.Context) (Section, error) {
	adr, err := s.q.MonthlyMean(ctx, "adr")
	if err != nil {
		return Section{}, err
	}
	intl, err := s.q.MonthlyShare(ctx, "class", domain.ClassInternational)
	if err != nil {
		return Section{}, err
	}

	ds := s.q.Dataset()
	return Section{
		Heading: "History: How did we get here?",
		Blocks: []Block{
			{
				Kind: "line", Title: "Average Daily Rate Evolution", Palette: []string{"#1565C0"},
				Line:      roundPoints(adr),
				Narrative: "Our ADR has raised consistently every summer.",
			},
			{
				Kind: "line", Title: "International Bookings (%) Evolution", Palette: []string{"#FF9800"},
				Line:      roundPoints(intl),
				Narrative: "Our percentage of international bookings has been in constant growth.",
			},
			{
				Kind: "scrubber", Title: "Countries of Origin Evolution",
				FirstDate: ds.FirstDate.Format("2006-01-02"),
				LastDate:  ds.LastDate.Format("2006-01-02"),
			},
		},
	}, nil
}

func (s *StoryService) expansionSection(ctx context.Context, years []int) (Section, error) {
	sec := Section{
		Heading: "Expansion: What did we gain?",
	}
	for _, year := range years {
		top, err := s.q.TopCountries(ctx, year, s.topN, s.minGroup)
		if err != nil {
			return Section{}, err
		}
		bars := make([]domain.CountryMean, len(top))
		points := make([]domain.MapPoint, 0, len(top))
		for i, cm := range top {
			cm.Mean = round2(cm.Mean)
			bars[i] = cm
			if cm.Coords != nil {
				points = append(points, domain.MapPoint{
					CountryName: cm.CountryName, Lat: cm.Coords.Lat, Lon: cm.Coords.Lon,
				})
			}
		}
		sec.Blocks = append(sec.Blocks, Block{
			Kind: "bar", Year: year,
			Title:   fmt.Sprintf("Top %d Countries by ADR", s.topN),
			Palette: paletteBars,
			Bars:    bars,
			Map:     points,
		})
	}
	return sec, nil
}

// toSlices flattens a share map into display slices, dropping shares at or
// below the floor and ordering by descending share (ties alphabetical).
func toSlices(share map[string]float64, floorPct float64) []Slice {
	out := make([]Slice, 0, len(share))
	for label, pct := range share {
		if pct <= floorPct && floorPct > 0 {
			continue
		}
		out = append(out, Slice{Label: label, Pct: round2(pct)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pct != out[j].Pct {
			return out[i].Pct > out[j].Pct
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func roundPoints(in []domain.MonthPoint) []domain.MonthPoint {
	out := make([]domain.MonthPoint, len(in))
	for i, p := range in {
		out[i] = domain.MonthPoint{Month: p.Month, Value: round2(p.Value)}
	}
	return out
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
