package export

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

var (
	adrLineColor  = color.RGBA{R: 0x15, G: 0x65, B: 0xC0, A: 255} // #1565C0
	intlLineColor = color.RGBA{R: 0xFF, G: 0x98, B: 0x00, A: 255} // #FF9800
	barFillColor  = color.RGBA{R: 0x6E, G: 0xC1, B: 0xE4, A: 255} // #6EC1E4
)

// WriteCharts renders the PNG charts into dir: both monthly lines and one
// top-N bar chart per year.
func (e *Exporter) WriteCharts(ctx context.Context, dir string) error {
	adr, err := e.Q.MonthlyMean(ctx, "adr")
	if err != nil {
		return err
	}
	if err := lineChart(adr, "Average Daily Rate Evolution", "Average Daily Rate (ADR)",
		adrLineColor, filepath.Join(dir, "adr_monthly.png")); err != nil {
		return err
	}

	intl, err := e.Q.MonthlyShare(ctx, "class", domain.ClassInternational)
	if err != nil {
		return err
	}
	if err := lineChart(intl, "International Bookings Evolution", "International Bookings (%)",
		intlLineColor, filepath.Join(dir, "international_monthly.png")); err != nil {
		return err
	}

	for _, year := range e.Q.Dataset().Years() {
		top, err := e.Q.TopCountries(ctx, year, e.TopN, e.MinGroup)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("top_countries_%d.png", year)
		if err := barChart(top, fmt.Sprintf("Top %d Countries by ADR, %d", e.TopN, year),
			filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func lineChart(pts []domain.MonthPoint, title, yLabel string, c color.Color, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Month-Year"
	p.Y.Label.Text = yLabel

	xys := make(plotter.XYs, len(pts))
	months := make([]string, len(pts))
	for i, pt := range pts {
		xys[i].X = float64(i)
		xys[i].Y = pt.Value
		months[i] = pt.Month
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = c
	p.Add(line)
	p.NominalX(months...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -0.9

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

func barChart(top []domain.CountryMean, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Average Daily Rate (ADR)"

	vals := make(plotter.Values, len(top))
	names := make([]string, len(top))
	for i, cm := range top {
		vals[i] = cm.Mean
		names[i] = cm.CountryName
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(26))
	if err != nil {
		return err
	}
	bars.Color = barFillColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
