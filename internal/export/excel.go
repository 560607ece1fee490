// Package export writes the static report: an XLSX workbook with every
// aggregate table, and PNG charts. It consumes the same aggregation results
// the HTTP layer serves; nothing here reaches back into the pipeline.
package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/JMuoc/DatavizPAC3/internal/app"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

type Exporter struct {
	Q             *app.QueryService
	ShareFloorPct float64
	TopN          int
	MinGroup      int
}

// WriteWorkbook writes one sheet per aggregate table plus a Summary sheet.
func (e *Exporter) WriteWorkbook(ctx context.Context, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	ds := e.Q.Dataset()
	year := ds.LastDate.Year()

	if err := e.summarySheet(ctx, f, year); err != nil {
		return err
	}
	if err := e.shareSheet(ctx, f, "Class Share", "class", year); err != nil {
		return err
	}
	if err := e.shareSheet(ctx, f, "Continent Share", "continent", year); err != nil {
		return err
	}
	if err := e.monthlySheet(ctx, f); err != nil {
		return err
	}
	for _, y := range ds.Years() {
		if err := e.topSheet(ctx, f, y); err != nil {
			return err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func (e *Exporter) summarySheet(ctx context.Context, f *excelize.File, year int) error {
	sum, err := e.Q.Summary(ctx, year, e.ShareFloorPct)
	if err != nil {
		return err
	}
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	rows := [][2]any{
		{"Year", sum.Year},
		{"Countries of origin", sum.OriginCountries},
		{"Continents", sum.Continents},
		{"International bookings (%)", fmt.Sprintf("%.1f", sum.InternationalShare)},
		{"Average daily rate", fmt.Sprintf("%.1f", sum.MeanADR)},
	}
	for i, kv := range rows {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	return nil
}

func (e *Exporter) shareSheet(ctx context.Context, f *excelize.File, sheet, column string, year int) error {
	share, err := e.Q.Share(ctx, year, column)
	if err != nil {
		return err
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	labels := make([]string, 0, len(share))
	for label := range share {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return share[labels[i]] > share[labels[j]] })

	_ = f.SetCellValue(sheet, "A1", "Category")
	_ = f.SetCellValue(sheet, "B1", "Share (%)")
	for i, label := range labels {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), label)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), fmt.Sprintf("%.2f", share[label]))
	}
	return nil
}

func (e *Exporter) monthlySheet(ctx context.Context, f *excelize.File) error {
	adr, err := e.Q.MonthlyMean(ctx, "adr")
	if err != nil {
		return err
	}
	intl, err := e.Q.MonthlyShare(ctx, "class", domain.ClassInternational)
	if err != nil {
		return err
	}
	intlByMonth := map[string]float64{}
	for _, p := range intl {
		intlByMonth[p.Month] = p.Value
	}

	const sheet = "Monthly"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetCellValue(sheet, "A1", "Month")
	_ = f.SetCellValue(sheet, "B1", "Mean ADR")
	_ = f.SetCellValue(sheet, "C1", "International (%)")
	for i, p := range adr {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", p.Value))
		if v, ok := intlByMonth[p.Month]; ok {
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", v))
		}
	}
	return nil
}

func (e *Exporter) topSheet(ctx context.Context, f *excelize.File, year int) error {
	top, err := e.Q.TopCountries(ctx, year, e.TopN, e.MinGroup)
	if err != nil {
		return err
	}
	sheet := fmt.Sprintf("Top ADR %d", year)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"Country", "Code", "Mean ADR", "Bookings", "Lat", "Lon"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, cm := range top {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), cm.CountryName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cm.Code)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.2f", cm.Mean))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), cm.Count)
		if cm.Coords != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("%.4f", cm.Coords.Lat))
			_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("%.4f", cm.Coords.Lon))
		}
	}
	return nil
}
