package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/JMuoc/DatavizPAC3/internal/adapters/observability"
	"github.com/JMuoc/DatavizPAC3/internal/app"
	"github.com/JMuoc/DatavizPAC3/internal/export"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

// One-shot exporter: runs the same pipeline as the API and writes a static
// report (XLSX workbook + PNG charts) instead of serving it.
func main() {
	outDir := flag.String("out", "report", "output directory")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ds, err := app.BuildDataset(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset pipeline failed")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *outDir).Msg("create output directory failed")
	}

	// no cache: a one-shot run computes each aggregate exactly once
	q := app.NewQueryService(ds, nil, 0)
	exp := &export.Exporter{
		Q:             q,
		ShareFloorPct: cfg.ShareFloorPct,
		TopN:          cfg.TopN,
		MinGroup:      cfg.MinGroupSize,
	}

	ctx := context.Background()
	workbook := filepath.Join(*outDir, "booking_story.xlsx")
	if err := exp.WriteWorkbook(ctx, workbook); err != nil {
		log.Fatal().Err(err).Msg("workbook export failed")
	}
	log.Info().Str("file", workbook).Msg("workbook written")

	if err := exp.WriteCharts(ctx, *outDir); err != nil {
		log.Fatal().Err(err).Msg("chart export failed")
	}
	log.Info().Str("dir", *outDir).Msg("charts written")
}
