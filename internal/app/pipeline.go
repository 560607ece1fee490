package app

import (
	"context"

	"github.com/JMuoc/DatavizPAC3/internal/dataset"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

// BuildDataset runs the whole startup pipeline: load the three sources,
// then enrich the booking rows into the immutable dataset every query reads
// from. Called once per process; any failure here is fatal to the caller.
func BuildDataset(ctx context.Context, cfg shared.Config) (*domain.Dataset, error) {
	src, err := dataset.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return dataset.NewEnricher(cfg, src).Enrich(src.Bookings)
}
