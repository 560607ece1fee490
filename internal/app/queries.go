package app

import (
	"context"
	"fmt"
	"time"

	"github.com/JMuoc/DatavizPAC3/internal/analytics"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

// QueryService fronts the analytics functions with an optional cache. The
// aggregations are cheap enough to recompute, but dashboard clients poll
// the same parameter tuples on every scroll, so results are cached per key
// with a TTL. Works with a nil cache.
type QueryService struct {
	ds       *domain.Dataset
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(ds *domain.Dataset, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{ds: ds, cache: c, cacheTTL: ttl}
}

// Dataset exposes the read-only enriched table for callers that drive the
// playback loop or need date bounds.
func (s *QueryService) Dataset() *domain.Dataset { return s.ds }

func (s *QueryService) Summary(ctx context.Context, year int, shareFloorPct float64) (domain.Summary, error) {
	key := fmt.Sprintf("summary:%d:%.2f", year, shareFloorPct)
	var out domain.Summary
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := analytics.Summary(s.ds, year, shareFloorPct)
	if err != nil {
		return domain.Summary{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) Share(ctx context.Context, year int, column string) (map[string]float64, error) {
	key := fmt.Sprintf("share:%d:%s", year, column)
	var out map[string]float64
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := analytics.ShareByCategory(s.ds, year, column)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) MonthlyMean(ctx context.Context, column string) ([]domain.MonthPoint, error) {
	key := "monthly_mean:" + column
	var out []domain.MonthPoint
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := analytics.MonthlyMean(s.ds, column)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) MonthlyShare(ctx context.Context, column, filterValue string) ([]domain.MonthPoint, error) {
	key := fmt.Sprintf("monthly_share:%s:%s", column, filterValue)
	var out []domain.MonthPoint
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := analytics.MonthlyShare(s.ds, column, filterValue)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) TopCountries(ctx context.Context, year, n, minGroup int) ([]domain.CountryMean, error) {
	key := fmt.Sprintf("top:%d:%d:%d", year, n, minGroup)
	var out []domain.CountryMean
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := analytics.TopCountriesByMean(s.ds, year, n, minGroup)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

// Snapshot is not cached: the playback loop walks hundreds of distinct
// dates and each frame is a fresh linear pass anyway.
func (s *QueryService) Snapshot(_ context.Context, asOf time.Time, minGroup int) domain.Snapshot {
	return analytics.CumulativeSnapshot(s.ds, asOf, minGroup)
}

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, _ := s.cache.Get(ctx, key, dst)
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}
