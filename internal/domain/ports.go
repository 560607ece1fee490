package domain

import "context"

// Cache is the aggregate-result cache port. Implementations must treat a
// missing key as (false, nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
