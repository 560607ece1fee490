// Package playback drives the animated origin map: one frame per distinct
// arrival date, in chronological order. The frame pacing and the snapshot
// computation are decoupled; the player only schedules calls.
package playback

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/JMuoc/DatavizPAC3/internal/adapters/observability"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
)

// SnapshotFunc computes the cumulative map state as of one date.
type SnapshotFunc func(asOf time.Time) domain.Snapshot

// FrameFunc receives each frame. Returning an error stops the run.
type FrameFunc func(frame domain.Snapshot) error

type Player struct {
	dates    []time.Time
	snapshot SnapshotFunc
	limiter  *rate.Limiter
}

// New builds a player over the dataset's distinct dates, paced at fps
// frames per second. fps <= 0 runs unthrottled.
func New(ds *domain.Dataset, snapshot SnapshotFunc, fps float64) *Player {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &Player{
		dates:    ds.Dates,
		snapshot: snapshot,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Run emits every frame in order, pacing emissions at the configured rate.
// Cancelling ctx stops the run; no state survives a run, every frame is
// recomputed from the immutable dataset.
func (p *Player) Run(ctx context.Context, emit FrameFunc) error {
	for _, d := range p.dates {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := emit(p.snapshot(d)); err != nil {
			return err
		}
		observability.ObserveFrame()
	}
	return nil
}
