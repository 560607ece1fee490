package playback_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/playback"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func testDataset() *domain.Dataset {
	dates := []time.Time{day("2017-01-01"), day("2017-01-02"), day("2017-01-03")}
	return &domain.Dataset{Dates: dates, FirstDate: dates[0], LastDate: dates[2]}
}

func TestPlayer_EmitsEveryDateInOrder(t *testing.T) {
	ds := testDataset()
	snapshots := func(asOf time.Time) domain.Snapshot {
		return domain.Snapshot{AsOf: asOf}
	}

	p := playback.New(ds, snapshots, 0) // unthrottled
	var got []time.Time
	err := p.Run(context.Background(), func(f domain.Snapshot) error {
		got = append(got, f.AsOf)
		return nil
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(got) != len(ds.Dates) {
		t.Fatalf("expected %d frames, got %d", len(ds.Dates), len(got))
	}
	for i := range got {
		if !got[i].Equal(ds.Dates[i]) {
			t.Fatalf("frame %d out of order: %v", i, got[i])
		}
	}
}

func TestPlayer_CancelStopsRun(t *testing.T) {
	ds := testDataset()
	ctx, cancel := context.WithCancel(context.Background())

	frames := 0
	err := playback.New(ds, func(asOf time.Time) domain.Snapshot {
		return domain.Snapshot{AsOf: asOf}
	}, 0).Run(ctx, func(domain.Snapshot) error {
		frames++
		cancel() // stop after the first frame
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if frames != 1 {
		t.Fatalf("expected 1 frame before cancel, got %d", frames)
	}
}

func TestPlayer_EmitErrorStops(t *testing.T) {
	ds := testDataset()
	boom := errors.New("sink full")

	frames := 0
	err := playback.New(ds, func(asOf time.Time) domain.Snapshot {
		return domain.Snapshot{AsOf: asOf}
	}, 0).Run(context.Background(), func(domain.Snapshot) error {
		frames++
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if frames != 1 {
		t.Fatalf("expected 1 frame, got %d", frames)
	}
}
