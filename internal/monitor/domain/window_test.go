package domain

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func testWindow(withItem bool) AuctionWindow {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := AuctionWindow{
		AuctionID: 7,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
	if withItem {
		itemID := int64(42)
		w.ItemID = &itemID
	}
	return w
}

func TestClassify_BeforeStart(t *testing.T) {
	w := testWindow(true)

	// 90061000 ms before the start: 1 day, 1 hour, 1 minute, 1 second.
	now := w.StartTime.Add(-90061 * time.Second)
	snap := Classify(now, w)

	check.Equal(t, PhaseNotStarted, snap.Phase)
	check.Equal(t, Countdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, snap.Remaining)
	check.False(t, snap.CanBid)
}

func TestClassify_Active(t *testing.T) {
	w := testWindow(true)

	now := w.EndTime.Add(-3723 * time.Second) // 1h 2m 3s before the end
	snap := Classify(now, w)

	check.Equal(t, PhaseActive, snap.Phase)
	check.Equal(t, Countdown{Days: 0, Hours: 1, Minutes: 2, Seconds: 3}, snap.Remaining)
	check.True(t, snap.CanBid)
}

func TestClassify_ActiveWithoutItemCannotBid(t *testing.T) {
	w := testWindow(false)

	snap := Classify(w.StartTime.Add(time.Minute), w)

	check.Equal(t, PhaseActive, snap.Phase)
	check.False(t, snap.CanBid)
}

func TestClassify_Finished(t *testing.T) {
	w := testWindow(true)

	snap := Classify(w.EndTime.Add(time.Hour), w)

	check.Equal(t, PhaseFinished, snap.Phase)
	check.Equal(t, Countdown{}, snap.Remaining)
	check.False(t, snap.CanBid)
}

func TestClassify_Boundaries(t *testing.T) {
	w := testWindow(true)

	tests := []struct {
		name string
		now  time.Time
		want LifecyclePhase
	}{
		{"one ms before start", w.StartTime.Add(-time.Millisecond), PhaseNotStarted},
		{"exactly at start", w.StartTime, PhaseActive},
		{"one ms before end", w.EndTime.Add(-time.Millisecond), PhaseActive},
		{"exactly at end", w.EndTime, PhaseFinished},
		{"one ms after end", w.EndTime.Add(time.Millisecond), PhaseFinished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.want, Classify(tt.now, w).Phase)
		})
	}
}

func TestClassify_SubSecondRemainderIsDropped(t *testing.T) {
	w := testWindow(true)

	// 1500 ms of remaining time floor to a single second.
	snap := Classify(w.EndTime.Add(-1500*time.Millisecond), w)

	check.Equal(t, PhaseActive, snap.Phase)
	check.Equal(t, Countdown{Seconds: 1}, snap.Remaining)
}
