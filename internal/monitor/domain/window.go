package domain

import "time"

// LifecyclePhase classifies an auction window against the clock.
type LifecyclePhase string

const (
	PhaseNotStarted LifecyclePhase = "not_started"
	PhaseActive     LifecyclePhase = "active"
	PhaseFinished   LifecyclePhase = "finished"
)

// AuctionWindow is the slice of auction data a monitor session needs: the
// bidding interval and the item under the hammer. It is supplied when the
// session starts and never changes afterwards. ItemID is nil when the
// auction has no item attached; such auctions cannot receive bids.
type AuctionWindow struct {
	AuctionID int64
	StartTime time.Time
	EndTime   time.Time
	ItemID    *int64
}

// HasItem reports whether the auction has an item attached.
func (w AuctionWindow) HasItem() bool { return w.ItemID != nil }

// Countdown is remaining time decomposed into display units.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Snapshot is the result of classifying a window at one instant. While the
// auction has not started Remaining counts down to StartTime, while active
// it counts down to EndTime, and once finished it is all zeros.
type Snapshot struct {
	Phase     LifecyclePhase `json:"phase"`
	Remaining Countdown      `json:"remaining"`
	CanBid    bool           `json:"can_bid"`
}

// Classify computes the lifecycle phase and remaining time for the given
// instant. It is a pure function: the same (now, window) pair always yields
// the same snapshot. The active interval is [StartTime, EndTime) — the
// moment EndTime is reached the auction is finished.
func Classify(now time.Time, w AuctionWindow) Snapshot {
	switch {
	case now.Before(w.StartTime):
		return Snapshot{
			Phase:     PhaseNotStarted,
			Remaining: decompose(w.StartTime.Sub(now)),
		}
	case now.Before(w.EndTime):
		return Snapshot{
			Phase:     PhaseActive,
			Remaining: decompose(w.EndTime.Sub(now)),
			CanBid:    w.HasItem(),
		}
	default:
		return Snapshot{Phase: PhaseFinished}
	}
}

// decompose splits a duration into whole days, hours, minutes and seconds
// by floor division over milliseconds, each unit taking the remainder of
// the previous one.
func decompose(d time.Duration) Countdown {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Countdown{
		Days:    ms / 86400000,
		Hours:   ms % 86400000 / 3600000,
		Minutes: ms % 3600000 / 60000,
		Seconds: ms % 60000 / 1000,
	}
}
