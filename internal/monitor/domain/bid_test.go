package domain

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func bidAt(id int64, amount int64, offset time.Duration) *Bid {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Bid{
		ID:          id,
		AuctionID:   7,
		BidderID:    id,
		Amount:      decimal.NewFromInt(amount),
		SubmittedAt: base.Add(offset),
	}
}

func TestDetermineWinner_MaxAmountBeatsRecency(t *testing.T) {
	// The latest bid (120) is NOT the highest; the winner must be the
	// 150 bid regardless of submission order.
	bids := []*Bid{
		bidAt(1, 100, 1*time.Second),
		bidAt(2, 150, 2*time.Second),
		bidAt(3, 120, 3*time.Second),
	}

	winner := DetermineWinner(bids)

	check.NotNil(t, winner)
	check.Equal(t, int64(2), winner.ID)
	check.True(t, winner.Amount.Equal(decimal.NewFromInt(150)))
}

func TestDetermineWinner_TieBreaksOnEarliestSubmission(t *testing.T) {
	bids := []*Bid{
		bidAt(1, 150, 5*time.Second),
		bidAt(2, 150, 2*time.Second),
		bidAt(3, 100, 1*time.Second),
	}

	winner := DetermineWinner(bids)

	check.NotNil(t, winner)
	check.Equal(t, int64(2), winner.ID)
}

func TestDetermineWinner_NoBids(t *testing.T) {
	check.Nil(t, DetermineWinner(nil))
	check.Nil(t, DetermineWinner([]*Bid{}))
}

func TestDetermineWinner_SingleBid(t *testing.T) {
	winner := DetermineWinner([]*Bid{bidAt(9, 75, 0)})

	check.NotNil(t, winner)
	check.Equal(t, int64(9), winner.ID)
}

func TestAmountsMonotonic(t *testing.T) {
	tests := []struct {
		name string
		bids []*Bid
		want bool
	}{
		{"empty", nil, true},
		{"single", []*Bid{bidAt(1, 100, 0)}, true},
		{
			"increasing",
			[]*Bid{bidAt(1, 100, 1*time.Second), bidAt(2, 120, 2*time.Second), bidAt(3, 150, 3*time.Second)},
			true,
		},
		{
			"equal amounts allowed",
			[]*Bid{bidAt(1, 100, 1*time.Second), bidAt(2, 100, 2*time.Second)},
			true,
		},
		{
			"later bid lower than earlier",
			[]*Bid{bidAt(1, 100, 1*time.Second), bidAt(2, 150, 2*time.Second), bidAt(3, 120, 3*time.Second)},
			false,
		},
		{
			"detected regardless of slice order",
			[]*Bid{bidAt(3, 120, 3*time.Second), bidAt(1, 100, 1*time.Second), bidAt(2, 150, 2*time.Second)},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.want, AmountsMonotonic(tt.bids))
		})
	}
}
