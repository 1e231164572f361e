package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Bid represents a single bid observed on an auction. Bids are created and
// stored by the remote API; this service only reads and submits them.
type Bid struct {
	ID          int64
	AuctionID   int64
	ItemID      int64
	BidderID    int64
	BidderName  string
	Amount      decimal.Decimal
	SubmittedAt time.Time
}

// DetermineWinner selects the winning bid: highest amount, tie-broken by
// earliest submission. Returns nil when there are no bids. The rule is
// deliberately "max amount" and not "most recent bid" — recency only equals
// the winner while amounts grow monotonically, which the backend does not
// enforce.
func DetermineWinner(bids []*Bid) *Bid {
	var winner *Bid
	for _, b := range bids {
		if b == nil {
			continue
		}
		if winner == nil {
			winner = b
			continue
		}
		switch b.Amount.Cmp(winner.Amount) {
		case 1:
			winner = b
		case 0:
			if b.SubmittedAt.Before(winner.SubmittedAt) {
				winner = b
			}
		}
	}
	return winner
}

// AmountsMonotonic reports whether bid amounts never decrease in submission
// order. A false result is a data-integrity condition: displays that treat
// "latest bid" as "winning bid" are lying for this auction, and callers
// should surface a warning instead of trusting recency.
func AmountsMonotonic(bids []*Bid) bool {
	ordered := make([]*Bid, 0, len(bids))
	for _, b := range bids {
		if b != nil {
			ordered = append(ordered, b)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Amount.LessThan(ordered[i-1].Amount) {
			return false
		}
	}
	return true
}
