package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionNotWatched = errors.New("auction is not being watched")
	ErrBiddingClosed     = errors.New("auction is not open for bidding")
	ErrAuctionHasNoItem  = errors.New("auction has no item attached")
	ErrInvalidAmount     = errors.New("bid amount must be greater than zero")
	ErrNoWinningBid      = errors.New("auction finished without bids")
)

// NetworkError marks a request that never completed: connection refused,
// timeout, DNS failure. The request may or may not have reached the server.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError marks a request the server answered with a failure status.
type RejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.Status, e.Message)
}
