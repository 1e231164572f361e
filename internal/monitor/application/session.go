package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"go.uber.org/zap"
)

// Clock supplies the current instant. Injectable so the lifecycle state
// machine stays deterministic under test.
type Clock func() time.Time

// Session monitors one auction window for one viewing session: it owns the
// countdown, the cached bid snapshot and the settlement guard. All side
// effects go through the injected gateways and notifier; the classification
// itself is the pure domain.Classify.
type Session struct {
	window domain.AuctionWindow
	guard  domain.SettlementGuard

	bidGW     domain.BidGateway
	paymentGW domain.PaymentGateway
	notifier  domain.Notifier

	clock    Clock
	interval time.Duration
	// dispatch runs the settlement request off the tick loop. Replaced in
	// tests to run inline.
	dispatch func(func())

	mu        sync.Mutex
	bids      []*domain.Bid
	winner    *domain.Bid
	prevPhase domain.LifecyclePhase // empty until the first tick
}

// NewSession creates a session for the given window. The interval is the
// tick period; the clock defaults to time.Now when nil.
func NewSession(window domain.AuctionWindow,
	bidGW domain.BidGateway,
	paymentGW domain.PaymentGateway,
	notifier domain.Notifier,
	clock Clock,
	interval time.Duration) *Session {

	if clock == nil {
		clock = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Session{
		window:    window,
		bidGW:     bidGW,
		paymentGW: paymentGW,
		notifier:  notifier,
		clock:     clock,
		interval:  interval,
		dispatch:  func(fn func()) { go fn() },
	}
}

// Window returns the immutable window this session watches.
func (s *Session) Window() domain.AuctionWindow { return s.window }

// Snapshot classifies the window at the current clock instant.
func (s *Session) Snapshot() domain.Snapshot {
	return domain.Classify(s.clock(), s.window)
}

// Bids returns the cached bid list and the current winning bid.
func (s *Session) Bids() ([]*domain.Bid, *domain.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids, s.winner
}

// Settled reports whether a settlement attempt holds the guard.
func (s *Session) Settled() bool { return s.guard.Settled() }

// Run drives the session until ctx is cancelled: an immediate evaluation at
// mount, then one tick per interval. Cancelling ctx stops the ticker and
// releases the goroutine; a session is never reused after that.
func (s *Session) Run(ctx context.Context) {
	log.Info("monitor session started",
		zap.Int64("auctionID", s.window.AuctionID),
		zap.Time("startTime", s.window.StartTime),
		zap.Time("endTime", s.window.EndTime),
	)

	if err := s.RefreshBids(ctx); err != nil {
		log.Warn("initial bid refresh failed",
			zap.Int64("auctionID", s.window.AuctionID),
			zap.Error(err),
		)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("monitor session stopped", zap.Int64("auctionID", s.window.AuctionID))
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick recomputes the snapshot, reports it, and attempts settlement while
// the auction is finished. It never blocks on network requests.
func (s *Session) tick(ctx context.Context) {
	snap := domain.Classify(s.clock(), s.window)

	s.mu.Lock()
	prev := s.prevPhase
	s.prevPhase = snap.Phase
	s.mu.Unlock()

	s.notifier.Tick(s.window.AuctionID, snap)

	if prev != "" && prev != snap.Phase {
		log.Info("auction phase changed",
			zap.Int64("auctionID", s.window.AuctionID),
			zap.String("from", string(prev)),
			zap.String("to", string(snap.Phase)),
		)
		s.notifier.PhaseChanged(s.window.AuctionID, prev, snap.Phase)
	}

	if snap.Phase == domain.PhaseFinished {
		s.trySettle(ctx)
	}
}

// trySettle dispatches at most one payment creation per session. The guard
// is acquired synchronously before the request goes out, so ticks arriving
// while the request is in flight cannot fire a duplicate; it is released
// again only if the request fails, which lets a later tick retry.
func (s *Session) trySettle(ctx context.Context) {
	if !s.window.HasItem() {
		return
	}

	s.mu.Lock()
	winner := s.winner
	s.mu.Unlock()
	if winner == nil {
		return
	}

	if !s.guard.TryAcquire() {
		return
	}

	payment := &domain.Payment{
		AmountPaid: winner.Amount,
		Status:     domain.PaymentPending,
		BidderID:   winner.BidderID,
		AuctionID:  s.window.AuctionID,
		ItemID:     *s.window.ItemID,
	}

	// The request must survive session teardown once dispatched.
	reqCtx := context.WithoutCancel(ctx)
	s.dispatch(func() {
		created, err := s.paymentGW.CreatePayment(reqCtx, payment)
		if err != nil {
			log.Error("settlement failed, releasing guard for retry",
				zap.Int64("auctionID", s.window.AuctionID),
				zap.Int64("bidderID", winner.BidderID),
				zap.String("amount", winner.Amount.String()),
				zap.Error(err),
			)
			s.guard.Release()
			s.notifier.SettlementFailed(s.window.AuctionID, err)
			return
		}
		log.Info("auction settled",
			zap.Int64("auctionID", s.window.AuctionID),
			zap.Int64("paymentID", created.ID),
			zap.Int64("bidderID", winner.BidderID),
			zap.String("amount", winner.Amount.String()),
		)
		s.notifier.SettlementSucceeded(s.window.AuctionID, created, winner)
	})
}

// RefreshBids reloads the bid list from the API and recomputes the winning
// bid. Called at session start, on explicit request, and after a bid
// mutation — never from the ticker.
func (s *Session) RefreshBids(ctx context.Context) error {
	bids, err := s.bidGW.ListBids(ctx, s.window.AuctionID)
	if err != nil {
		return fmt.Errorf("refresh bids for auction %d: %w", s.window.AuctionID, err)
	}

	winner := domain.DetermineWinner(bids)
	if !domain.AmountsMonotonic(bids) {
		log.Warn("bid amounts are not monotonically increasing; most recent bid is not the winning bid",
			zap.Int64("auctionID", s.window.AuctionID),
			zap.Int("bids", len(bids)),
		)
	}

	s.mu.Lock()
	s.bids = bids
	s.winner = winner
	s.mu.Unlock()

	s.notifier.BidsRefreshed(s.window.AuctionID, bids, winner)
	return nil
}
