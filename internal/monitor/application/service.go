package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var timeNow Clock = time.Now

// MonitorService is the application interface of the monitor module,
// exposed to the infra layer (HTTP routes and websocket handlers).
type MonitorService interface {
	// Watch starts a monitor session for the auction. Idempotent: watching
	// an already-watched auction is a no-op.
	Watch(ctx context.Context, auctionID int64) error
	// Unwatch cancels the auction's session and its ticker.
	Unwatch(auctionID int64) error
	// Snapshot returns the current lifecycle snapshot of a watched auction.
	Snapshot(auctionID int64) (domain.Snapshot, error)
	// AuctionState assembles the full auction view for a watched auction.
	AuctionState(ctx context.Context, auctionID int64) (*AuctionStateDTO, error)
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error)
	UpdateBid(ctx context.Context, cmd EditBidDTO) error
	DeleteBid(ctx context.Context, auctionID, bidID int64) error
	RefreshBids(ctx context.Context, auctionID int64) error
	ListBidders(ctx context.Context) ([]*domain.Bidder, error)
	// StopAll cancels every running session; used on shutdown.
	StopAll()
}

// Gateways bundles the API ports the service depends on.
type Gateways struct {
	Auction    domain.AuctionGateway
	Bid        domain.BidGateway
	Bidder     domain.BidderGateway
	Item       domain.ItemGateway
	Payment    domain.PaymentGateway
	Address    domain.AddressGateway
	Auctioneer domain.AuctioneerGateway
	Category   domain.CategoryGateway
}

type sessionHandle struct {
	session *Session
	cancel  context.CancelFunc
}

type monitorService struct {
	gw       Gateways
	notifier domain.Notifier
	clock    Clock
	interval time.Duration

	placeBidUC  *PlaceBidUseCase
	updateBidUC *UpdateBidUseCase
	deleteBidUC *DeleteBidUseCase
	stateUC     *GetAuctionStateUseCase

	mu       sync.Mutex
	sessions map[int64]*sessionHandle
}

// NewMonitorService wires the use cases and returns the service. A nil
// clock means the wall clock; interval is the tick period.
func NewMonitorService(gw Gateways, notifier domain.Notifier, clock Clock, interval time.Duration) MonitorService {
	if clock == nil {
		clock = timeNow
	}
	return &monitorService{
		gw:          gw,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
		placeBidUC:  NewPlaceBidUseCase(gw.Bid, gw.Item, clock),
		updateBidUC: NewUpdateBidUseCase(gw.Bid, gw.Item, clock),
		deleteBidUC: NewDeleteBidUseCase(gw.Bid, gw.Item),
		stateUC:     NewGetAuctionStateUseCase(gw.Auction, gw.Address, gw.Auctioneer, gw.Item, gw.Category),
		sessions:    make(map[int64]*sessionHandle),
	}
}

// Watch implements MonitorService.
func (ms *monitorService) Watch(ctx context.Context, auctionID int64) error {
	ms.mu.Lock()
	_, exists := ms.sessions[auctionID]
	ms.mu.Unlock()
	if exists {
		return nil
	}

	rec, err := ms.gw.Auction.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("watch auction %d: %w", auctionID, err)
	}

	session := NewSession(rec.Window(), ms.gw.Bid, ms.gw.Payment, ms.notifier, ms.clock, ms.interval)
	runCtx, cancel := context.WithCancel(context.Background())

	ms.mu.Lock()
	if _, exists := ms.sessions[auctionID]; exists {
		// Lost the race to another watcher.
		ms.mu.Unlock()
		cancel()
		return nil
	}
	ms.sessions[auctionID] = &sessionHandle{session: session, cancel: cancel}
	ms.mu.Unlock()

	go session.Run(runCtx)
	log.Info("watching auction", zap.Int64("auctionID", auctionID))
	return nil
}

// Unwatch implements MonitorService.
func (ms *monitorService) Unwatch(auctionID int64) error {
	ms.mu.Lock()
	handle, ok := ms.sessions[auctionID]
	if ok {
		delete(ms.sessions, auctionID)
	}
	ms.mu.Unlock()

	if !ok {
		return domain.ErrAuctionNotWatched
	}
	handle.cancel()
	log.Info("stopped watching auction", zap.Int64("auctionID", auctionID))
	return nil
}

func (ms *monitorService) sessionFor(auctionID int64) (*Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	handle, ok := ms.sessions[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotWatched
	}
	return handle.session, nil
}

// Snapshot implements MonitorService.
func (ms *monitorService) Snapshot(auctionID int64) (domain.Snapshot, error) {
	session, err := ms.sessionFor(auctionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// AuctionState implements MonitorService.
func (ms *monitorService) AuctionState(ctx context.Context, auctionID int64) (*AuctionStateDTO, error) {
	session, err := ms.sessionFor(auctionID)
	if err != nil {
		return nil, err
	}
	return ms.stateUC.Execute(ctx, session)
}

// PlaceBid implements MonitorService.
func (ms *monitorService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	session, err := ms.sessionFor(cmd.AuctionID)
	if err != nil {
		return nil, err
	}
	return ms.placeBidUC.Execute(ctx, session, cmd)
}

// UpdateBid implements MonitorService.
func (ms *monitorService) UpdateBid(ctx context.Context, cmd EditBidDTO) error {
	session, err := ms.sessionFor(cmd.AuctionID)
	if err != nil {
		return err
	}
	return ms.updateBidUC.Execute(ctx, session, cmd)
}

// DeleteBid implements MonitorService.
func (ms *monitorService) DeleteBid(ctx context.Context, auctionID, bidID int64) error {
	session, err := ms.sessionFor(auctionID)
	if err != nil {
		return err
	}
	return ms.deleteBidUC.Execute(ctx, session, bidID)
}

// RefreshBids implements MonitorService.
func (ms *monitorService) RefreshBids(ctx context.Context, auctionID int64) error {
	session, err := ms.sessionFor(auctionID)
	if err != nil {
		return err
	}
	return session.RefreshBids(ctx)
}

// ListBidders implements MonitorService.
func (ms *monitorService) ListBidders(ctx context.Context) ([]*domain.Bidder, error) {
	return ms.gw.Bidder.ListBidders(ctx)
}

// StopAll implements MonitorService.
func (ms *monitorService) StopAll() {
	ms.mu.Lock()
	handles := make([]*sessionHandle, 0, len(ms.sessions))
	for id, h := range ms.sessions {
		handles = append(handles, h)
		delete(ms.sessions, id)
	}
	ms.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
	log.Info("all monitor sessions stopped", zap.Int("count", len(handles)))
}
