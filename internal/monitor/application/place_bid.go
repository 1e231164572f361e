package application

import (
	"context"
	"fmt"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlaceBidDTO is the input for the place-bid use case.
type PlaceBidDTO struct {
	AuctionID int64
	BidderID  int64
	Amount    decimal.Decimal
}

// PlaceBidUseCase submits a new bid through the API for an auction the
// monitor is watching. The auction must be in its active phase and carry an
// item; both are preconditions for bidding.
type PlaceBidUseCase struct {
	bidGW  domain.BidGateway
	itemGW domain.ItemGateway
	clock  Clock
}

// NewPlaceBidUseCase creates a new instance of PlaceBidUseCase.
func NewPlaceBidUseCase(bidGW domain.BidGateway, itemGW domain.ItemGateway, clock Clock) *PlaceBidUseCase {
	if clock == nil {
		clock = timeNow
	}
	return &PlaceBidUseCase{
		bidGW:  bidGW,
		itemGW: itemGW,
		clock:  clock,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, session *Session, cmd PlaceBidDTO) (*domain.Bid, error) {
	if cmd.Amount.Sign() <= 0 {
		log.Warn("PlaceBidUseCase: invalid bid amount",
			zap.Int64("auctionID", cmd.AuctionID),
			zap.Int64("bidderID", cmd.BidderID),
			zap.String("amount", cmd.Amount.String()),
		)
		return nil, domain.ErrInvalidAmount
	}

	window := session.Window()
	if !window.HasItem() {
		return nil, domain.ErrAuctionHasNoItem
	}
	if snap := session.Snapshot(); snap.Phase != domain.PhaseActive {
		log.Warn("PlaceBidUseCase: bid rejected, auction not active",
			zap.Int64("auctionID", cmd.AuctionID),
			zap.String("phase", string(snap.Phase)),
		)
		return nil, domain.ErrBiddingClosed
	}

	bid := &domain.Bid{
		AuctionID:   cmd.AuctionID,
		ItemID:      *window.ItemID,
		BidderID:    cmd.BidderID,
		Amount:      cmd.Amount,
		SubmittedAt: uc.clock(),
	}

	created, err := uc.bidGW.CreateBid(ctx, bid)
	if err != nil {
		return nil, fmt.Errorf("place bid use case: create bid for auction %d: %w", cmd.AuctionID, err)
	}

	log.Info("bid placed",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.Int64("bidID", created.ID),
		zap.Int64("bidderID", cmd.BidderID),
		zap.String("amount", cmd.Amount.String()),
	)

	// Keep the item's recorded final value in step with the new high bid.
	// A failure here is logged and tolerated, matching the backend's
	// treatment of final_value as display data.
	if err := uc.itemGW.UpdateFinalValue(ctx, *window.ItemID, cmd.Amount); err != nil {
		log.Warn("failed to update item final value",
			zap.Int64("itemID", *window.ItemID),
			zap.Error(err),
		)
	}

	if err := session.RefreshBids(ctx); err != nil {
		log.Warn("bid refresh after placement failed",
			zap.Int64("auctionID", cmd.AuctionID),
			zap.Error(err),
		)
	}

	return created, nil
}
