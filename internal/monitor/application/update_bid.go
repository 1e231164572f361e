package application

import (
	"context"
	"fmt"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EditBidDTO is the input for the update-bid use case.
type EditBidDTO struct {
	BidID     int64
	AuctionID int64
	BidderID  int64
	Amount    decimal.Decimal
}

// UpdateBidUseCase changes the amount of an existing bid.
type UpdateBidUseCase struct {
	bidGW  domain.BidGateway
	itemGW domain.ItemGateway
	clock  Clock
}

// NewUpdateBidUseCase creates a new instance of UpdateBidUseCase.
func NewUpdateBidUseCase(bidGW domain.BidGateway, itemGW domain.ItemGateway, clock Clock) *UpdateBidUseCase {
	if clock == nil {
		clock = timeNow
	}
	return &UpdateBidUseCase{
		bidGW:  bidGW,
		itemGW: itemGW,
		clock:  clock,
	}
}

func (uc *UpdateBidUseCase) Execute(ctx context.Context, session *Session, cmd EditBidDTO) error {
	if cmd.Amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}

	window := session.Window()
	if !window.HasItem() {
		return domain.ErrAuctionHasNoItem
	}
	if snap := session.Snapshot(); snap.Phase != domain.PhaseActive {
		return domain.ErrBiddingClosed
	}

	bid := &domain.Bid{
		ID:          cmd.BidID,
		AuctionID:   cmd.AuctionID,
		ItemID:      *window.ItemID,
		BidderID:    cmd.BidderID,
		Amount:      cmd.Amount,
		SubmittedAt: uc.clock(),
	}
	if err := uc.bidGW.UpdateBid(ctx, bid); err != nil {
		return fmt.Errorf("update bid use case: update bid %d: %w", cmd.BidID, err)
	}

	log.Info("bid updated",
		zap.Int64("auctionID", cmd.AuctionID),
		zap.Int64("bidID", cmd.BidID),
		zap.String("amount", cmd.Amount.String()),
	)

	reconcileItemFinalValue(ctx, session, uc.itemGW)
	return nil
}

// reconcileItemFinalValue refreshes the cached bids and writes the current
// winning amount back to the item, falling back to the item's starting
// value when no bids remain. Failures are logged, never fatal.
func reconcileItemFinalValue(ctx context.Context, session *Session, itemGW domain.ItemGateway) {
	window := session.Window()
	if !window.HasItem() {
		return
	}

	if err := session.RefreshBids(ctx); err != nil {
		log.Warn("bid refresh during reconciliation failed",
			zap.Int64("auctionID", window.AuctionID),
			zap.Error(err),
		)
		return
	}

	_, winner := session.Bids()
	var value decimal.Decimal
	if winner != nil {
		value = winner.Amount
	} else {
		item, err := itemGW.GetItem(ctx, *window.ItemID)
		if err != nil {
			log.Warn("failed to load item for final value fallback",
				zap.Int64("itemID", *window.ItemID),
				zap.Error(err),
			)
			return
		}
		value = item.StartingValue
	}

	if err := itemGW.UpdateFinalValue(ctx, *window.ItemID, value); err != nil {
		log.Warn("failed to update item final value",
			zap.Int64("itemID", *window.ItemID),
			zap.Error(err),
		)
	}
}
