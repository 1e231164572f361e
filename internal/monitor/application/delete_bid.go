package application

import (
	"context"
	"fmt"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"go.uber.org/zap"
)

// DeleteBidUseCase removes a bid and rolls the item's final value back to
// the remaining winning amount, or to the starting value when the last bid
// goes away.
type DeleteBidUseCase struct {
	bidGW  domain.BidGateway
	itemGW domain.ItemGateway
}

// NewDeleteBidUseCase creates a new instance of DeleteBidUseCase.
func NewDeleteBidUseCase(bidGW domain.BidGateway, itemGW domain.ItemGateway) *DeleteBidUseCase {
	return &DeleteBidUseCase{
		bidGW:  bidGW,
		itemGW: itemGW,
	}
}

func (uc *DeleteBidUseCase) Execute(ctx context.Context, session *Session, bidID int64) error {
	window := session.Window()
	if snap := session.Snapshot(); snap.Phase == domain.PhaseFinished {
		return domain.ErrBiddingClosed
	}

	if err := uc.bidGW.DeleteBid(ctx, bidID); err != nil {
		return fmt.Errorf("delete bid use case: delete bid %d: %w", bidID, err)
	}

	log.Info("bid deleted",
		zap.Int64("auctionID", window.AuctionID),
		zap.Int64("bidID", bidID),
	)

	reconcileItemFinalValue(ctx, session, uc.itemGW)
	return nil
}
