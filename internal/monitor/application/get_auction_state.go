package application

import (
	"context"
	"fmt"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BidDTO is the outward shape of a bid, mirroring the remote API's field
// names.
type BidDTO struct {
	ID          int64           `json:"id"`
	BidderID    int64           `json:"bidder"`
	BidderName  string          `json:"bidder_name"`
	Amount      decimal.Decimal `json:"amount"`
	SubmittedAt time.Time       `json:"date_time"`
}

// AuctionStateDTO is the assembled view of a watched auction: the resolved
// auction detail plus the live lifecycle snapshot, the bid list and the
// current winning bid.
type AuctionStateDTO struct {
	Auction    *domain.AuctionDetail `json:"auction"`
	Snapshot   domain.Snapshot       `json:"snapshot"`
	Bids       []BidDTO              `json:"bids"`
	WinningBid *BidDTO               `json:"winning_bid,omitempty"`
	Settled    bool                  `json:"settled"`
}

// GetAuctionStateUseCase resolves every numeric reference on an auction
// (addresses, auctioneer, item, category) and combines the result with the
// monitor session's live state.
type GetAuctionStateUseCase struct {
	auctionGW    domain.AuctionGateway
	addressGW    domain.AddressGateway
	auctioneerGW domain.AuctioneerGateway
	itemGW       domain.ItemGateway
	categoryGW   domain.CategoryGateway
}

// NewGetAuctionStateUseCase creates a new instance of GetAuctionStateUseCase.
func NewGetAuctionStateUseCase(auctionGW domain.AuctionGateway,
	addressGW domain.AddressGateway,
	auctioneerGW domain.AuctioneerGateway,
	itemGW domain.ItemGateway,
	categoryGW domain.CategoryGateway) *GetAuctionStateUseCase {

	return &GetAuctionStateUseCase{
		auctionGW:    auctionGW,
		addressGW:    addressGW,
		auctioneerGW: auctioneerGW,
		itemGW:       itemGW,
		categoryGW:   categoryGW,
	}
}

func (uc *GetAuctionStateUseCase) Execute(ctx context.Context, session *Session) (*AuctionStateDTO, error) {
	auctionID := session.Window().AuctionID

	rec, err := uc.auctionGW.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("get auction state use case: load auction %d: %w", auctionID, err)
	}

	detail := &domain.AuctionDetail{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
	}

	// Resolution failures for related resources are tolerated one by one;
	// a missing address or category must not hide the auction itself.
	for _, addrID := range rec.AddressIDs {
		addr, err := uc.addressGW.GetAddress(ctx, addrID)
		if err != nil {
			log.Warn("failed to resolve address",
				zap.Int64("auctionID", auctionID),
				zap.Int64("addressID", addrID),
				zap.Error(err),
			)
			continue
		}
		detail.Addresses = append(detail.Addresses, addr)
	}

	auctioneer, err := uc.auctioneerGW.GetAuctioneer(ctx, rec.AuctioneerID)
	if err != nil {
		log.Warn("failed to resolve auctioneer",
			zap.Int64("auctionID", auctionID),
			zap.Int64("auctioneerID", rec.AuctioneerID),
			zap.Error(err),
		)
	} else {
		detail.Auctioneer = auctioneer
	}

	if rec.ItemID != nil {
		item, err := uc.itemGW.GetItem(ctx, *rec.ItemID)
		if err != nil {
			log.Warn("failed to resolve item",
				zap.Int64("auctionID", auctionID),
				zap.Int64("itemID", *rec.ItemID),
				zap.Error(err),
			)
		} else {
			if item.CategoryID != 0 {
				category, err := uc.categoryGW.GetCategory(ctx, item.CategoryID)
				if err != nil {
					log.Warn("failed to resolve category",
						zap.Int64("itemID", item.ID),
						zap.Int64("categoryID", item.CategoryID),
						zap.Error(err),
					)
				} else {
					item.Category = category
				}
			}
			detail.Item = item
		}
	}

	bids, winner := session.Bids()
	dto := &AuctionStateDTO{
		Auction:  detail,
		Snapshot: session.Snapshot(),
		Bids:     make([]BidDTO, 0, len(bids)),
		Settled:  session.Settled(),
	}
	for _, b := range bids {
		dto.Bids = append(dto.Bids, toBidDTO(b))
	}
	if winner != nil {
		w := toBidDTO(winner)
		dto.WinningBid = &w
	}
	return dto, nil
}

func toBidDTO(b *domain.Bid) BidDTO {
	return BidDTO{
		ID:          b.ID,
		BidderID:    b.BidderID,
		BidderName:  b.BidderName,
		Amount:      b.Amount,
		SubmittedAt: b.SubmittedAt,
	}
}
