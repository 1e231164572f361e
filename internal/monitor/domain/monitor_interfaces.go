package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateways are the ports through which the monitor talks to the remote
// auction-management API. All storage lives behind that API; the monitor
// owns no persistence of its own.

type AuctionGateway interface {
	GetAuction(ctx context.Context, id int64) (*AuctionRecord, error)
}

type BidGateway interface {
	// ListBids returns every bid for the auction, with bidder names resolved.
	ListBids(ctx context.Context, auctionID int64) ([]*Bid, error)
	CreateBid(ctx context.Context, bid *Bid) (*Bid, error)
	UpdateBid(ctx context.Context, bid *Bid) error
	DeleteBid(ctx context.Context, bidID int64) error
}

type BidderGateway interface {
	ListBidders(ctx context.Context) ([]*Bidder, error)
	GetBidder(ctx context.Context, id int64) (*Bidder, error)
}

type ItemGateway interface {
	GetItem(ctx context.Context, id int64) (*Item, error)
	// UpdateFinalValue patches the item's final value after a bid changes
	// the current high amount.
	UpdateFinalValue(ctx context.Context, id int64, value decimal.Decimal) error
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, p *Payment) (*Payment, error)
}

type AddressGateway interface {
	GetAddress(ctx context.Context, id int64) (*Address, error)
}

type AuctioneerGateway interface {
	GetAuctioneer(ctx context.Context, id int64) (*Auctioneer, error)
}

type CategoryGateway interface {
	GetCategory(ctx context.Context, id int64) (*Category, error)
}

// Notifier is the port the monitor pushes session events through; the
// presentation layer (websocket broadcast) implements it.
type Notifier interface {
	// Tick delivers the latest snapshot, once per tick.
	Tick(auctionID int64, snap Snapshot)
	// PhaseChanged fires on a transition between lifecycle phases.
	PhaseChanged(auctionID int64, previous, current LifecyclePhase)
	// BidsRefreshed fires after the cached bid list was reloaded.
	BidsRefreshed(auctionID int64, bids []*Bid, winner *Bid)
	SettlementSucceeded(auctionID int64, payment *Payment, winner *Bid)
	SettlementFailed(auctionID int64, err error)
}
