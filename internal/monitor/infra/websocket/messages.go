package websocket

import (
	"github.com/anleaes/auctionMonitor/internal/monitor/application"
	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/shopspring/decimal"
)

// MessageType identifies a ws message.
type MessageType string

const (
	MessageTypeClientBid         MessageType = "client_bid"          // client msg to place a bid
	MessageTypeClientRefresh     MessageType = "client_refresh"      // client msg asking for a bid reload
	MessageTypeServerSnapshot    MessageType = "server_snapshot"     // server msg with the per-tick lifecycle snapshot
	MessageTypeServerPhaseChange MessageType = "server_phase_change" // server msg announcing a phase transition
	MessageTypeServerBids        MessageType = "server_bids"         // server msg with the refreshed bid list
	MessageTypeServerSettlement  MessageType = "server_settlement"   // server msg reporting settlement outcome
	MessageTypeServerError       MessageType = "server_error"        // server msg indicating error
)

// BaseMessage is the base struct for all ws messages; Type identifies the
// concrete payload.
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is the DTO for a bid sent by the client.
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		AuctionID int64           `json:"auction_id"`
		BidderID  int64           `json:"bidder_id"`
		Amount    decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

// ClientRefreshMessage asks the monitor to reload the bid list.
type ClientRefreshMessage struct {
	BaseMessage
	Payload struct {
		AuctionID int64 `json:"auction_id"`
	} `json:"payload"`
}

// ServerSnapshotMessage carries the lifecycle snapshot pushed every tick.
type ServerSnapshotMessage struct {
	BaseMessage
	Payload struct {
		AuctionID int64           `json:"auction_id"`
		Snapshot  domain.Snapshot `json:"snapshot"`
	} `json:"payload"`
}

// ServerPhaseChangeMessage announces a lifecycle phase transition.
type ServerPhaseChangeMessage struct {
	BaseMessage
	Payload struct {
		AuctionID int64                 `json:"auction_id"`
		Previous  domain.LifecyclePhase `json:"previous"`
		Current   domain.LifecyclePhase `json:"current"`
	} `json:"payload"`
}

// ServerBidsMessage carries the refreshed bid list and the winning bid.
type ServerBidsMessage struct {
	BaseMessage
	Payload struct {
		AuctionID  int64                `json:"auction_id"`
		Bids       []application.BidDTO `json:"bids"`
		WinningBid *application.BidDTO  `json:"winning_bid,omitempty"`
	} `json:"payload"`
}

// ServerSettlementMessage reports the outcome of a settlement attempt.
type ServerSettlementMessage struct {
	BaseMessage
	Payload struct {
		AuctionID int64               `json:"auction_id"`
		Succeeded bool                `json:"succeeded"`
		Payment   *domain.Payment     `json:"payment,omitempty"`
		Winner    *application.BidDTO `json:"winner,omitempty"`
		Error     string              `json:"error,omitempty"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}
