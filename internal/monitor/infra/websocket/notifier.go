package websocket

import (
	"encoding/json"
	"strconv"

	"github.com/anleaes/auctionMonitor/internal/monitor/application"
	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/anleaes/auctionMonitor/internal/shared/websocket"
	"go.uber.org/zap"
)

// Notifier pushes monitor session events to every ws client watching the
// auction. It is the presentation-side implementation of domain.Notifier.
type Notifier struct {
	hub *websocket.Hub
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier creates a new instance of Notifier.
func NewNotifier(hub *websocket.Hub) *Notifier {
	return &Notifier{hub: hub}
}

// Tick implements domain.Notifier.
func (n *Notifier) Tick(auctionID int64, snap domain.Snapshot) {
	msg := ServerSnapshotMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerSnapshot},
	}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Snapshot = snap
	n.broadcast(auctionID, msg)
}

// PhaseChanged implements domain.Notifier.
func (n *Notifier) PhaseChanged(auctionID int64, previous, current domain.LifecyclePhase) {
	msg := ServerPhaseChangeMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerPhaseChange},
	}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Previous = previous
	msg.Payload.Current = current
	n.broadcast(auctionID, msg)
}

// BidsRefreshed implements domain.Notifier.
func (n *Notifier) BidsRefreshed(auctionID int64, bids []*domain.Bid, winner *domain.Bid) {
	msg := ServerBidsMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerBids},
	}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Bids = make([]application.BidDTO, 0, len(bids))
	for _, b := range bids {
		msg.Payload.Bids = append(msg.Payload.Bids, toBidDTO(b))
	}
	if winner != nil {
		w := toBidDTO(winner)
		msg.Payload.WinningBid = &w
	}
	n.broadcast(auctionID, msg)
}

// SettlementSucceeded implements domain.Notifier.
func (n *Notifier) SettlementSucceeded(auctionID int64, payment *domain.Payment, winner *domain.Bid) {
	msg := ServerSettlementMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerSettlement},
	}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Succeeded = true
	msg.Payload.Payment = payment
	if winner != nil {
		w := toBidDTO(winner)
		msg.Payload.Winner = &w
	}
	n.broadcast(auctionID, msg)
}

// SettlementFailed implements domain.Notifier.
func (n *Notifier) SettlementFailed(auctionID int64, err error) {
	msg := ServerSettlementMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerSettlement},
	}
	msg.Payload.AuctionID = auctionID
	msg.Payload.Error = err.Error()
	n.broadcast(auctionID, msg)
}

func (n *Notifier) broadcast(auctionID int64, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	n.hub.BroadcastToAuction(strconv.FormatInt(auctionID, 10), data)
}

func toBidDTO(b *domain.Bid) application.BidDTO {
	return application.BidDTO{
		ID:          b.ID,
		BidderID:    b.BidderID,
		BidderName:  b.BidderName,
		Amount:      b.Amount,
		SubmittedAt: b.SubmittedAt,
	}
}
