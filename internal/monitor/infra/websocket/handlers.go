package websocket

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/anleaes/auctionMonitor/internal/monitor/application"
	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	"github.com/anleaes/auctionMonitor/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// MonitorWSHandler handles the ws inbound messages specific to the monitor
// module: bid placement and bid-list refresh requests.
type MonitorWSHandler struct {
	service application.MonitorService
	hub     *websocket.Hub
}

// NewMonitorWSHandler creates a new instance of MonitorWSHandler.
func NewMonitorWSHandler(service application.MonitorService, hub *websocket.Hub) *MonitorWSHandler {
	return &MonitorWSHandler{
		service: service,
		hub:     hub,
	}
}

// ListenForMessages consumes the hub's inbound channel until ctx is
// cancelled, processing each message on its own goroutine.
func (h *MonitorWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("monitor ws handler started listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("monitor ws handler stopped listening for inbound messages")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMessage dispatches the message by its type.
func (h *MonitorWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	case MessageTypeClientRefresh:
		h.handleClientRefreshMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type")
	}
}

func (h *MonitorWSHandler) handleClientBidMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format")
		return
	}

	if strconv.FormatInt(bidMsg.Payload.AuctionID, 10) != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	cmd := application.PlaceBidDTO{
		AuctionID: bidMsg.Payload.AuctionID,
		BidderID:  bidMsg.Payload.BidderID,
		Amount:    bidMsg.Payload.Amount,
	}
	if _, err := h.service.PlaceBid(ctx, cmd); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	// The refreshed bid list reaches every watcher through the notifier;
	// nothing more to send here.
}

func (h *MonitorWSHandler) handleClientRefreshMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var refreshMsg ClientRefreshMessage
	if err := json.Unmarshal(data, &refreshMsg); err != nil {
		h.sendErrorToClient(client, "invalid refresh message format")
		return
	}

	if strconv.FormatInt(refreshMsg.Payload.AuctionID, 10) != client.AuctionID {
		h.sendErrorToClient(client, "auction ID mismatch")
		return
	}

	if err := h.service.RefreshBids(ctx, refreshMsg.Payload.AuctionID); err != nil {
		h.sendErrorToClient(client, err.Error())
	}
}

// sendErrorToClient serializes and sends an error msg to a specific client.
func (h *MonitorWSHandler) sendErrorToClient(client *websocket.Client, errorMessage string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	data, err := json.Marshal(errMsg)
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full or closed, could not send error msg",
			zap.String("clientID", client.ID),
		)
	}
}
