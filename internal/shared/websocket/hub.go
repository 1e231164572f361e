package websocket

import (
	"context"
	"time"

	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the client registry and handles message broadcasting. Clients
// are grouped by the auction they watch.
type Hub struct {
	clients map[string]map[*Client]bool
	// Outbound broadcasts, fanned out to one auction group.
	broadcast chan *Message
	// Register requests from the clients.
	register chan *Client
	// Unregister requests from clients.
	unregister chan *Client
	// InboundMessages is listened to by module-specific handlers
	// (the monitor's websocket handler).
	InboundMessages chan *ClientMessage
}

// Client represents an individual ws connection.
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The auction this client is watching.
	AuctionID string
	// Unique identifier for the client.
	ID string
}

type Message struct {
	AuctionID string
	Data      []byte
}

// ClientMessage wraps a client together with the raw message it sent, for
// delivery to module handlers.
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:       make(chan *Message, 64),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		clients:         make(map[string]map[*Client]bool),
		InboundMessages: make(chan *ClientMessage, 64),
	}
}

// Run starts the hub listening on its channels until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info("websocket hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("websocket hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.AuctionID]; !ok {
				h.clients[client.AuctionID] = make(map[*Client]bool)
			}
			h.clients[client.AuctionID][client] = true
			log.Info("client registered",
				zap.String("clientID", client.ID),
				zap.String("auctionID", client.AuctionID),
				zap.Int("group_clients", len(h.clients[client.AuctionID])),
			)

		case client := <-h.unregister:
			if clients, ok := h.clients[client.AuctionID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					log.Info("client unregistered",
						zap.String("clientID", client.ID),
						zap.String("auctionID", client.AuctionID),
					)
					if len(clients) == 0 {
						delete(h.clients, client.AuctionID)
						log.Info("auction group removed as empty", zap.String("auctionID", client.AuctionID))
					}
				}
			}

		case message := <-h.broadcast:
			if clients, ok := h.clients[message.AuctionID]; ok {
				log.Debug("broadcasting message to auction group",
					zap.String("auctionID", message.AuctionID),
					zap.Int("clients", len(clients)),
				)
				for client := range clients {
					select {
					case client.Send <- message.Data:
					default:
						// Client cannot keep up or already disconnected.
						close(client.Send)
						delete(clients, client)
						log.Warn("failed to send message to client, unregistering",
							zap.String("clientID", client.ID),
							zap.String("auctionID", client.AuctionID),
						)
					}
				}
			}
		}
	}
}

// RegisterClient registers a new client in the hub.
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Error("register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
		_ = client.Conn.Close()
	}
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Error("unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
	}
}

// BroadcastToAuction sends a message to every client watching auctionID.
func (h *Hub) BroadcastToAuction(auctionID string, data []byte) {
	select {
	case h.broadcast <- &Message{AuctionID: auctionID, Data: data}:
	default:
		log.Error("broadcast channel is full, message dropped", zap.String("auctionID", auctionID))
	}
}

// ReadPump reads messages from the client connection and forwards them to
// the hub's inbound channel. Runs as one goroutine per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
		log.Info("read pump stopped for client",
			zap.String("clientID", c.ID),
			zap.String("auctionID", c.AuctionID),
		)
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("websocket read error",
					zap.String("clientID", c.ID),
					zap.String("auctionID", c.AuctionID),
					zap.Error(err),
				)
			} else {
				log.Info("websocket connection closed by peer",
					zap.String("clientID", c.ID),
					zap.String("auctionID", c.AuctionID),
				)
			}
			break
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("hub inbound channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("auctionID", c.AuctionID),
			)
		}
	}
}

// WritePump pumps messages from the hub to the websocket connection and
// keeps the connection alive with pings. Runs as one goroutine per client;
// it is the single writer for the connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
		log.Info("write pump stopped for client",
			zap.String("clientID", c.ID),
			zap.String("auctionID", c.AuctionID),
		)
	}()

	for {
		select {
		case <-ctx.Done():
			err := c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			if err != nil {
				log.Error("failed to send close control message",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
			}
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("auctionID", c.AuctionID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error("failed to write ping message to client",
					zap.String("clientID", c.ID),
					zap.Error(err),
				)
				return
			}
		}
	}
}
