package httpserver

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/anleaes/auctionMonitor/internal/monitor/application"
	"github.com/anleaes/auctionMonitor/internal/monitor/domain"
	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	sharedws "github.com/anleaes/auctionMonitor/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type Server struct {
	app *fiber.App
}

// bidRequest is the body for placing or updating a bid over HTTP.
type bidRequest struct {
	BidderID int64           `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewServer builds the fiber app with the monitor routes and the websocket
// endpoint. ctx bounds the lifetime of every ws pump started by the server.
func NewServer(ctx context.Context, service application.MonitorService, hub *sharedws.Hub) *Server {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		log.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("remote_addr", c.IP()),
		)
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Post("/auction/:id/watch", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		if err := service.Watch(c.Context(), auctionID); err != nil {
			return sendError(c, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	})

	app.Delete("/auction/:id/watch", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		if err := service.Unwatch(auctionID); err != nil {
			return sendError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/auction/:id/snapshot", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		snap, err := service.Snapshot(auctionID)
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(snap)
	})

	app.Get("/auction/:id/state", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		state, err := service.AuctionState(c.Context(), auctionID)
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(state)
	})

	app.Post("/auction/:id/bids", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		var req bidRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid bid body")
		}
		bid, err := service.PlaceBid(c.Context(), application.PlaceBidDTO{
			AuctionID: auctionID,
			BidderID:  req.BidderID,
			Amount:    req.Amount,
		})
		if err != nil {
			return sendError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(bid)
	})

	app.Put("/auction/:id/bids/:bidID", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		bidID, err := strconv.ParseInt(c.Params("bidID"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid bid id")
		}
		var req bidRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid bid body")
		}
		if err := service.UpdateBid(c.Context(), application.EditBidDTO{
			BidID:     bidID,
			AuctionID: auctionID,
			BidderID:  req.BidderID,
			Amount:    req.Amount,
		}); err != nil {
			return sendError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Delete("/auction/:id/bids/:bidID", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		bidID, err := strconv.ParseInt(c.Params("bidID"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid bid id")
		}
		if err := service.DeleteBid(c.Context(), auctionID, bidID); err != nil {
			return sendError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/auction/:id/refresh", func(c *fiber.Ctx) error {
		auctionID, err := auctionParam(c)
		if err != nil {
			return err
		}
		if err := service.RefreshBids(c.Context(), auctionID); err != nil {
			return sendError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/bidders", func(c *fiber.Ctx) error {
		bidders, err := service.ListBidders(c.Context())
		if err != nil {
			return sendError(c, err)
		}
		return c.JSON(bidders)
	})

	app.Use("/ws/auction/:id", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/auction/:id", websocket.New(func(conn *websocket.Conn) {
		idParam := conn.Params("id")
		auctionID, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			_ = conn.Close()
			return
		}
		// A ws viewer implies a running session.
		if err := service.Watch(ctx, auctionID); err != nil {
			log.Error("failed to start session for ws client",
				zap.Int64("auctionID", auctionID),
				zap.Error(err),
			)
			_ = conn.Close()
			return
		}

		client := &sharedws.Client{
			Hub:       hub,
			Conn:      conn,
			Send:      make(chan []byte, 256),
			AuctionID: idParam,
			ID:        uuid.NewString(),
		}
		hub.RegisterClient(client)
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}))

	return &Server{app: app}
}

func auctionParam(c *fiber.Ctx) (int64, error) {
	auctionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	return auctionID, nil
}

// sendError maps application errors onto HTTP statuses: domain validation
// failures are the client's fault, upstream API failures are reported as a
// bad gateway.
func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrAuctionNotWatched):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBiddingClosed),
		errors.Is(err, domain.ErrAuctionHasNoItem):
		status = fiber.StatusUnprocessableEntity
	default:
		var netErr *domain.NetworkError
		var rejErr *domain.RejectedError
		if errors.As(err, &netErr) || errors.As(err, &rejErr) {
			status = fiber.StatusBadGateway
		}
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) Start(addr string) error {
	// Close cleanly on interrupt.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit

		log.Info("shutting down HTTP server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.app.ShutdownWithContext(ctx)
	}()

	log.Info("HTTP server started", zap.String("addr", addr))
	return s.app.Listen(addr)
}
