package main

import (
	"context"

	"github.com/anleaes/auctionMonitor/internal/monitor/application"
	"github.com/anleaes/auctionMonitor/internal/monitor/infra/restapi"
	monitorws "github.com/anleaes/auctionMonitor/internal/monitor/infra/websocket"
	"github.com/anleaes/auctionMonitor/internal/shared/config"
	"github.com/anleaes/auctionMonitor/internal/shared/httpserver"
	"github.com/anleaes/auctionMonitor/internal/shared/logger"
	"github.com/anleaes/auctionMonitor/internal/shared/websocket"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting auctionMonitor server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration failed", zap.Error(err))
	}
	log.Info("Configuration loaded",
		zap.String("apiBaseURL", cfg.APIBaseURL),
		zap.String("httpAddr", cfg.HTTPAddr),
		zap.Duration("tickInterval", cfg.TickInterval),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Every gateway the monitor needs is the remote API.
	api := restapi.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	gateways := application.Gateways{
		Auction:    api,
		Bid:        api,
		Bidder:     api,
		Item:       api,
		Payment:    api,
		Address:    api,
		Auctioneer: api,
		Category:   api,
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	notifier := monitorws.NewNotifier(hub)
	service := application.NewMonitorService(gateways, notifier, nil, cfg.TickInterval)
	defer service.StopAll()

	wsHandler := monitorws.NewMonitorWSHandler(service, hub)
	go wsHandler.ListenForMessages(ctx)

	server := httpserver.NewServer(ctx, service, hub)
	if err := server.Start(cfg.HTTPAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
