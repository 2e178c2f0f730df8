package main

import (
	"net/http"
	"os"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/api"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/config"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/config/di"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/coordinator"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/event"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/feed"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/merger"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/prefs"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	config.Init("marketd")

	app := &cli.App{
		Name:   "marketd",
		Usage:  "NFT marketplace client sync daemon",
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start marketd")
	}
}

func run(c *cli.Context) error {
	container, err := di.NewContainer()
	if err != nil {
		return err
	}

	events := container.Get("events").(*event.Manager)
	events.AddListener(event.NotificationEvent, logNotification)

	server := api.NewServer(
		container.Get("store").(*store.Store),
		container.Get("coordinator").(coordinator.Coordinator),
		container.Get("prefs").(prefs.Preferences),
	)

	go serve(server)

	zap.L().With(zap.String("port", config.Get().HealthPort)).Info("Marketd Started")

	ctx := c.Context

	stream, err := container.Get("feed").(*feed.WebsocketSubscriber).Subscribe(ctx, config.Get().Feed.Topic)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to subscribe to feed")
		return err
	}

	container.Get("merger").(merger.Merger).Run(ctx, stream)

	return nil
}

func serve(server api.Server) {
	if err := http.ListenAndServe(":"+config.Get().HealthPort, server.Router()); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start api server")
	}
}

func logNotification(msg interface{}) {
	notification, ok := msg.(entity.Notification)
	if !ok {
		return
	}

	zap.L().With(
		zap.String("severity", string(notification.Severity)),
		zap.String("title", notification.Title),
		zap.String("detail", notification.Detail),
	).Info("Notification")
}
