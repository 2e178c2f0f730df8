package di

import (
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/config"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/coordinator"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/event"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/feed"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/ledger"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/merger"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/prefs"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/storage"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []di.Def{
	{
		Name: "events",
		Build: func(ctn di.Container) (interface{}, error) {
			return event.NewManager(), nil
		},
	},
	{
		Name: "storage",
		Build: func(ctn di.Container) (interface{}, error) {
			st, err := storage.NewBoltStore(config.Get().DataDir)
			if err != nil {
				zap.L().With(zap.Error(err)).Warn("[DI] Falling back to in-memory preference storage")
				return storage.NewMemoryStore(), nil
			}
			return st, nil
		},
	},
	{
		Name: "store",
		Build: func(ctn di.Container) (interface{}, error) {
			return store.NewStore(config.Get().Wallet, config.Get().TombstoneTTL), nil
		},
	},
	{
		Name: "slots",
		Build: func(ctn di.Container) (interface{}, error) {
			return coordinator.NewSlots(), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Ledger
			client, err := ledger.NewClient(cfg.Url, cfg.Timeout, cfg.Debug)
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to create ledger client")
			}
			return ledger.NewService(client), nil
		},
	},
	{
		Name: "coordinator",
		Build: func(ctn di.Container) (interface{}, error) {
			return coordinator.NewCoordinator(
				ctn.Get("store").(*store.Store),
				ctn.Get("ledger").(ledger.Service),
				ctn.Get("events").(*event.Manager),
				ctn.Get("slots").(*coordinator.Slots),
				config.Get().Wallet,
				config.Get().MarketplaceID,
			), nil
		},
	},
	{
		Name: "merger",
		Build: func(ctn di.Container) (interface{}, error) {
			return merger.NewMerger(
				ctn.Get("store").(*store.Store),
				ctn.Get("slots").(*coordinator.Slots),
			), nil
		},
	},
	{
		Name: "feed",
		Build: func(ctn di.Container) (interface{}, error) {
			return feed.NewWebsocketSubscriber(config.Get().Feed.Url), nil
		},
	},
	{
		Name: "signal",
		Build: func(ctn di.Container) (interface{}, error) {
			return prefs.NewSignal(entity.ResolvedLight), nil
		},
	},
	{
		Name: "prefs",
		Build: func(ctn di.Container) (interface{}, error) {
			return prefs.NewPreferences(
				ctn.Get("storage").(storage.Store),
				ctn.Get("events").(*event.Manager),
				ctn.Get("signal").(*prefs.Signal),
			), nil
		},
	},
}

func NewContainer() (di.Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}
