package merger

import (
	"context"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/coordinator"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/factory"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
	"go.uber.org/zap"
)

// Merger keeps the store in sync with actions taken by other clients.
// Events are applied idempotently and order-tolerantly: only a strictly
// newer sequence number for a listing id gets through, everything else is
// silently dropped. Events for an id owned by an in-flight local mutation
// are buffered by the slot table and handed back here once it settles.
type Merger interface {
	Run(ctx context.Context, events <-chan entity.MarketEvent)
	Apply(ev entity.MarketEvent)
}

type merger struct {
	store *store.Store
	slots *coordinator.Slots
}

func NewMerger(st *store.Store, slots *coordinator.Slots) Merger {
	m := &merger{store: st, slots: slots}
	slots.SetReplay(m.Apply)

	return m
}

func (m *merger) Run(ctx context.Context, events <-chan entity.MarketEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.Apply(ev)
		}
	}
}

func (m *merger) Apply(ev entity.MarketEvent) {
	if ev.ListingID == "" || ev.Seq == 0 {
		zap.L().With(zap.String("type", string(ev.Type))).Debug("[Merger] Dropping malformed event")
		return
	}

	// The slot table runs merge under its lock, so a local mutation cannot
	// claim the id between the gate checks and the store write.
	m.slots.Merge(ev, m.merge)
}

func (m *merger) merge(ev entity.MarketEvent) {
	if seq, ok := m.store.Tombstone(ev.ListingID); ok && ev.Seq <= seq {
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Uint64("seq", ev.Seq)).Debug("[Merger] Dropping event for tombstoned listing")
		return
	}

	if ev.Seq <= m.store.Version(ev.ListingID) {
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Uint64("seq", ev.Seq)).Debug("[Merger] Dropping stale event")
		return
	}

	switch ev.Type {
	case entity.ListedEvent:
		m.applyListed(ev)
	case entity.PriceChangedEvent:
		m.applyPriceChanged(ev)
	case entity.SoldEvent:
		m.applySold(ev)
	case entity.DelistedEvent:
		m.store.Apply(store.Patch{RemoveListing: ev.ListingID, Tombstone: true, Seq: ev.Seq})
	default:
		zap.L().With(zap.String("type", string(ev.Type))).Debug("[Merger] Dropping unknown event type")
	}
}

func (m *merger) applyListed(ev entity.MarketEvent) {
	listing, err := factory.ListingFromEvent(ev)
	if err != nil {
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Error(err)).Debug("[Merger] Dropping bad Listed payload")
		return
	}

	m.store.Apply(store.Patch{Listing: listing, Seq: ev.Seq})
}

func (m *merger) applyPriceChanged(ev entity.MarketEvent) {
	listing, err := m.store.GetListing(ev.ListingID)
	if err != nil {
		zap.L().With(zap.String("listingId", ev.ListingID)).Debug("[Merger] PriceChanged for unknown listing")
		return
	}

	price, err := factory.PriceFromEvent(ev)
	if err != nil {
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Error(err)).Debug("[Merger] Dropping bad PriceChanged payload")
		return
	}

	listing.Price = price
	m.store.Apply(store.Patch{Listing: &listing, Seq: ev.Seq})
}

func (m *merger) applySold(ev entity.MarketEvent) {
	sale, err := factory.SaleFromEvent(ev)
	if err != nil {
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Error(err)).Debug("[Merger] Dropping bad Sold payload")
		return
	}

	m.store.Apply(
		store.Patch{RemoveListing: ev.ListingID, Tombstone: true, Seq: ev.Seq},
		store.Patch{Sale: sale},
	)
}
