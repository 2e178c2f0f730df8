package merger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/coordinator"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/event"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/ledger"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
)

func newTestMerger() (*store.Store, *coordinator.Slots, Merger) {
	st := store.NewStore("wallet-a", time.Minute)
	slots := coordinator.NewSlots()

	return st, slots, NewMerger(st, slots)
}

func listedEvent(t *testing.T, id string, seq uint64, seller string, price float64) entity.MarketEvent {
	t.Helper()

	payload, err := json.Marshal(entity.Listing{
		ID:            id,
		MarketplaceID: "marketplace",
		Seller:        seller,
		Mint:          "mint-" + id,
		Price:         price,
		CreatedAt:     1700000000,
	})
	if err != nil {
		t.Fatal(err)
	}

	return entity.MarketEvent{Type: entity.ListedEvent, ListingID: id, Seq: seq, Payload: payload}
}

func TestListedEventInsertsListing(t *testing.T) {
	st, _, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

	listing, err := st.GetListing("L1")
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if listing.Price != 5 || listing.Provisional {
		t.Errorf("listing = %+v", listing)
	}
	if st.Version("L1") != 1 {
		t.Errorf("version = %d, want 1", st.Version("L1"))
	}
}

func TestDuplicateDelistedIsNoOp(t *testing.T) {
	st, _, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

	var notifications int
	st.Subscribe(func(changed []store.Kind) { notifications++ })

	delisted := entity.MarketEvent{Type: entity.DelistedEvent, ListingID: "L1", Seq: 2}
	m.Apply(delisted)

	if _, err := st.GetListing("L1"); !errors.Is(err, store.ErrListingNotFound) {
		t.Fatal("listing must be removed")
	}
	if notifications != 1 {
		t.Fatalf("notifications after first Delisted = %d, want 1", notifications)
	}

	// Same event again: silently discarded, no state change, no notification.
	m.Apply(delisted)

	if notifications != 1 {
		t.Errorf("duplicate Delisted notified subscribers (%d)", notifications)
	}
	if stats := st.Stats(); stats.TotalListings != 0 {
		t.Errorf("TotalListings = %d, want 0", stats.TotalListings)
	}
}

func TestStaleEventDropped(t *testing.T) {
	st, _, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 5, "wallet-b", 5))

	payload, _ := json.Marshal(map[string]float64{"price": 9})
	m.Apply(entity.MarketEvent{Type: entity.PriceChangedEvent, ListingID: "L1", Seq: 4, Payload: payload})

	listing, _ := st.GetListing("L1")
	if listing.Price != 5 {
		t.Errorf("stale PriceChanged applied: price = %f", listing.Price)
	}
}

func TestPriceChangedApplies(t *testing.T) {
	st, _, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

	payload, _ := json.Marshal(map[string]float64{"price": 9})
	m.Apply(entity.MarketEvent{Type: entity.PriceChangedEvent, ListingID: "L1", Seq: 2, Payload: payload})

	listing, _ := st.GetListing("L1")
	if listing.Price != 9 {
		t.Errorf("price = %f, want 9", listing.Price)
	}
}

func TestSoldRecordsSale(t *testing.T) {
	st, _, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

	payload, _ := json.Marshal(entity.Sale{Buyer: "wallet-c", Seller: "wallet-b", Mint: "mint-L1", Price: 5, SoldAt: 1700000100})
	m.Apply(entity.MarketEvent{Type: entity.SoldEvent, ListingID: "L1", Seq: 2, Payload: payload})

	if _, err := st.GetListing("L1"); !errors.Is(err, store.ErrListingNotFound) {
		t.Fatal("sold listing must be removed")
	}
	if stats := st.Stats(); stats.TotalSales != 1 || stats.TotalVolume != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if seq, ok := st.Tombstone("L1"); !ok || seq != 2 {
		t.Errorf("tombstone = (%d, %v), want (2, true)", seq, ok)
	}
}

func TestEventBufferedBehindInFlightMutation(t *testing.T) {
	st, slots, m := newTestMerger()

	m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

	if err := slots.Acquire("L1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	m.Apply(entity.MarketEvent{Type: entity.DelistedEvent, ListingID: "L1", Seq: 2})

	if _, err := st.GetListing("L1"); err != nil {
		t.Fatal("event must not apply while the slot is held")
	}

	// Settling the mutation replays the buffered event.
	slots.Release("L1")

	if _, err := st.GetListing("L1"); !errors.Is(err, store.ErrListingNotFound) {
		t.Fatal("buffered event must apply after release")
	}
}

type stubLedger struct {
	submit func(ctx context.Context, op ledger.Operation) (*ledger.Result, error)
}

func (s *stubLedger) Submit(ctx context.Context, op ledger.Operation) (*ledger.Result, error) {
	return s.submit(ctx, op)
}

// A remote sequenced event racing a failing local mutation must survive: it
// either lands before the mutation's snapshot is taken, so the rollback
// restores it, or it buffers behind the slot and replays after settle. It
// must never be reverted with its seq left behind in the version gate.
func TestRemoteEventSurvivesConcurrentRollback(t *testing.T) {
	for i := 0; i < 200; i++ {
		st := store.NewStore("wallet-a", time.Minute)
		slots := coordinator.NewSlots()
		m := NewMerger(st, slots)

		led := &stubLedger{submit: func(ctx context.Context, op ledger.Operation) (*ledger.Result, error) {
			return nil, ledger.ErrNetwork
		}}
		c := coordinator.NewCoordinator(st, led, event.NewManager(), slots, "wallet-a", "marketplace")

		m.Apply(listedEvent(t, "L1", 1, "wallet-b", 5))

		payload, _ := json.Marshal(map[string]float64{"price": 9})
		priceChanged := entity.MarketEvent{Type: entity.PriceChangedEvent, ListingID: "L1", Seq: 2, Payload: payload}

		done := make(chan struct{})
		go func() {
			m.Apply(priceChanged)
			close(done)
		}()

		_, _ = c.PurchaseNFT(context.Background(), "L1")
		<-done

		listing, err := st.GetListing("L1")
		if err != nil {
			t.Fatalf("iteration %d: listing missing after rollback: %v", i, err)
		}
		if st.Version("L1") != 2 {
			t.Fatalf("iteration %d: version = %d, want 2", i, st.Version("L1"))
		}
		if listing.Price != 9 {
			t.Fatalf("iteration %d: remote PriceChanged lost, price = %f", i, listing.Price)
		}
	}
}

func TestMalformedEventsDropped(t *testing.T) {
	st, _, m := newTestMerger()

	tests := []struct {
		name string
		ev   entity.MarketEvent
	}{
		{"missing id", entity.MarketEvent{Type: entity.ListedEvent, Seq: 1}},
		{"zero seq", entity.MarketEvent{Type: entity.ListedEvent, ListingID: "L1"}},
		{"bad payload", entity.MarketEvent{Type: entity.ListedEvent, ListingID: "L1", Seq: 1, Payload: []byte("{")}},
		{"unknown type", entity.MarketEvent{Type: "Reorged", ListingID: "L1", Seq: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.Apply(tt.ev)

			if len(st.Listings()) != 0 {
				t.Errorf("malformed event mutated the store")
			}
		})
	}
}
