package factory

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
)

func TestNewProvisionalListing(t *testing.T) {
	listing := NewProvisionalListing("marketplace", "wallet-a", "M1", 5.5, entity.Metadata{Name: "One"})

	if !listing.Provisional {
		t.Error("provisional flag not set")
	}
	if !strings.HasPrefix(listing.ID, "provisional-") {
		t.Errorf("id = %s, want provisional- prefix", listing.ID)
	}
	if listing.Seller != "wallet-a" || listing.Mint != "M1" || listing.Price != 5.5 {
		t.Errorf("listing = %+v", listing)
	}

	other := NewProvisionalListing("marketplace", "wallet-a", "M1", 5.5, entity.Metadata{})
	if other.ID == listing.ID {
		t.Error("provisional ids must be unique")
	}
}

func TestListingFromEvent(t *testing.T) {
	payload, _ := json.Marshal(entity.Listing{ID: "L1", Seller: "wallet-b", Mint: "M1", Price: 5, Provisional: true})

	listing, err := ListingFromEvent(entity.MarketEvent{Type: entity.ListedEvent, ListingID: "L1", Seq: 1, Payload: payload})
	if err != nil {
		t.Fatalf("ListingFromEvent: %v", err)
	}
	if listing.Provisional {
		t.Error("remote listings are never provisional")
	}
	if listing.ID != "L1" {
		t.Errorf("id = %s", listing.ID)
	}
}

func TestListingFromEventRejectsBadPayloads(t *testing.T) {
	mismatched, _ := json.Marshal(entity.Listing{ID: "L2", Price: 5})
	free, _ := json.Marshal(entity.Listing{ID: "L1", Price: 0})

	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"not json", []byte("{")},
		{"id mismatch", mismatched},
		{"non-positive price", free},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ListingFromEvent(entity.MarketEvent{Type: entity.ListedEvent, ListingID: "L1", Seq: 1, Payload: tt.payload})
			if !errors.Is(err, ErrBadPayload) {
				t.Fatalf("expected ErrBadPayload, got %v", err)
			}
		})
	}
}

func TestPriceFromEvent(t *testing.T) {
	payload, _ := json.Marshal(map[string]float64{"price": 9.5})

	price, err := PriceFromEvent(entity.MarketEvent{Type: entity.PriceChangedEvent, ListingID: "L1", Seq: 2, Payload: payload})
	if err != nil || price != 9.5 {
		t.Fatalf("PriceFromEvent = (%f, %v)", price, err)
	}

	negative, _ := json.Marshal(map[string]float64{"price": -1})
	if _, err := PriceFromEvent(entity.MarketEvent{Payload: negative}); !errors.Is(err, ErrBadPayload) {
		t.Errorf("expected ErrBadPayload for negative price, got %v", err)
	}
}
