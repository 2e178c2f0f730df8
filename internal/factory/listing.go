package factory

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/google/uuid"
)

var (
	ErrBadPayload = errors.New("malformed event payload")
)

// NewProvisionalListing builds the tentative listing inserted by an
// optimistic ListNFT, before the ledger has assigned the real id.
func NewProvisionalListing(marketplaceID, seller, mint string, price float64, metadata entity.Metadata) entity.Listing {
	return entity.Listing{
		ID:            "provisional-" + uuid.NewString(),
		MarketplaceID: marketplaceID,
		Seller:        seller,
		Mint:          mint,
		Price:         price,
		CreatedAt:     time.Now().Unix(),
		Metadata:      metadata,
		Provisional:   true,
	}
}

// ListingFromEvent decodes a Listed event payload into a listing. The id on
// the payload, when present, must match the event's listing id.
func ListingFromEvent(ev entity.MarketEvent) (*entity.Listing, error) {
	if len(ev.Payload) == 0 {
		return nil, ErrBadPayload
	}

	var listing entity.Listing
	if err := json.Unmarshal(ev.Payload, &listing); err != nil {
		return nil, ErrBadPayload
	}

	if listing.ID == "" {
		listing.ID = ev.ListingID
	}
	if listing.ID != ev.ListingID || listing.Price <= 0 {
		return nil, ErrBadPayload
	}

	listing.Provisional = false

	return &listing, nil
}

// SaleFromEvent decodes a Sold event payload.
func SaleFromEvent(ev entity.MarketEvent) (*entity.Sale, error) {
	if len(ev.Payload) == 0 {
		return nil, ErrBadPayload
	}

	var sale entity.Sale
	if err := json.Unmarshal(ev.Payload, &sale); err != nil {
		return nil, ErrBadPayload
	}

	if sale.ListingID == "" {
		sale.ListingID = ev.ListingID
	}
	if sale.ListingID != ev.ListingID || sale.Price <= 0 {
		return nil, ErrBadPayload
	}

	return &sale, nil
}

// PriceFromEvent decodes a PriceChanged event payload.
func PriceFromEvent(ev entity.MarketEvent) (float64, error) {
	var payload struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		return 0, ErrBadPayload
	}
	if payload.Price <= 0 {
		return 0, ErrBadPayload
	}

	return payload.Price, nil
}
