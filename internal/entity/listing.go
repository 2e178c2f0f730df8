package entity

import (
	"fmt"

	"github.com/gosimple/slug"
)

type Listing struct {
	ID            string   `json:"id"`
	MarketplaceID string   `json:"marketplaceId"`
	Seller        string   `json:"seller"`
	Mint          string   `json:"mint"`
	Price         float64  `json:"price"`
	CreatedAt     int64    `json:"createdAt"`
	Metadata      Metadata `json:"metadata"`

	// Provisional is set while the listing only exists locally, between the
	// optimistic apply and the ledger confirming it.
	Provisional bool `json:"provisional,omitempty"`
}

type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Collection  string      `json:"collection,omitempty"`
	Creator     string      `json:"creator,omitempty"`
}

type Attribute struct {
	TraitType string `json:"traitType"`
	Value     string `json:"value"`
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.Mint, l.ID)
}

func CreateListingSlug(mint, id string) string {
	return slug.Make(fmt.Sprintf("listing-%s-%s", mint, id))
}
