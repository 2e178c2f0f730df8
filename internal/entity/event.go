package entity

import "encoding/json"

type EventType string

const (
	ListedEvent       EventType = "Listed"
	SoldEvent         EventType = "Sold"
	DelistedEvent     EventType = "Delisted"
	PriceChangedEvent EventType = "PriceChanged"
)

// MarketEvent is a single message from the realtime feed. Seq increases
// monotonically per listing id; cross-id ordering is not guaranteed.
type MarketEvent struct {
	Type      EventType       `json:"type"`
	ListingID string          `json:"listingId"`
	Seq       uint64          `json:"seq"`
	Payload   json.RawMessage `json:"payload"`
}
