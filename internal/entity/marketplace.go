package entity

type Marketplace struct {
	ID            string  `json:"id"`
	Authority     string  `json:"authority"`
	Fee           float64 `json:"fee"`
	Treasury      string  `json:"treasury"`
	TotalListings uint64  `json:"totalListings"`
	TotalSales    uint64  `json:"totalSales"`
	TotalVolume   float64 `json:"totalVolume"`
	CreatedAt     int64   `json:"createdAt"`
}

type MarketplaceStats struct {
	TotalListings uint64  `json:"totalListings"`
	TotalSales    uint64  `json:"totalSales"`
	TotalVolume   float64 `json:"totalVolume"`
	AveragePrice  float64 `json:"averagePrice"`
	UniqueOwners  uint64  `json:"uniqueOwners"`
	FloorPrice    float64 `json:"floorPrice"`
}

type Sale struct {
	ListingID string  `json:"listingId"`
	Mint      string  `json:"mint"`
	Buyer     string  `json:"buyer"`
	Seller    string  `json:"seller"`
	Price     float64 `json:"price"`
	SoldAt    int64   `json:"soldAt"`
}
