package entity

type UserPortfolio struct {
	Wallet        string    `json:"wallet"`
	OwnedNFTs     []string  `json:"ownedNfts"`
	ListedNFTs    []Listing `json:"listedNfts"`
	TotalValue    float64   `json:"totalValue"`
	TotalListings uint64    `json:"totalListings"`
}
