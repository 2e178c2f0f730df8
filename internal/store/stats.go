package store

import (
	"sort"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
)

// ComputeStats derives the aggregate marketplace stats from the listing set
// and sale history. Pure: the same inputs always produce the same output.
func ComputeStats(listings []entity.Listing, sales []entity.Sale) entity.MarketplaceStats {
	stats := entity.MarketplaceStats{
		TotalListings: uint64(len(listings)),
		TotalSales:    uint64(len(sales)),
	}

	owners := make(map[string]bool)
	var priceSum float64

	for _, listing := range listings {
		priceSum += listing.Price
		owners[listing.Seller] = true

		if stats.FloorPrice == 0 || listing.Price < stats.FloorPrice {
			stats.FloorPrice = listing.Price
		}
	}

	if len(listings) > 0 {
		stats.AveragePrice = priceSum / float64(len(listings))
	}

	for _, sale := range sales {
		stats.TotalVolume += sale.Price
	}

	stats.UniqueOwners = uint64(len(owners))

	return stats
}

// ComputePortfolio derives the connected wallet's view from the listing set
// and sale history. A mint counts as owned when the wallet's purchase of it
// is the most recent sale for that mint and the wallet has not re-listed it.
func ComputePortfolio(wallet string, listings []entity.Listing, sales []entity.Sale) entity.UserPortfolio {
	portfolio := entity.UserPortfolio{Wallet: wallet}

	listed := make(map[string]bool)
	for _, listing := range listings {
		if listing.Seller != wallet {
			continue
		}

		portfolio.ListedNFTs = append(portfolio.ListedNFTs, listing)
		portfolio.TotalValue += listing.Price
		listed[listing.Mint] = true
	}
	portfolio.TotalListings = uint64(len(portfolio.ListedNFTs))

	lastBuyer := make(map[string]string)
	for _, sale := range sales {
		lastBuyer[sale.Mint] = sale.Buyer
	}

	for mint, buyer := range lastBuyer {
		if buyer == wallet && !listed[mint] {
			portfolio.OwnedNFTs = append(portfolio.OwnedNFTs, mint)
		}
	}
	sort.Strings(portfolio.OwnedNFTs)

	return portfolio
}
