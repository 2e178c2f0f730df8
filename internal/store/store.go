package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrMarketplaceNotFound = errors.New("marketplace not found")
)

type Kind string

const (
	KindMarketplace Kind = "marketplace"
	KindListing     Kind = "listing"
	KindStats       Kind = "stats"
	KindPortfolio   Kind = "portfolio"
)

// Patch is a partial update merged into the store by Apply. Seq carries the
// authoritative sequence number when the write originates from the ledger or
// the realtime feed; optimistic local writes leave it zero so they never
// advance the version gate.
type Patch struct {
	Listing       *entity.Listing
	RemoveListing string
	Tombstone     bool
	Seq           uint64

	Marketplace      *entity.Marketplace
	ClearMarketplace bool
	Fee              *float64
	Sale             *entity.Sale
}

// Store holds the canonical local snapshots of the marketplace, the listing
// set, derived stats and the connected wallet's portfolio. It is the single
// mutable shared resource; the mutation coordinator and the realtime event
// merger are its only writers.
type Store struct {
	wallet string

	mu          sync.Mutex
	marketplace *entity.Marketplace
	listings    map[string]entity.Listing
	sales       []entity.Sale
	stats       entity.MarketplaceStats
	portfolio   entity.UserPortfolio
	versions    map[string]uint64
	tombstones  *cache.Cache

	subscribers map[uint64]func(changed []Kind)
	nextSub     uint64
}

func NewStore(wallet string, tombstoneTTL time.Duration) *Store {
	return &Store{
		wallet:      wallet,
		listings:    make(map[string]entity.Listing),
		versions:    make(map[string]uint64),
		tombstones:  cache.New(tombstoneTTL, 2*tombstoneTTL),
		subscribers: make(map[uint64]func(changed []Kind)),
		portfolio:   entity.UserPortfolio{Wallet: wallet},
	}
}

func (s *Store) GetMarketplace() (entity.Marketplace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.marketplace == nil {
		return entity.Marketplace{}, ErrMarketplaceNotFound
	}

	return *s.marketplace, nil
}

func (s *Store) GetListing(id string) (entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return entity.Listing{}, ErrListingNotFound
	}

	return listing, nil
}

// Listings returns the current listing set ordered by id.
func (s *Store) Listings() []entity.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sortedListings()
}

func (s *Store) Sales() []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales := make([]entity.Sale, len(s.sales))
	copy(sales, s.sales)

	return sales
}

func (s *Store) Stats() entity.MarketplaceStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

func (s *Store) Portfolio() entity.UserPortfolio {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.portfolio
}

// Version returns the highest authoritative sequence number applied for the
// given listing id. Zero means no sequenced write has been seen.
func (s *Store) Version(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.versions[id]
}

// Tombstone reports whether the id was removed by a sequenced event within
// the retention window, and at which sequence number.
func (s *Store) Tombstone(id string) (uint64, bool) {
	if seq, ok := s.tombstones.Get(id); ok {
		return seq.(uint64), true
	}

	return 0, false
}

// Subscribe registers an observer called after every committed Apply batch
// with the set of entity kinds that changed. The returned function removes
// the registration.
func (s *Store) Subscribe(callback func(changed []Kind)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = callback
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Apply merges a batch of patches, bumps versions for sequenced writes,
// recomputes derived state and notifies subscribers exactly once.
func (s *Store) Apply(patches ...Patch) {
	s.mu.Lock()

	changed := make(map[Kind]bool)

	for _, patch := range patches {
		if patch.Marketplace != nil {
			mp := *patch.Marketplace
			s.marketplace = &mp
			changed[KindMarketplace] = true
		}

		if patch.ClearMarketplace {
			s.marketplace = nil
			changed[KindMarketplace] = true
		}

		if patch.Fee != nil && s.marketplace != nil {
			s.marketplace.Fee = *patch.Fee
			changed[KindMarketplace] = true
		}

		if patch.Listing != nil {
			s.listings[patch.Listing.ID] = *patch.Listing
			s.bumpVersion(patch.Listing.ID, patch.Seq)
			changed[KindListing] = true
		}

		if patch.RemoveListing != "" {
			delete(s.listings, patch.RemoveListing)
			s.bumpVersion(patch.RemoveListing, patch.Seq)
			if patch.Tombstone {
				s.tombstones.Set(patch.RemoveListing, patch.Seq, cache.DefaultExpiration)
			}
			changed[KindListing] = true
		}

		if patch.Sale != nil {
			s.sales = append(s.sales, *patch.Sale)
			changed[KindListing] = true
		}
	}

	if changed[KindListing] {
		s.stats = ComputeStats(s.sortedListings(), s.sales)
		s.portfolio = ComputePortfolio(s.wallet, s.sortedListings(), s.sales)
		changed[KindStats] = true
		changed[KindPortfolio] = true
	}

	kinds := make([]Kind, 0, len(changed))
	for kind := range changed {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	subscribers := make([]func(changed []Kind), 0, len(s.subscribers))
	for _, callback := range s.subscribers {
		subscribers = append(subscribers, callback)
	}

	s.mu.Unlock()

	if len(kinds) == 0 {
		return
	}

	zap.L().With(zap.Int("patches", len(patches))).Debug("[Store] Applied batch")

	for _, callback := range subscribers {
		callback(kinds)
	}
}

func (s *Store) bumpVersion(id string, seq uint64) {
	if seq > s.versions[id] {
		s.versions[id] = seq
	}
}

func (s *Store) sortedListings() []entity.Listing {
	ids := make([]string, 0, len(s.listings))
	for id := range s.listings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	listings := make([]entity.Listing, 0, len(ids))
	for _, id := range ids {
		listings = append(listings, s.listings[id])
	}

	return listings
}
