package coordinator

import (
	"context"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/event"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/factory"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/ledger"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/store"
	"go.uber.org/zap"
)

// Coordinator turns user intents into durable ledger changes while keeping
// local state responsive. Every mutation validates, claims the per-entity
// slot, applies an optimistic delta, submits to the ledger, then reconciles
// on success or rolls back to the exact pre-mutation snapshot on failure.
type Coordinator interface {
	InitializeMarketplace(ctx context.Context, fee float64, treasury string) (*entity.Marketplace, error)
	ListNFT(ctx context.Context, mint string, price float64, metadata entity.Metadata) (*entity.Listing, error)
	PurchaseNFT(ctx context.Context, listingID string) (*entity.Sale, error)
	DelistNFT(ctx context.Context, listingID string) error
	UpdateFee(ctx context.Context, fee float64) error
}

type coordinator struct {
	store         *store.Store
	ledger        ledger.Service
	events        *event.Manager
	slots         *Slots
	wallet        string
	marketplaceID string
}

func NewCoordinator(st *store.Store, lg ledger.Service, events *event.Manager, slots *Slots, wallet, marketplaceID string) Coordinator {
	return &coordinator{st, lg, events, slots, wallet, marketplaceID}
}

func (c *coordinator) InitializeMarketplace(ctx context.Context, fee float64, treasury string) (*entity.Marketplace, error) {
	if fee < 0 || fee > 100 {
		return nil, validationError("fee must be within [0,100], got %f", fee)
	}
	if treasury == "" {
		return nil, validationError("treasury is required")
	}

	if err := c.slots.Acquire(c.marketplaceID); err != nil {
		return nil, err
	}

	if _, err := c.store.GetMarketplace(); err == nil {
		c.slots.Release(c.marketplaceID)
		return nil, validationError("marketplace already initialized")
	}

	provisional := entity.Marketplace{
		ID:        c.marketplaceID,
		Authority: c.wallet,
		Fee:       fee,
		Treasury:  treasury,
		CreatedAt: time.Now().Unix(),
	}
	c.store.Apply(store.Patch{Marketplace: &provisional})

	result, err := c.ledger.Submit(ctx, ledger.InitializeMarketplace(c.wallet, fee, treasury))
	if err != nil {
		c.store.Apply(store.Patch{ClearMarketplace: true})
		c.settle(c.marketplaceID, "Initialize marketplace failed", err)
		return nil, err
	}

	marketplace := result.Marketplace
	if marketplace == nil {
		marketplace = &provisional
	}
	c.store.Apply(store.Patch{Marketplace: marketplace})
	c.settle(c.marketplaceID, "Marketplace initialized", nil)

	return marketplace, nil
}

func (c *coordinator) ListNFT(ctx context.Context, mint string, price float64, metadata entity.Metadata) (*entity.Listing, error) {
	if mint == "" {
		return nil, validationError("mint is required")
	}
	if price <= 0 {
		return nil, validationError("price must be positive, got %f", price)
	}

	provisional := factory.NewProvisionalListing(c.marketplaceID, c.wallet, mint, price, metadata)

	if err := c.slots.Acquire(provisional.ID); err != nil {
		return nil, err
	}

	c.store.Apply(store.Patch{Listing: &provisional})

	result, err := c.ledger.Submit(ctx, ledger.ListNFT(c.wallet, mint, price, metadata))
	if err != nil {
		c.store.Apply(store.Patch{RemoveListing: provisional.ID})
		c.settle(provisional.ID, "Listing failed", err)
		return nil, err
	}

	listing := result.Listing
	if listing == nil {
		confirmed := provisional
		confirmed.Provisional = false
		listing = &confirmed
	}

	c.store.Apply(
		store.Patch{RemoveListing: provisional.ID},
		store.Patch{Listing: listing, Seq: result.Seq},
	)
	c.settle(provisional.ID, "Listing created", nil)

	return listing, nil
}

func (c *coordinator) PurchaseNFT(ctx context.Context, listingID string) (*entity.Sale, error) {
	if err := c.slots.Acquire(listingID); err != nil {
		return nil, err
	}

	// The rollback snapshot is read under the slot, so no sequenced event can
	// land between the read and the optimistic remove.
	snapshot, err := c.store.GetListing(listingID)
	if err != nil {
		c.slots.Release(listingID)
		return nil, validationError("unknown listing %s", listingID)
	}
	if snapshot.Seller == c.wallet {
		c.slots.Release(listingID)
		return nil, validationError("cannot purchase own listing")
	}

	c.store.Apply(store.Patch{RemoveListing: listingID})

	result, err := c.ledger.Submit(ctx, ledger.PurchaseNFT(c.wallet, listingID))
	if err != nil {
		c.store.Apply(store.Patch{Listing: &snapshot})
		c.settle(listingID, "Purchase failed", err)
		return nil, err
	}

	sale := result.Sale
	if sale == nil {
		sale = &entity.Sale{
			ListingID: listingID,
			Mint:      snapshot.Mint,
			Buyer:     c.wallet,
			Seller:    snapshot.Seller,
			Price:     snapshot.Price,
			SoldAt:    time.Now().Unix(),
		}
	}

	patches := []store.Patch{
		{RemoveListing: listingID, Tombstone: true, Seq: result.Seq},
		{Sale: sale},
	}
	if result.Marketplace != nil {
		patches = append(patches, store.Patch{Marketplace: result.Marketplace})
	}
	c.store.Apply(patches...)
	c.settle(listingID, "Purchase complete", nil)

	return sale, nil
}

func (c *coordinator) DelistNFT(ctx context.Context, listingID string) error {
	if err := c.slots.Acquire(listingID); err != nil {
		return err
	}

	snapshot, err := c.store.GetListing(listingID)
	if err != nil {
		c.slots.Release(listingID)
		return validationError("unknown listing %s", listingID)
	}
	if snapshot.Seller != c.wallet {
		c.slots.Release(listingID)
		return validationError("only the seller can delist")
	}

	c.store.Apply(store.Patch{RemoveListing: listingID})

	result, err := c.ledger.Submit(ctx, ledger.DelistNFT(c.wallet, listingID))
	if err != nil {
		c.store.Apply(store.Patch{Listing: &snapshot})
		c.settle(listingID, "Delist failed", err)
		return err
	}

	c.store.Apply(store.Patch{RemoveListing: listingID, Tombstone: true, Seq: result.Seq})
	c.settle(listingID, "Listing removed", nil)

	return nil
}

func (c *coordinator) UpdateFee(ctx context.Context, fee float64) error {
	if fee < 0 || fee > 100 {
		return validationError("fee must be within [0,100], got %f", fee)
	}

	if err := c.slots.Acquire(c.marketplaceID); err != nil {
		return err
	}

	marketplace, err := c.store.GetMarketplace()
	if err != nil {
		c.slots.Release(c.marketplaceID)
		return validationError("marketplace not initialized")
	}
	if marketplace.Authority != c.wallet {
		c.slots.Release(c.marketplaceID)
		return validationError("only the authority can update the fee")
	}

	c.store.Apply(store.Patch{Fee: &fee})

	result, err := c.ledger.Submit(ctx, ledger.UpdateFee(c.wallet, fee))
	if err != nil {
		previous := marketplace.Fee
		c.store.Apply(store.Patch{Fee: &previous})
		c.settle(c.marketplaceID, "Fee update failed", err)
		return err
	}

	if result.Marketplace != nil {
		c.store.Apply(store.Patch{Marketplace: result.Marketplace})
	}
	c.settle(c.marketplaceID, "Fee updated", nil)

	return nil
}

// settle releases the slot, replaying any events the merger buffered while
// the mutation was in flight, and emits exactly one notification.
func (c *coordinator) settle(id, title string, err error) {
	c.slots.Release(id)

	if err != nil {
		zap.L().With(zap.String("id", id), zap.Error(err)).Warn("[Coordinator] Mutation rolled back")
		c.events.Emit(event.NotificationEvent, entity.NewNotification(entity.SeverityError, title, err.Error(), map[string]interface{}{"id": id}))
		return
	}

	c.events.Emit(event.NotificationEvent, entity.NewNotification(entity.SeveritySuccess, title, "", map[string]interface{}{"id": id}))
}
