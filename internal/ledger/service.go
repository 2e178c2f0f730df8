package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"go.uber.org/zap"
)

// Operation is a single marketplace mutation to be settled by the ledger.
type Operation struct {
	Method string
	Params interface{}
}

// Result is the authoritative outcome of a settled operation. The ledger
// assigns ids, timestamps and the per-listing sequence number.
type Result struct {
	Listing     *entity.Listing     `json:"listing,omitempty"`
	Marketplace *entity.Marketplace `json:"marketplace,omitempty"`
	Sale        *entity.Sale        `json:"sale,omitempty"`
	Seq         uint64              `json:"seq,omitempty"`
}

type Service interface {
	Submit(ctx context.Context, op Operation) (*Result, error)
}

type service struct {
	client *rpcClient
}

func NewService(client *rpcClient) Service {
	return service{client}
}

func (s service) Submit(ctx context.Context, op Operation) (*Result, error) {
	resp, err := s.client.call(ctx, op.Method, op.Params)
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		zap.L().With(
			zap.String("method", op.Method),
			zap.Int("code", resp.Error.Code),
			zap.String("message", resp.Error.Message),
		).Warn("Ledger: Operation rejected")
		return nil, mapRPCError(resp.Error.Code, resp.Error.Message)
	}

	var result Result
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return &result, nil
}

func InitializeMarketplace(authority string, fee float64, treasury string) Operation {
	return Operation{
		Method: "initialize_marketplace",
		Params: map[string]interface{}{
			"authority": authority,
			"fee":       fee,
			"treasury":  treasury,
		},
	}
}

func ListNFT(seller, mint string, price float64, metadata entity.Metadata) Operation {
	return Operation{
		Method: "list_nft",
		Params: map[string]interface{}{
			"seller":   seller,
			"mint":     mint,
			"price":    price,
			"metadata": metadata,
		},
	}
}

func PurchaseNFT(buyer, listingID string) Operation {
	return Operation{
		Method: "purchase_nft",
		Params: map[string]interface{}{
			"buyer":     buyer,
			"listingId": listingID,
		},
	}
}

func DelistNFT(seller, listingID string) Operation {
	return Operation{
		Method: "delist_nft",
		Params: map[string]interface{}{
			"seller":    seller,
			"listingId": listingID,
		},
	}
}

func UpdateFee(authority string, fee float64) Operation {
	return Operation{
		Method: "update_fee",
		Params: map[string]interface{}{
			"authority": authority,
			"fee":       fee,
		},
	}
}
