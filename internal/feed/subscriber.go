package feed

import (
	"context"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
)

// Subscriber delivers the realtime marketplace feed. The returned channel is
// closed when the context ends; delivery order across listing ids is not
// guaranteed and the merger does not rely on it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan entity.MarketEvent, error)
}
