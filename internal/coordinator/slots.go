package coordinator

import (
	"sync"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"go.uber.org/zap"
)

// Slots serializes writes per entity id. At most one mutation may hold a
// slot at a time; realtime events targeting a held id are buffered and
// replayed when the mutation settles.
type Slots struct {
	mu     sync.Mutex
	held   map[string][]entity.MarketEvent
	replay func(ev entity.MarketEvent)
}

func NewSlots() *Slots {
	return &Slots{held: make(map[string][]entity.MarketEvent)}
}

// SetReplay installs the function buffered events are handed to on release.
// The realtime event merger registers itself here.
func (s *Slots) SetReplay(replay func(ev entity.MarketEvent)) {
	s.mu.Lock()
	s.replay = replay
	s.mu.Unlock()
}

// Acquire claims the slot for id, failing with ErrConflict when an in-flight
// mutation already owns it.
func (s *Slots) Acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.held[id]; ok {
		return ErrConflict
	}

	s.held[id] = nil

	return nil
}

// Held reports whether a mutation currently owns the slot for id.
func (s *Slots) Held(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.held[id]

	return ok
}

// Merge applies a realtime event through merge while holding the slot table
// lock, so no mutation can acquire the id between the held check and the
// merge itself. Events for a held id are buffered for replay instead.
func (s *Slots) Merge(ev entity.MarketEvent, merge func(ev entity.MarketEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.held[ev.ListingID]; ok {
		s.held[ev.ListingID] = append(s.held[ev.ListingID], ev)
		zap.L().With(zap.String("listingId", ev.ListingID), zap.Uint64("seq", ev.Seq)).Debug("[Slots] Buffered event behind in-flight mutation")
		return
	}

	merge(ev)
}

// Release frees the slot and replays any events buffered while it was held.
func (s *Slots) Release(id string) {
	s.mu.Lock()
	buffered := s.held[id]
	delete(s.held, id)
	replay := s.replay
	s.mu.Unlock()

	if replay == nil {
		return
	}

	for _, ev := range buffered {
		replay(ev)
	}
}
