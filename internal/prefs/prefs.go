package prefs

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/event"
	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/storage"
	"go.uber.org/zap"
)

const (
	favoritesKey = "favorites"
	themeKey     = "theme"
)

// Preferences is the durable per-user preference layer. Every mutation
// writes through to the storage adapter; storage failures are logged and
// absorbed, never surfaced, so the caller always gets a usable value.
type Preferences interface {
	GetFavorites() []entity.Listing
	AddFavorite(listing entity.Listing)
	RemoveFavorite(id string)
	IsFavorite(id string) bool
	ClearFavorites()

	GetTheme() entity.ThemePreference
	SetTheme(value entity.ThemePreference) error
	ResolvedTheme() entity.ResolvedTheme
}

type preferences struct {
	storage storage.Store
	events  *event.Manager
	signal  SystemSignal

	mu        sync.Mutex
	favorites []entity.Listing
	theme     entity.ThemePreference
	system    entity.ResolvedTheme
}

func NewPreferences(st storage.Store, events *event.Manager, signal SystemSignal) Preferences {
	p := &preferences{
		storage: st,
		events:  events,
		signal:  signal,
		theme:   entity.ThemeSystem,
		system:  signal.Current(),
	}

	p.hydrate()

	signal.AddListener(p.onSystemChange)

	return p
}

func (p *preferences) hydrate() {
	raw, err := p.storage.Get(favoritesKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		zap.L().With(zap.Error(err)).Warn("[Prefs] Failed to read favorites, starting empty")
	default:
		if err := json.Unmarshal([]byte(raw), &p.favorites); err != nil {
			zap.L().With(zap.Error(err)).Warn("[Prefs] Malformed favorites, starting empty")
			p.favorites = nil
		}
	}

	raw, err = p.storage.Get(themeKey)
	if err == nil {
		theme := entity.ThemePreference(raw)
		if theme.Valid() {
			p.theme = theme
		} else {
			zap.L().With(zap.String("value", raw)).Warn("[Prefs] Malformed theme, using system")
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		zap.L().With(zap.Error(err)).Warn("[Prefs] Failed to read theme, using system")
	}
}

func (p *preferences) GetFavorites() []entity.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()

	favorites := make([]entity.Listing, len(p.favorites))
	copy(favorites, p.favorites)

	return favorites
}

// AddFavorite is idempotent: adding an id already in the set changes nothing.
func (p *preferences) AddFavorite(listing entity.Listing) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, favorite := range p.favorites {
		if favorite.ID == listing.ID {
			return
		}
	}

	p.favorites = append(p.favorites, listing)
	p.persistFavorites()
}

func (p *preferences) RemoveFavorite(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, favorite := range p.favorites {
		if favorite.ID == id {
			p.favorites = append(p.favorites[:i], p.favorites[i+1:]...)
			p.persistFavorites()
			return
		}
	}
}

func (p *preferences) IsFavorite(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, favorite := range p.favorites {
		if favorite.ID == id {
			return true
		}
	}

	return false
}

func (p *preferences) ClearFavorites() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.favorites = nil
	p.persistFavorites()
}

func (p *preferences) persistFavorites() {
	raw, err := json.Marshal(p.favorites)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("[Prefs] Failed to encode favorites")
		return
	}

	if err := p.storage.Set(favoritesKey, string(raw)); err != nil {
		zap.L().With(zap.Error(err)).Error("[Prefs] Failed to persist favorites")
	}
}

func (p *preferences) GetTheme() entity.ThemePreference {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.theme
}

func (p *preferences) SetTheme(value entity.ThemePreference) error {
	if !value.Valid() {
		return errors.New("invalid theme: " + string(value))
	}

	p.mu.Lock()
	p.theme = value
	if err := p.storage.Set(themeKey, string(value)); err != nil {
		zap.L().With(zap.Error(err)).Error("[Prefs] Failed to persist theme")
	}
	resolved := p.resolved()
	p.mu.Unlock()

	p.events.Emit(event.ThemeChangedEvent, resolved)

	return nil
}

// ResolvedTheme resolves "system" against the live OS preference.
func (p *preferences) ResolvedTheme() entity.ResolvedTheme {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.resolved()
}

func (p *preferences) resolved() entity.ResolvedTheme {
	switch p.theme {
	case entity.ThemeLight:
		return entity.ResolvedLight
	case entity.ThemeDark:
		return entity.ResolvedDark
	default:
		return p.system
	}
}

// onSystemChange re-resolves a "system" theme without persisting anything.
func (p *preferences) onSystemChange(value entity.ResolvedTheme) {
	p.mu.Lock()
	p.system = value
	announce := p.theme == entity.ThemeSystem
	p.mu.Unlock()

	if announce {
		p.events.Emit(event.ThemeChangedEvent, value)
	}
}
