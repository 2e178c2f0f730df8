package prefs

import (
	"sync"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/entity"
)

// SystemSignal is the live OS/browser light-dark preference. It can change
// at runtime; the preference store re-resolves a "system" theme against it
// without persisting anything.
type SystemSignal interface {
	Current() entity.ResolvedTheme
	AddListener(callback func(entity.ResolvedTheme)) func()
}

type Signal struct {
	mu        sync.Mutex
	current   entity.ResolvedTheme
	listeners map[int]func(entity.ResolvedTheme)
	next      int
}

func NewSignal(initial entity.ResolvedTheme) *Signal {
	return &Signal{
		current:   initial,
		listeners: make(map[int]func(entity.ResolvedTheme)),
	}
}

func (s *Signal) Current() entity.ResolvedTheme {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// Set announces a system preference change to all listeners.
func (s *Signal) Set(value entity.ResolvedTheme) {
	s.mu.Lock()
	if s.current == value {
		s.mu.Unlock()
		return
	}
	s.current = value

	listeners := make([]func(entity.ResolvedTheme), 0, len(s.listeners))
	for _, callback := range s.listeners {
		listeners = append(listeners, callback)
	}
	s.mu.Unlock()

	for _, callback := range listeners {
		callback(value)
	}
}

func (s *Signal) AddListener(callback func(entity.ResolvedTheme)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.listeners[id] = callback
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
