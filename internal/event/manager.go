package event

import (
	"sync"

	"go.uber.org/zap"
)

type listener struct {
	eventType Type
	callback  func(msg interface{})
}

// Manager dispatches a closed set of typed messages to explicitly registered
// listeners. Dispatch is synchronous: Emit returns once every listener for
// the type has run.
type Manager struct {
	mu        sync.Mutex
	listeners map[*listener]struct{}
}

func NewManager() *Manager {
	return &Manager{listeners: make(map[*listener]struct{})}
}

// AddListener registers a callback for an event type and returns a function
// that removes the registration.
func (m *Manager) AddListener(eventType Type, callback func(msg interface{})) func() {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	l := &listener{eventType: eventType, callback: callback}

	m.mu.Lock()
	m.listeners[l] = struct{}{}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, l)
		m.mu.Unlock()
	}
}

func (m *Manager) Emit(eventType Type, msg interface{}) {
	m.mu.Lock()
	matched := make([]*listener, 0, len(m.listeners))
	for l := range m.listeners {
		if l.eventType == eventType {
			matched = append(matched, l)
		}
	}
	m.mu.Unlock()

	if len(matched) == 0 {
		zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: No listeners for event")
	}

	for _, l := range matched {
		l.callback(msg)
	}
}
