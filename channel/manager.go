package channel

import (
	"errors"
	"sync"

	"github.com/sage-x-project/lake/internal/logger"
)

// ErrNotFound reports a lookup of an unknown channel ID.
var ErrNotFound = errors.New("channel: not found")

// Manager tracks live channels by ID.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]*SecureChannel
	config   Config
	log      *logger.Logger
}

// NewManager creates a manager applying config to every opened channel.
func NewManager(config Config) *Manager {
	return &Manager{
		channels: make(map[string]*SecureChannel),
		config:   config,
		log:      logger.New("channel"),
	}
}

// Open creates and registers a channel. An empty id gets a fresh UUID.
func (m *Manager) Open(id string, role Role, keys Keys) (*SecureChannel, error) {
	ch, err := New(id, role, keys, m.config)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.channels[ch.ID()] = ch
	m.mu.Unlock()
	m.log.Debug("channel opened", logger.String("id", ch.ID()))
	return ch, nil
}

// Get returns a registered channel.
func (m *Manager) Get(id string) (*SecureChannel, error) {
	m.mu.RLock()
	ch, ok := m.channels[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return ch, nil
}

// Remove closes and forgets a channel.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	ch, ok := m.channels[id]
	delete(m.channels, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return ch.Close()
}

// Sweep closes and drops every expired channel, returning how many were
// removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, ch := range m.channels {
		if ch.IsExpired() {
			_ = ch.Close()
			delete(m.channels, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("expired channels swept", logger.Int("count", removed))
	}
	return removed
}

// Len returns the number of registered channels.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.channels)
}
