package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Manager owns one cart per user identity. Carts live in memory for the
// duration of a session: created on first touch, dropped at logout or when an
// order consumes them.
type Manager struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*Cart
}

// NewManager creates an empty cart registry.
func NewManager() *Manager {
	return &Manager{carts: make(map[uuid.UUID]*Cart)}
}

// Get returns the user's cart, creating it on first access.
func (m *Manager) Get(userID uuid.UUID) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		c = New()
		m.carts[userID] = c
	}
	return c
}

// Drop tears down the user's cart.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}
