package repository

import (
	"context"
	"sync"

	"github.com/guineapos/checkout-service/internal/model"
)

// MemoryCartStore is the single-terminal fallback used when Redis is not
// configured, and the store the usecase tests run against.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]*model.Cart)}
}

func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (*model.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (s *MemoryCartStore) Save(_ context.Context, cart *model.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cart
	copied.Lines = append([]model.CartLine(nil), cart.Lines...)
	s.carts[cart.SessionID] = &copied
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
