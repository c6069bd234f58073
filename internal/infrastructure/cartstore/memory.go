package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/groceryai/backend/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// memoryEntry is one serialized cart with its expiration
type memoryEntry struct {
	Data       []byte
	Expiration time.Time
}

// MemoryStore is a thread-safe in-memory cart store with TTL support
type MemoryStore struct {
	data  map[string]memoryEntry
	mutex sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-memory cart store
func NewMemoryStore() *MemoryStore {
	return newMemoryStore(defaultCleanupInterval)
}

func newMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	// Start cleanup goroutine to remove expired sessions
	go store.cleanupExpired(cleanupInterval)

	return store
}

// Get returns a private copy of the cart stored under id
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	s.mutex.RLock()
	entry, exists := s.data[id]
	s.mutex.RUnlock()

	if !exists || s.now().After(entry.Expiration) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}

	var cart domain.Cart
	if err := json.Unmarshal(entry.Data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", id, err)
	}
	return &cart, nil
}

// Save stores the cart with ttl, replacing any previous version.
// Carts are serialized so no two sessions or callers share item slices, as with Redis.
func (s *MemoryStore) Save(ctx context.Context, cart *domain.Cart, ttl time.Duration) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", cart.ID, err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[cart.ID] = memoryEntry{
		Data:       data,
		Expiration: s.now().Add(ttl),
	}
	return nil
}

// Delete removes a cart
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

// cleanupExpired removes expired carts periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for id, entry := range s.data {
		if now.After(entry.Expiration) {
			delete(s.data, id)
		}
	}
}
