package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// Store persists a user's cart as a product->quantity document.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
	Save(ctx context.Context, userID uuid.UUID, items map[uuid.UUID]int) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type redisCartClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(userID string) string
}

type redisStore struct {
	client redisCartClient
}

// NewRedisStore builds a cart store backed by Redis. Carts have no TTL; they
// live until checkout clears them.
func NewRedisStore(client redisCartClient) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return map[uuid.UUID]int{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items map[uuid.UUID]int
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode cart document: %w", err)
	}
	if items == nil {
		items = map[uuid.UUID]int{}
	}
	return items, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, items map[uuid.UUID]int) error {
	if len(items) == 0 {
		return s.Clear(ctx, userID)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}
	return s.client.Set(ctx, s.client.CartKey(userID.String()), string(raw), 0)
}

func (s *redisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, s.client.CartKey(userID.String()))
}

// MemoryStore is an in-process cart store used in tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]map[uuid.UUID]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]map[uuid.UUID]int)}
}

func (s *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := map[uuid.UUID]int{}
	for id, qty := range s.carts[userID] {
		items[id] = qty
	}
	return items, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID uuid.UUID, items map[uuid.UUID]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.carts, userID)
		return nil
	}
	copied := map[uuid.UUID]int{}
	for id, qty := range items {
		copied[id] = qty
	}
	s.carts[userID] = copied
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
