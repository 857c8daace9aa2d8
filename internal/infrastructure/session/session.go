// Package session provides the cart session stores: Redis for deployments
// with more than one process, process memory for tests and local runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/domain/entity"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
)

// ErrStoreUnavailable is returned when the session backend cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Key returns the storage key of a cart session.
func Key(pid uint, sessionID string) string {
	return fmt.Sprintf("cart_products:cart:%d:%s", pid, sessionID)
}

// RedisCartStore stores carts as JSON strings with a sliding expiry.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisCartStore creates a cart store on top of client.
//
// Parameters:
//   - client: the Redis client
//   - ttl: lifetime of a cart session; refreshed on every save
//
// Returns:
//   - *RedisCartStore: the store
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// Load implements port.CartStore.
func (s *RedisCartStore) Load(ctx context.Context, sessionID string, pid uint) (*entity.Cart, error) {
	data, err := s.client.Get(ctx, Key(pid, sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Save implements port.CartStore.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, Key(cart.Pid, sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Ping checks the connection to Redis.
func (s *RedisCartStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// MemoryCartStore keeps carts in process memory. Stored carts are copied so
// callers cannot change them without saving.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]entity.Cart
}

// NewMemoryCartStore creates an empty store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]entity.Cart)}
}

// Load implements port.CartStore.
func (s *MemoryCartStore) Load(_ context.Context, sessionID string, pid uint) (*entity.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[Key(pid, sessionID)]
	if !ok {
		return nil, nil
	}
	return copyCart(cart), nil
}

// Save implements port.CartStore.
func (s *MemoryCartStore) Save(_ context.Context, sessionID string, cart *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[Key(cart.Pid, sessionID)] = *copyCart(*cart)
	return nil
}

// Ping always succeeds.
func (s *MemoryCartStore) Ping(context.Context) error {
	return nil
}

func copyCart(c entity.Cart) *entity.Cart {
	c.Items = append(make([]entity.CartItem, 0, len(c.Items)), c.Items...)
	return &c
}

var (
	_ port.CartStore = (*RedisCartStore)(nil)
	_ port.CartStore = (*MemoryCartStore)(nil)
)
