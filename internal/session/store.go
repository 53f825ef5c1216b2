package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pos-system/internal/cart"
)

// ErrHeldCartNotFound is returned when a hold id is unknown or expired
var ErrHeldCartNotFound = errors.New("held cart not found")

// HeldCart is a parked cart snapshot waiting to be resumed at any till
type HeldCart struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Snapshot cart.Snapshot `json:"snapshot"`
	HeldAt   time.Time     `json:"held_at"`
}

// Store parks cart snapshots in Redis so a cashier can hold an order
// and resume it later, possibly from a different till
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore connects to Redis and verifies the connection
func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{rdb: rdb, ttl: ttl}, nil
}

// Hold parks a snapshot under the given id. An existing hold with the
// same id is overwritten.
func (s *Store) Hold(ctx context.Context, id, label string, snap cart.Snapshot) error {
	held := HeldCart{
		ID:       id,
		Label:    label,
		Snapshot: snap,
		HeldAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(held)
	if err != nil {
		return fmt.Errorf("failed to marshal held cart: %w", err)
	}

	if err := s.rdb.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store held cart: %w", err)
	}
	return nil
}

// Resume retrieves a held cart and removes it from the store
func (s *Store) Resume(ctx context.Context, id string) (*HeldCart, error) {
	val, err := s.rdb.Get(ctx, key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrHeldCartNotFound
		}
		return nil, fmt.Errorf("failed to get held cart: %w", err)
	}

	var held HeldCart
	if err := json.Unmarshal([]byte(val), &held); err != nil {
		return nil, fmt.Errorf("failed to unmarshal held cart: %w", err)
	}

	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return nil, fmt.Errorf("failed to remove held cart: %w", err)
	}
	return &held, nil
}

// List returns all currently held carts
func (s *Store) List(ctx context.Context) ([]HeldCart, error) {
	keys, err := s.rdb.Keys(ctx, "held:*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list held carts: %w", err)
	}

	var held []HeldCart
	for _, k := range keys {
		val, err := s.rdb.Get(ctx, k).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between KEYS and GET
			}
			return nil, fmt.Errorf("failed to get held cart %s: %w", k, err)
		}

		var h HeldCart
		if err := json.Unmarshal([]byte(val), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal held cart %s: %w", k, err)
		}
		held = append(held, h)
	}
	return held, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.rdb.Close()
}

func key(id string) string {
	return "held:" + id
}
