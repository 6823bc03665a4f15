package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces upload records in Redis.
const keyPrefix = "upload:"

// RedisStore keeps upload records as JSON values with a per-key TTL,
// so handle expiry is handled natively by Redis. File cleanup for
// expired handles is left to the uploads-directory sweep, since Redis
// cannot delete files from local disk.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an already-connected client. A zero ttl stores
// records without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Connect dials Redis from a connection URL and verifies the server is
// reachable before returning the store.
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

func (s *RedisStore) Put(ctx context.Context, u Upload) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding upload %s: %w", u.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+u.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing upload %s: %w", u.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Upload, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Upload{}, ErrUnknownUpload
	}
	if err != nil {
		return Upload{}, fmt.Errorf("fetching upload %s: %w", id, err)
	}

	var u Upload
	if err := json.Unmarshal(data, &u); err != nil {
		return Upload{}, fmt.Errorf("decoding upload %s: %w", id, err)
	}
	return u, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Upload)) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	fn(&u)

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding upload %s: %w", id, err)
	}
	// KeepTTL preserves the expiry set at ingestion time.
	if err := s.client.Set(ctx, keyPrefix+id, data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("updating upload %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("deleting upload %s: %w", id, err)
	}
	return nil
}

// Evict is a no-op: Redis expires records itself via the key TTL.
func (s *RedisStore) Evict(context.Context, time.Time) ([]Upload, error) {
	return nil, nil
}

// Close releases the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
