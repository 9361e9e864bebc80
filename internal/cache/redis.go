package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached responses between several readers. Entries expire
// on their own after ttl; Prune is a no-op.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// OpenRedis connects to redisURL (redis://...) or, failing to parse it, treats
// it as a plain host:port address.
func OpenRedis(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisStore(client, prefix, ttl), nil
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "ainews:cache:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(k string) string { return r.prefix + k }

func (r *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("reading %s: %w", key, err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("decoding %s: %w", key, err)
	}
	return e, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		n    int64
		iter = r.client.Scan(ctx, 0, r.key(prefix)+"*", 100).Iterator()
	)
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return n, fmt.Errorf("deleting %s: %w", iter.Val(), err)
		}
		n++
	}
	return n, iter.Err()
}

func (r *RedisStore) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func (r *RedisStore) Close() error { return r.client.Close() }
