package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/tmux-reminder-popup/internal/logging/events"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/redis/go-redis/v9"
)

// redisKV is the subset of *redis.Client the store needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Redis stores records as JSON strings.
type Redis struct {
	client redisKV
	ttl    time.Duration
}

// OpenRedis connects using a redis:// URL. ttl bounds how long Put keeps a
// record; zero keeps it until deleted.
func OpenRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func newRedis(client redisKV, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (reminder.Record, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		events.Store.Get("redis", key, false)
		return reminder.Record{}, false, nil
	}
	if err != nil {
		return reminder.Record{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	events.Store.Get("redis", key, true)
	rec, err := reminder.Decode(data)
	if err != nil {
		return reminder.Record{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return rec, true, nil
}

func (r *Redis) Put(ctx context.Context, key string, rec reminder.Record) error {
	data, err := reminder.Encode(rec)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis put %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	events.Store.Delete("redis", key)
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
