package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "reserva:"
	redisChangeTopic = "reserva:changed"
)

// RedisStore persists snapshots as plain Redis strings and broadcasts change
// signals over a pub/sub channel.  Pub/sub gives the low-latency cross-client
// path; it is fire-and-forget, so consumers still reconcile periodically.
type RedisStore struct {
	client *redis.Client
	origin string
}

// NewRedisStore wraps an established Redis client.  origin identifies the
// owning client in published change signals.
func NewRedisStore(client *redis.Client, origin string) *RedisStore {
	if client == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{client: client, origin: origin}
}

// Load implements KeyedStore.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get %s: %v", ErrUnavailable, key, err)
	}
	return v, nil
}

// Save implements KeyedStore.  The snapshot write is authoritative; a failed
// publish is only logged because the periodic reconcile covers missed
// signals.
func (s *RedisStore) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", ErrUnavailable, key, err)
	}
	payload, err := json.Marshal(Change{Key: key, Origin: s.origin})
	if err != nil {
		return nil
	}
	if err := s.client.Publish(ctx, redisChangeTopic, payload).Err(); err != nil {
		log.Printf("store: publish change for %s failed: %v", key, err)
	}
	return nil
}

// Watch implements KeyedStore via a pub/sub subscription on the shared
// change topic.  Malformed messages are dropped.
func (s *RedisStore) Watch(ctx context.Context) (<-chan Change, error) {
	sub := s.client.Subscribe(ctx, redisChangeTopic)
	// Force the subscription to be established before returning so callers
	// do not miss signals emitted right after Watch.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: redis subscribe: %v", ErrUnavailable, err)
	}
	out := make(chan Change, 16)
	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ch Change
				if err := json.Unmarshal([]byte(msg.Payload), &ch); err != nil {
					log.Printf("store: bad change payload: %v", err)
					continue
				}
				select {
				case out <- ch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close implements KeyedStore.
func (s *RedisStore) Close() error { return s.client.Close() }
