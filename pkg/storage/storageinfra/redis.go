package storageinfra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps each key as a Redis string and announces writes on a
// pub/sub channel.
type RedisStorage struct {
	client  *redis.Client
	channel string
	origin  string
}

var _ storage.Facility = (*RedisStorage)(nil)

// NewRedisStorage creates a Redis-backed facility with a fresh origin.
func NewRedisStorage(client *redis.Client, channel string) *RedisStorage {
	return &RedisStorage{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

func (r *RedisStorage) Origin() string { return r.origin }

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, storage.ErrReadFailed(key, err)
	}
	return value, true, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	payload, err := r.event(key)
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, value, 0)
	pipe.Publish(ctx, r.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	return nil
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	payload, err := r.event(key)
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.Publish(ctx, r.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	return nil
}

// Watch subscribes to the event channel. The subscription is confirmed
// before Watch returns, so no write made afterwards is missed.
func (r *RedisStorage) Watch(ctx context.Context, fn func(storage.Event)) (func(), error) {
	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, storage.ErrWatchFailed(err)
	}

	msgs := sub.Channel()
	go func() {
		for msg := range msgs {
			var ev storage.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logx.Warnf("redis storage: ignoring malformed event %q: %v", msg.Payload, err)
				continue
			}
			if ev.Origin == r.origin {
				continue
			}
			fn(ev)
		}
	}()

	return func() { _ = sub.Close() }, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}

func (r *RedisStorage) event(key string) ([]byte, error) {
	return json.Marshal(storage.Event{Key: key, Origin: r.origin, At: time.Now().UTC()})
}
