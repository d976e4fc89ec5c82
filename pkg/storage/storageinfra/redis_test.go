package storageinfra

import (
	"testing"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func openRedisPair(t *testing.T) (storage.Facility, storage.Facility) {
	t.Helper()
	srv := miniredis.RunT(t)

	open := func() *RedisStorage {
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		s := NewRedisStorage(client, "hiring:test-events")
		t.Cleanup(func() { _ = s.Close() })
		return s
	}
	return open(), open()
}

func TestRedisStorage(t *testing.T) {
	runStorageConformance(t, openRedisPair)
	runWatchConformance(t, openRedisPair, 2*time.Second)
}
