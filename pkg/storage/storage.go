// Package storage defines the key-value facility that collections are
// persisted in, and the change feed other process contexts observe.
package storage

import (
	"context"
	"net/http"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
)

// Storage is a string key-value store shared by every process context.
type Storage interface {
	// GetItem returns the stored value; ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// Event reports that another context changed key.
type Event struct {
	Key    string    `json:"key"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Watcher delivers Events for writes made by other origins. A context never
// receives events for its own writes.
type Watcher interface {
	Watch(ctx context.Context, fn func(Event)) (stop func(), err error)
}

// Facility is a Storage bound to one origin, together with its change feed.
type Facility interface {
	Storage
	Watcher
	Origin() string
	Ping(ctx context.Context) error
	Close() error
}

// NopWatcher is used by backends that have no change feed.
type NopWatcher struct{}

func (NopWatcher) Watch(context.Context, func(Event)) (func(), error) {
	return func() {}, nil
}

// Error Registry
var ErrRegistry = errx.NewRegistry("STORAGE")

var (
	CodeReadFailed  = ErrRegistry.Register("READ_FAILED", errx.TypeExternal, http.StatusBadGateway, "Storage read failed")
	CodeWriteFailed = ErrRegistry.Register("WRITE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Storage write failed")
	CodeWatchFailed = ErrRegistry.Register("WATCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Storage watch failed")
)

func ErrReadFailed(key string, cause error) *errx.Error {
	return ErrRegistry.New(CodeReadFailed).WithDetail("key", key).WithCause(cause)
}

func ErrWriteFailed(key string, cause error) *errx.Error {
	return ErrRegistry.New(CodeWriteFailed).WithDetail("key", key).WithCause(cause)
}

func ErrWatchFailed(cause error) *errx.Error {
	return ErrRegistry.New(CodeWatchFailed).WithCause(cause)
}
