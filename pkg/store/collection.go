// Package store persists whole collections of records as JSON arrays in a
// storage.Storage, one key per collection.
package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("STORE")

var (
	CodeNotLoaded    = ErrRegistry.Register("NOT_LOADED", errx.TypeInternal, http.StatusServiceUnavailable, "Collection has not been loaded yet")
	CodeLoadFailed   = ErrRegistry.Register("LOAD_FAILED", errx.TypeExternal, http.StatusBadGateway, "Collection could not be read")
	CodeEncodeFailed = ErrRegistry.Register("ENCODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Collection could not be encoded")
)

func ErrNotLoaded() *errx.Error    { return ErrRegistry.New(CodeNotLoaded) }
func ErrLoadFailed() *errx.Error   { return ErrRegistry.New(CodeLoadFailed) }
func ErrEncodeFailed() *errx.Error { return ErrRegistry.New(CodeEncodeFailed) }

// Collection reads and writes one named collection of T.
//
// Saves are refused until the collection has been read successfully once, so
// a context that never loaded cannot overwrite what others persisted. After
// that first read an empty collection is a legitimate value and is saved.
type Collection[T any] struct {
	name    kernel.CollectionName
	storage storage.Storage

	// mutate serializes read-modify-write cycles within the process.
	mutate sync.Mutex

	mu     sync.RWMutex
	loaded bool
}

func NewCollection[T any](s storage.Storage, name kernel.CollectionName) *Collection[T] {
	return &Collection[T]{name: name, storage: s}
}

func (c *Collection[T]) Name() kernel.CollectionName { return c.name }

// Loaded reports whether a read has succeeded yet.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Load returns the persisted records in order. An absent key, malformed
// content or a failing backend all yield an empty slice.
func (c *Collection[T]) Load(ctx context.Context) []T {
	records, err := c.load(ctx)
	if err != nil {
		logx.Warnf("store: load %s: %v", c.name, err)
		return []T{}
	}
	return records
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	raw, ok, err := c.storage.GetItem(ctx, c.name.String())
	if err != nil {
		return nil, ErrLoadFailed().WithDetail("collection", c.name.String()).WithCause(err)
	}
	c.markLoaded()

	if !ok {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logx.Warnf("store: %s holds malformed data, treating as empty: %v", c.name, err)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the persisted collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if !c.Loaded() {
		return ErrNotLoaded().WithDetail("collection", c.name.String())
	}
	if records == nil {
		records = []T{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return ErrEncodeFailed().WithDetail("collection", c.name.String()).WithCause(err)
	}
	if err := c.storage.SetItem(ctx, c.name.String(), string(data)); err != nil {
		return errx.Wrap(err, "failed to save "+c.name.String(), errx.TypeExternal)
	}
	return nil
}

// Mutate reloads the full collection, applies fn and saves the result. It
// never starts from a caller-held copy, so records outside the caller's view
// survive. If fn returns an error nothing is written. A failed read aborts
// the mutation rather than saving over data it could not see.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) ([]T, error) {
	c.mutate.Lock()
	defer c.mutate.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := fn(records)
	if err != nil {
		return nil, err
	}

	if err := c.Save(ctx, updated); err != nil {
		return nil, err
	}
	if updated == nil {
		updated = []T{}
	}
	return updated, nil
}

func (c *Collection[T]) markLoaded() {
	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
}
