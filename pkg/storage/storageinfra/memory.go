package storageinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/google/uuid"
)

const memoryEventBuffer = 256

// MemoryHub is an in-process key-value store shared by several contexts,
// the way one browser profile's storage is shared by its tabs.
type MemoryHub struct {
	mu       sync.RWMutex
	items    map[string]string
	watchers map[int]*memoryWatch
	next     int
}

type memoryWatch struct {
	origin string
	events chan storage.Event
	done   chan struct{}
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		items:    make(map[string]string),
		watchers: make(map[int]*memoryWatch),
	}
}

// Context returns a new view of the hub with its own origin.
func (h *MemoryHub) Context() *MemoryStorage {
	return &MemoryStorage{hub: h, origin: uuid.NewString()}
}

// Snapshot copies the raw contents of the hub.
func (h *MemoryHub) Snapshot() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]string, len(h.items))
	for k, v := range h.items {
		out[k] = v
	}
	return out
}

func (h *MemoryHub) publish(ev storage.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, w := range h.watchers {
		if w.origin == ev.Origin {
			continue
		}
		select {
		case w.events <- ev:
		default:
			logx.Warnf("memory storage: dropping event for key %s, watcher %s is behind", ev.Key, w.origin)
		}
	}
}

// MemoryStorage implements storage.Facility on top of a MemoryHub.
type MemoryStorage struct {
	hub    *MemoryHub
	origin string
}

var _ storage.Facility = (*MemoryStorage)(nil)

func (m *MemoryStorage) Origin() string { return m.origin }

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.hub.mu.RLock()
	defer m.hub.mu.RUnlock()

	v, ok := m.hub.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.hub.mu.Lock()
	m.hub.items[key] = value
	m.hub.mu.Unlock()

	m.hub.publish(storage.Event{Key: key, Origin: m.origin, At: time.Now()})
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.hub.mu.Lock()
	_, existed := m.hub.items[key]
	delete(m.hub.items, key)
	m.hub.mu.Unlock()

	if existed {
		m.hub.publish(storage.Event{Key: key, Origin: m.origin, At: time.Now()})
	}
	return nil
}

// Watch delivers events on a dedicated goroutine, so fn may call back into
// the storage without deadlocking the writer.
func (m *MemoryStorage) Watch(ctx context.Context, fn func(storage.Event)) (func(), error) {
	w := &memoryWatch{
		origin: m.origin,
		events: make(chan storage.Event, memoryEventBuffer),
		done:   make(chan struct{}),
	}

	m.hub.mu.Lock()
	id := m.hub.next
	m.hub.next++
	m.hub.watchers[id] = w
	m.hub.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case ev := <-w.events:
				fn(ev)
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			m.hub.mu.Lock()
			delete(m.hub.watchers, id)
			m.hub.mu.Unlock()
			close(w.done)
		})
	}
	return stop, nil
}

func (m *MemoryStorage) Ping(context.Context) error { return nil }

func (m *MemoryStorage) Close() error { return nil }
