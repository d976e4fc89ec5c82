// Package crosstab fans storage change events out to the managers of one
// process context, so their views follow writes made by other contexts.
package crosstab

import (
	"context"
	"sync"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
)

// Channel dispatches events from a storage.Watcher to local listeners.
type Channel struct {
	watcher storage.Watcher

	mu        sync.RWMutex
	listeners map[uint64]*Subscription
	nextID    uint64
	stop      func()
}

func New(w storage.Watcher) *Channel {
	return &Channel{
		watcher:   w,
		listeners: make(map[uint64]*Subscription),
	}
}

// Start begins watching the underlying storage. Calling it twice is a no-op.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}

	stop, err := c.watcher.Watch(ctx, c.Notify)
	if err != nil {
		return storage.ErrWatchFailed(err)
	}
	c.stop = stop
	logx.Debug("crosstab: watching storage")
	return nil
}

// Close stops watching. Subscriptions stay registered but receive nothing
// more from storage.
func (c *Channel) Close() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Subscribe registers fn for events on the given collections, or on every key
// when none are given. The returned Subscription must be closed when the
// listener goes away.
func (c *Channel) Subscribe(fn func(storage.Event), keys ...kernel.CollectionName) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	sub := &Subscription{
		id:      c.nextID,
		channel: c,
		fn:      fn,
	}
	if len(keys) > 0 {
		sub.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			sub.keys[k.String()] = struct{}{}
		}
	}
	c.listeners[sub.id] = sub
	return sub
}

// Notify delivers ev to every matching listener. An event with an empty key
// means the changed key is unknown and reaches all listeners.
func (c *Channel) Notify(ev storage.Event) {
	c.mu.RLock()
	targets := make([]*Subscription, 0, len(c.listeners))
	for _, sub := range c.listeners {
		if sub.matches(ev.Key) {
			targets = append(targets, sub)
		}
	}
	c.mu.RUnlock()

	for _, sub := range targets {
		sub.fn(ev)
	}
}

// Tick delivers an unknown-key event every interval until ctx is done. It
// stands in for a change feed on backends that have none.
func (c *Channel) Tick(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.Notify(storage.Event{At: now})
		}
	}
}

// Len returns the number of registered listeners.
func (c *Channel) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.listeners)
}

func (c *Channel) remove(id uint64) {
	c.mu.Lock()
	delete(c.listeners, id)
	c.mu.Unlock()
}

// Subscription is a registered listener.
type Subscription struct {
	id      uint64
	channel *Channel
	fn      func(storage.Event)
	keys    map[string]struct{}
	once    sync.Once
}

// Close unregisters the listener. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.channel.remove(s.id) })
}

func (s *Subscription) matches(key string) bool {
	if s.keys == nil || key == "" {
		return true
	}
	_, ok := s.keys[key]
	return ok
}
