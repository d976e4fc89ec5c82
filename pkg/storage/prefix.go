package storage

import (
	"context"
	"strings"
)

// WithPrefix namespaces every key of f under prefix. Events for keys outside
// the namespace are dropped; the rest are reported without the prefix.
func WithPrefix(f Facility, prefix string) Facility {
	if prefix == "" {
		return f
	}
	return &prefixed{Facility: f, prefix: prefix}
}

type prefixed struct {
	Facility
	prefix string
}

func (p *prefixed) GetItem(ctx context.Context, key string) (string, bool, error) {
	return p.Facility.GetItem(ctx, p.prefix+key)
}

func (p *prefixed) SetItem(ctx context.Context, key, value string) error {
	return p.Facility.SetItem(ctx, p.prefix+key, value)
}

func (p *prefixed) RemoveItem(ctx context.Context, key string) error {
	return p.Facility.RemoveItem(ctx, p.prefix+key)
}

func (p *prefixed) Watch(ctx context.Context, fn func(Event)) (func(), error) {
	return p.Facility.Watch(ctx, func(ev Event) {
		key, ok := strings.CutPrefix(ev.Key, p.prefix)
		if !ok {
			return
		}
		ev.Key = key
		fn(ev)
	})
}
