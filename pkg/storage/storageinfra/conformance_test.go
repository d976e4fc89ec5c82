package storageinfra

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
)

// facilityPair opens two contexts over the same underlying store.
type facilityPair func(t *testing.T) (a, b storage.Facility)

func runStorageConformance(t *testing.T, open facilityPair) {
	t.Run("GetMissing", func(t *testing.T) {
		a, _ := open(t)
		_, ok, err := a.GetItem(context.Background(), "absent")
		if err != nil || ok {
			t.Fatalf("GetItem(absent) = ok %v, err %v; want false, nil", ok, err)
		}
	})

	t.Run("SetVisibleToOtherContext", func(t *testing.T) {
		a, b := open(t)
		ctx := context.Background()

		if err := a.SetItem(ctx, "jobs", `[{"id":1}]`); err != nil {
			t.Fatalf("SetItem: %v", err)
		}
		got, ok, err := b.GetItem(ctx, "jobs")
		if err != nil || !ok || got != `[{"id":1}]` {
			t.Fatalf("GetItem = %q, %v, %v", got, ok, err)
		}

		if err := a.SetItem(ctx, "jobs", `[]`); err != nil {
			t.Fatalf("SetItem overwrite: %v", err)
		}
		got, _, _ = b.GetItem(ctx, "jobs")
		if got != `[]` {
			t.Fatalf("after overwrite GetItem = %q, want []", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		a, b := open(t)
		ctx := context.Background()

		if err := a.SetItem(ctx, "candidates", `[]`); err != nil {
			t.Fatalf("SetItem: %v", err)
		}
		if err := b.RemoveItem(ctx, "candidates"); err != nil {
			t.Fatalf("RemoveItem: %v", err)
		}
		if _, ok, _ := a.GetItem(ctx, "candidates"); ok {
			t.Fatal("key still present after RemoveItem")
		}
		if err := b.RemoveItem(ctx, "candidates"); err != nil {
			t.Fatalf("RemoveItem of absent key: %v", err)
		}
	})
}

func runWatchConformance(t *testing.T, open facilityPair, wait time.Duration) {
	t.Run("EventsCrossContextsOnly", func(t *testing.T) {
		a, b := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		atA := newRecorder()
		atB := newRecorder()
		stopA, err := a.Watch(ctx, atA.record)
		if err != nil {
			t.Fatalf("Watch a: %v", err)
		}
		defer stopA()
		stopB, err := b.Watch(ctx, atB.record)
		if err != nil {
			t.Fatalf("Watch b: %v", err)
		}
		defer stopB()

		if err := a.SetItem(ctx, "assessments", `[]`); err != nil {
			t.Fatalf("SetItem: %v", err)
		}

		ev, ok := atB.next(wait)
		if !ok {
			t.Fatal("context b received no event")
		}
		if ev.Key != "assessments" || ev.Origin != a.Origin() {
			t.Errorf("event = %+v, want key assessments from %s", ev, a.Origin())
		}

		if _, echoed := atA.next(wait / 4); echoed {
			t.Error("writer received its own event")
		}
	})

	t.Run("StopUnsubscribes", func(t *testing.T) {
		a, b := open(t)
		ctx := context.Background()

		rec := newRecorder()
		stop, err := b.Watch(ctx, rec.record)
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
		stop()
		stop()

		if err := a.SetItem(ctx, "jobs", `[]`); err != nil {
			t.Fatalf("SetItem: %v", err)
		}
		if _, got := rec.next(wait / 2); got {
			t.Error("event delivered after stop")
		}
	})
}

type recorder struct {
	mu     sync.Mutex
	events chan storage.Event
}

func newRecorder() *recorder {
	return &recorder{events: make(chan storage.Event, 16)}
}

func (r *recorder) record(ev storage.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case r.events <- ev:
	default:
	}
}

func (r *recorder) next(timeout time.Duration) (storage.Event, bool) {
	select {
	case ev := <-r.events:
		return ev, true
	case <-time.After(timeout):
		return storage.Event{}, false
	}
}
