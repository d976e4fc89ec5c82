package storageinfra

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
)

func openSQLitePair(t *testing.T) (storage.Facility, storage.Facility) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hiring.sqlite")
	return openSQLite(t, path), openSQLite(t, path)
}

func openSQLite(t *testing.T, path string) *SQLiteStorage {
	t.Helper()
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s := NewSQLiteStorage(db, 20*time.Millisecond)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorage(t *testing.T) {
	runStorageConformance(t, openSQLitePair)
	runWatchConformance(t, openSQLitePair, 2*time.Second)
}

func TestSQLiteWatchSkipsHistory(t *testing.T) {
	a, b := openSQLitePair(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.SetItem(ctx, "jobs", `[]`); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	stop, err := b.Watch(ctx, rec.record)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if ev, ok := rec.next(200 * time.Millisecond); ok {
		t.Fatalf("replayed an event written before Watch: %+v", ev)
	}
}
