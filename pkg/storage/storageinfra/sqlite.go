package storageinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const (
	sqliteItems      = "storage_items"
	sqliteEvents     = "storage_events"
	sqliteEventsKept = 10000
)

// OpenSQLite opens a SQLite file for use as a storage facility. Writers from
// other processes wait on the busy timeout instead of failing.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases coherent and serializes
	// writers within the process.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SQLiteStorage keeps each key as a row in a local file. Writes append to an
// event log that other processes poll, which stands in for a change feed.
type SQLiteStorage struct {
	db           *sql.DB
	origin       string
	pollInterval time.Duration
	sq           squirrel.StatementBuilderType
}

var _ storage.Facility = (*SQLiteStorage)(nil)

func NewSQLiteStorage(db *sql.DB, pollInterval time.Duration) *SQLiteStorage {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &SQLiteStorage{
		db:           db,
		origin:       uuid.NewString(),
		pollInterval: pollInterval,
		sq:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question).RunWith(db),
	}
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+sqliteItems+` (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	origin     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS `+sqliteEvents+` (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	key    TEXT NOT NULL,
	origin TEXT NOT NULL,
	at     TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite storage: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Origin() string { return s.origin }

func (s *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.sq.
		Select("value").
		From(sqliteItems).
		Where(squirrel.Eq{"key": key}).
		QueryRowContext(ctx).
		Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, storage.ErrReadFailed(key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.inTx(ctx, key, now, func(tx *sql.Tx) (bool, error) {
		_, err := squirrel.
			Insert(sqliteItems).
			Columns("key", "value", "origin", "updated_at").
			Values(key, value, s.origin, now).
			Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, origin = excluded.origin, updated_at = excluded.updated_at").
			RunWith(tx).
			ExecContext(ctx)
		return true, err
	})
}

func (s *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return s.inTx(ctx, key, now, func(tx *sql.Tx) (bool, error) {
		res, err := squirrel.
			Delete(sqliteItems).
			Where(squirrel.Eq{"key": key}).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n > 0, err
	})
}

func (s *SQLiteStorage) inTx(ctx context.Context, key, at string, write func(tx *sql.Tx) (bool, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	changed, err := write(tx)
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	if changed {
		_, err := squirrel.
			Insert(sqliteEvents).
			Columns("key", "origin", "at").
			Values(key, s.origin, at).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return storage.ErrWriteFailed(key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	committed = true
	return nil
}

// Watch polls the event log for rows written by other origins since the
// call. Only events appended after Watch returns are reported.
func (s *SQLiteStorage) Watch(ctx context.Context, fn func(storage.Event)) (func(), error) {
	cursor, err := s.lastEventID(ctx)
	if err != nil {
		return nil, storage.ErrWatchFailed(err)
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				next, err := s.poll(ctx, cursor, fn)
				if err != nil {
					logx.Warnf("sqlite storage: poll events: %v", err)
					continue
				}
				cursor = next
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

func (s *SQLiteStorage) lastEventID(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	err := s.sq.
		Select("MAX(id)").
		From(sqliteEvents).
		QueryRowContext(ctx).
		Scan(&id)
	if err != nil {
		return 0, err
	}
	return id.Int64, nil
}

func (s *SQLiteStorage) poll(ctx context.Context, cursor int64, fn func(storage.Event)) (int64, error) {
	rows, err := s.sq.
		Select("id", "key", "origin", "at").
		From(sqliteEvents).
		Where(squirrel.Gt{"id": cursor}).
		OrderBy("id").
		QueryContext(ctx)
	if err != nil {
		return cursor, err
	}

	var events []storage.Event
	for rows.Next() {
		var (
			id    int64
			ev    storage.Event
			rawAt string
		)
		if err := rows.Scan(&id, &ev.Key, &ev.Origin, &rawAt); err != nil {
			rows.Close()
			return cursor, err
		}
		cursor = id
		if ev.Origin == s.origin {
			continue
		}
		ev.At, _ = time.Parse(time.RFC3339Nano, rawAt)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return cursor, err
	}
	rows.Close()

	// Deliver after the rows are released: fn may read the storage and the
	// pool holds a single connection.
	for _, ev := range events {
		fn(ev)
	}

	if cursor > sqliteEventsKept {
		_, err := s.sq.
			Delete(sqliteEvents).
			Where(squirrel.LtOrEq{"id": cursor - sqliteEventsKept}).
			ExecContext(ctx)
		if err != nil {
			logx.Warnf("sqlite storage: prune events: %v", err)
		}
	}
	return cursor, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
