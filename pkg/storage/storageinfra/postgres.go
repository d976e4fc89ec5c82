package storageinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const postgresTable = "storage_items"

// PostgresStorage keeps each key as a row and announces writes with
// pg_notify inside the writing transaction.
type PostgresStorage struct {
	db      *sqlx.DB
	dsn     string
	channel string
	origin  string
	psql    squirrel.StatementBuilderType
}

var _ storage.Facility = (*PostgresStorage)(nil)

// NewPostgresStorage creates a PostgreSQL-backed facility. dsn is reused to
// open the dedicated LISTEN connection.
func NewPostgresStorage(db *sqlx.DB, dsn, channel string) *PostgresStorage {
	return &PostgresStorage{
		db:      db,
		dsn:     dsn,
		channel: channel,
		origin:  uuid.NewString(),
		psql:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Migrate creates the key-value table if it does not exist.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+postgresTable+` (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			origin     TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", postgresTable, err)
	}
	return nil
}

func (p *PostgresStorage) Origin() string { return p.origin }

func (p *PostgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query, args, err := p.psql.
		Select("value").
		From(postgresTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, storage.ErrReadFailed(key, err)
	}

	var value string
	if err := p.db.GetContext(ctx, &value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, storage.ErrReadFailed(key, err)
	}
	return value, true, nil
}

func (p *PostgresStorage) SetItem(ctx context.Context, key, value string) error {
	query, args, err := p.psql.
		Insert(postgresTable).
		Columns("key", "value", "origin", "updated_at").
		Values(key, value, p.origin, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, origin = EXCLUDED.origin, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}

	return p.inTx(ctx, key, func(tx *sqlx.Tx) (bool, error) {
		_, err := tx.ExecContext(ctx, query, args...)
		return true, err
	})
}

func (p *PostgresStorage) RemoveItem(ctx context.Context, key string) error {
	query, args, err := p.psql.
		Delete(postgresTable).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}

	return p.inTx(ctx, key, func(tx *sqlx.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n > 0, err
	})
}

// inTx runs write and, when it reports a change, notifies listeners before
// committing. Postgres delivers the notification only on commit.
func (p *PostgresStorage) inTx(ctx context.Context, key string, write func(tx *sqlx.Tx) (bool, error)) error {
	payload, err := json.Marshal(storage.Event{Key: key, Origin: p.origin, At: time.Now().UTC()})
	if err != nil {
		return storage.ErrWriteFailed(key, err)
	}

	tx, err := p.db.BeginTxx(ctx, nil)
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
		if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, p.channel, string(payload)); err != nil {
			return storage.ErrWriteFailed(key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.ErrWriteFailed(key, err)
	}
	committed = true
	return nil
}

// Watch opens a pq.Listener on the notify channel.
func (p *PostgresStorage) Watch(ctx context.Context, fn func(storage.Event)) (func(), error) {
	listener := pq.NewListener(p.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logx.Warnf("postgres storage: listener event %d: %v", ev, err)
		}
	})
	if err := listener.Listen(p.channel); err != nil {
		_ = listener.Close()
		return nil, storage.ErrWatchFailed(err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				// nil marks a reconnect; notifications may have been lost, so
				// report a change of unknown key.
				if n == nil {
					fn(storage.Event{At: time.Now().UTC()})
					continue
				}
				var ev storage.Event
				if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
					logx.Warnf("postgres storage: ignoring malformed event %q: %v", n.Extra, err)
					continue
				}
				if ev.Origin == p.origin {
					continue
				}
				fn(ev)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = listener.Close()
		})
	}, nil
}

func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}
