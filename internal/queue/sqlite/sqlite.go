// Package sqlite is a file-backed queue shared by processes on one host.
//
// Messages are leased by moving their visible_at timestamp into the future
// inside a transaction; an acknowledgement deletes the row if its receipt
// still matches.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"devsecrets/internal/domain"
	"devsecrets/internal/queue"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          TEXT PRIMARY KEY,
	queue       TEXT NOT NULL,
	body        TEXT NOT NULL,
	inserted_at INTEGER NOT NULL,
	visible_at  INTEGER NOT NULL,
	receipt     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS messages_queue_visible ON messages(queue, visible_at);
`

// Queue is one named queue inside a SQLite database file.
type Queue struct {
	db      *sql.DB
	name    domain.QueueName
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithVisibilityTimeout overrides queue.DefaultVisibilityTimeout.
func WithVisibilityTimeout(d time.Duration) Option {
	return func(q *Queue) { q.timeout = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// Open opens (creating if needed) the database at path and returns the queue
// called name.
func Open(ctx context.Context, path string, name domain.QueueName, opts ...Option) (*Queue, error) {
	if name == "" {
		return nil, fmt.Errorf("sqlite queue: empty name: %w", domain.ErrInvalidInput)
	}
	// busy_timeout lets concurrent processes wait for the write lock.
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite queue: create schema: %w", err)
	}
	q := &Queue{db: db, name: name, timeout: queue.DefaultVisibilityTimeout, now: time.Now}
	for _, o := range opts {
		o(q)
	}
	return q, nil
}

func (q *Queue) Send(ctx context.Context, body string) error {
	now := q.now().UTC().UnixNano()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (id, queue, body, inserted_at, visible_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), string(q.name), body, now, now)
	return q.wrap(err)
}

func (q *Queue) ReceiveNext(ctx context.Context) (domain.Delivery, bool, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Delivery{}, false, q.wrap(err)
	}
	defer tx.Rollback()

	now := q.now().UTC()
	var (
		d        domain.Delivery
		inserted int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, body, inserted_at FROM messages
		 WHERE queue = ? AND visible_at <= ?
		 ORDER BY inserted_at, id LIMIT 1`,
		string(q.name), now.UnixNano()).Scan(&d.ID, &d.Body, &inserted)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Delivery{}, false, nil
	}
	if err != nil {
		return domain.Delivery{}, false, q.wrap(err)
	}

	d.Receipt = uuid.NewString()
	d.InsertedAt = time.Unix(0, inserted).UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE messages SET visible_at = ?, receipt = ? WHERE id = ?`,
		now.Add(q.timeout).UnixNano(), d.Receipt, d.ID); err != nil {
		return domain.Delivery{}, false, q.wrap(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Delivery{}, false, q.wrap(err)
	}
	return d, true, nil
}

func (q *Queue) Acknowledge(ctx context.Context, d domain.Delivery) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = ? AND queue = ? AND receipt = ? AND receipt <> ''`,
		d.ID, string(q.name), d.Receipt)
	if err != nil {
		return q.wrap(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return q.wrap(err)
	} else if n == 1 {
		return nil
	}

	var exists int
	err = q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE id = ? AND queue = ?`, d.ID, string(q.name)).Scan(&exists)
	if err != nil {
		return q.wrap(err)
	}
	if exists == 0 {
		return queue.ErrNotFound
	}
	return queue.ErrStaleReceipt
}

// Len returns the number of messages in the queue, leased or not.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE queue = ?`, string(q.name)).Scan(&n)
	return n, q.wrap(err)
}

func (q *Queue) Close() error { return q.db.Close() }

func (q *Queue) wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("sqlite queue %s: %w", q.name, err)
}

var _ domain.Transport = (*Queue)(nil)
