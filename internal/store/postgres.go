package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/simplesurance/hooksink/internal/event"
)

// Events are listed ordered by received_at, the monotonic insertion
// timestamp assigned by the database.
// The provider-supplied timestamp strings are heterogeneous between push and
// pull_request events and do not collate reliably.
const schema = `
CREATE TABLE IF NOT EXISTS webhook_events (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL UNIQUE,
	author TEXT NOT NULL,
	action TEXT NOT NULL,
	from_branch TEXT,
	to_branch TEXT NOT NULL,
	event_timestamp TEXT NOT NULL,
	received_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore implements Store backed by a PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a connection pool for the database addressed by uri,
// verifies the connection and creates the webhook_events table if it does
// not exist.
func NewPostgres(ctx context.Context, uri string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("parsing database uri failed: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool failed: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database failed: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating webhook_events table failed: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) CreateEvent(ctx context.Context, ev *event.NormalizedEvent) (bool, error) {
	const query = `
		INSERT INTO webhook_events
			(id, request_id, author, action, from_branch, to_branch, event_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING`

	id := uuid.NewString()

	tag, err := s.pool.Exec(ctx, query,
		id, ev.RequestID, ev.Author, string(ev.Action),
		ev.FromBranch, ev.ToBranch, ev.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("inserting event failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return false, nil
	}

	ev.ID = id

	return true, nil
}

func (s *PostgresStore) EventByRequestID(ctx context.Context, requestID string) (*event.NormalizedEvent, error) {
	const query = `
		SELECT id, request_id, author, action, from_branch, to_branch, event_timestamp
		FROM webhook_events
		WHERE request_id = $1`

	ev, err := scanEvent(s.pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying event failed: %w", err)
	}

	return ev, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, limit int) ([]*event.NormalizedEvent, error) {
	const query = `
		SELECT id, request_id, author, action, from_branch, to_branch, event_timestamp
		FROM webhook_events
		ORDER BY received_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events failed: %w", err)
	}
	defer rows.Close()

	var result []*event.NormalizedEvent

	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row failed: %w", err)
		}

		result = append(result, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows failed: %w", err)
	}

	return result, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func scanEvent(row pgx.Row) (*event.NormalizedEvent, error) {
	var ev event.NormalizedEvent
	var action string

	err := row.Scan(
		&ev.ID, &ev.RequestID, &ev.Author, &action,
		&ev.FromBranch, &ev.ToBranch, &ev.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	ev.Action = event.Action(action)

	return &ev, nil
}
