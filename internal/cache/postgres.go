package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PGXQuerier is the subset of pgxpool.Pool the store needs; pgxmock
// satisfies it in tests.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DocumentStore = (*PostgresStore)(nil)

// PostgresStore persists cache entries in the trip_cache table.
type PostgresStore struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresStore(db PGXQuerier, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{logger: logger, db: db}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	ctx, span := otel.Tracer("PostgresStore").Start(ctx, "Load")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	var (
		payload    json.RawMessage
		createdAt  time.Time
		ttlSeconds int64
	)
	err := s.db.QueryRow(ctx,
		`SELECT document, created_at, ttl_seconds FROM trip_cache WHERE cache_key = $1`,
		key,
	).Scan(&payload, &createdAt, &ttlSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		span.SetStatus(codes.Error, "query failed")
		return Entry{}, false, fmt.Errorf("loading cache entry: %w", err)
	}
	return Entry{
		Payload:   payload,
		CreatedAt: createdAt,
		TTL:       time.Duration(ttlSeconds) * time.Second,
	}, true, nil
}

func (s *PostgresStore) Store(ctx context.Context, key string, entry Entry) error {
	ctx, span := otel.Tracer("PostgresStore").Start(ctx, "Store")
	defer span.End()
	span.SetAttributes(attribute.String("cache.key", key))

	_, err := s.db.Exec(ctx,
		`INSERT INTO trip_cache (cache_key, document, created_at, ttl_seconds)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (cache_key)
		 DO UPDATE SET document = EXCLUDED.document,
		               created_at = EXCLUDED.created_at,
		               ttl_seconds = EXCLUDED.ttl_seconds`,
		key, entry.Payload, entry.CreatedAt, int64(entry.TTL.Seconds()),
	)
	if err != nil {
		span.SetStatus(codes.Error, "upsert failed")
		return fmt.Errorf("storing cache entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trip_cache WHERE cache_key = $1`, key)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trip_cache`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) DeleteOldest(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`DELETE FROM trip_cache WHERE cache_key IN (
		   SELECT cache_key FROM trip_cache ORDER BY created_at ASC LIMIT $1
		 )`, n)
	if err != nil {
		return fmt.Errorf("evicting oldest cache entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Purge(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM trip_cache`)
	if err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}
