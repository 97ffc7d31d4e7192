package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/road-accident-hotspots/internal/domain"
	"github.com/couchcryptid/road-accident-hotspots/internal/export"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS region_hotspot_features (
		region                 TEXT             NOT NULL,
		generated_at           TIMESTAMPTZ      NOT NULL,
		rank                   INTEGER          NOT NULL,
		risk_category          TEXT             NOT NULL,
		total_caused_accidents DOUBLE PRECISION NOT NULL,
		cause_weighted_risk    DOUBLE PRECISION NOT NULL,
		reckless_index         DOUBLE PRECISION NOT NULL,
		hotspot_score          DOUBLE PRECISION NOT NULL,
		features               JSONB            NOT NULL,
		PRIMARY KEY (region, generated_at)
	)
`

const upsertFeatures = `
	INSERT INTO region_hotspot_features (
		region, generated_at, rank, risk_category, total_caused_accidents,
		cause_weighted_risk, reckless_index, hotspot_score, features
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
	ON CONFLICT (region, generated_at) DO UPDATE SET
		rank = EXCLUDED.rank,
		risk_category = EXCLUDED.risk_category,
		total_caused_accidents = EXCLUDED.total_caused_accidents,
		cause_weighted_risk = EXCLUDED.cause_weighted_risk,
		reckless_index = EXCLUDED.reckless_index,
		hotspot_score = EXCLUDED.hotspot_score,
		features = EXCLUDED.features
`

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store upserts region feature rows into Postgres.
// It implements pipeline.Loader.
type Store struct {
	db     DB
	logger *slog.Logger
}

// Open connects to databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// NewStore creates a Store on db.
func NewStore(db DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates the feature table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

func (s *Store) Name() string { return "postgres" }

// Load upserts one row per region in a single batch. Re-running with the
// same generation timestamp overwrites the earlier rows.
func (s *Store) Load(ctx context.Context, a *domain.Analysis) (int, error) {
	b, err := buildBatch(export.Records(a))
	if err != nil {
		return 0, err
	}
	if b.Len() == 0 {
		return 0, nil
	}

	br := s.db.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck // the exec error is returned
			return 0, fmt.Errorf("postgres: upsert features: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("postgres: upsert features: %w", err)
	}

	s.logger.Info("features stored", "rows", b.Len())
	return b.Len(), nil
}

func buildBatch(records []export.Record) (*pgx.Batch, error) {
	b := &pgx.Batch{}
	for _, rec := range records {
		features, err := json.Marshal(rec.Features)
		if err != nil {
			return nil, fmt.Errorf("postgres: encode features for %s: %w", rec.Region, err)
		}
		b.Queue(upsertFeatures,
			rec.Region,
			rec.GeneratedAt,
			rec.Rank,
			string(rec.RiskCategory),
			rec.TotalAccidents,
			rec.Features[domain.FieldWeightedRisk],
			rec.Features[domain.FieldRecklessIndex],
			rec.Features[domain.FieldHotspotScore],
			string(features),
		)
	}
	return b, nil
}
