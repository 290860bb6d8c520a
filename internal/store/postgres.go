package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/nexsupply/report-core/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies
// it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	record     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS resolutions (
	id         TEXT PRIMARY KEY,
	report_id  TEXT NOT NULL REFERENCES reports(id),
	source     TEXT NOT NULL,
	grams      DOUBLE PRECISION NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_resolutions_report_id ON resolutions(report_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.RawReportView, error) {
	var record []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM reports WHERE id = $1`, id,
	).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get report %s", id)
	}

	var r model.RawReportView
	if err := json.Unmarshal(record, &r); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal report %s", id)
	}
	r.ID = id
	return &r, nil
}

func (s *PostgresStore) PutReport(ctx context.Context, r *model.RawReportView) error {
	if r == nil || r.ID == "" {
		return eris.New("postgres: report must have an ID")
	}
	record, err := json.Marshal(r)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal report %s", r.ID)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, record, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record`,
		r.ID, record, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put report %s", r.ID)
}

func (s *PostgresStore) SaveResolution(ctx context.Context, rec *ResolutionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal resolution for %s", rec.ReportID)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO resolutions (id, report_id, source, grams, confidence, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.ReportID, string(rec.Result.Source), rec.Result.Grams,
		rec.Result.Confidence, result, rec.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert resolution for %s", rec.ReportID)
}

func (s *PostgresStore) ListResolutions(ctx context.Context, reportID string, limit int) ([]ResolutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, report_id, result, created_at FROM resolutions
		 WHERE report_id = $1 ORDER BY created_at DESC LIMIT $2`,
		reportID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list resolutions for %s", reportID)
	}
	defer rows.Close()

	var out []ResolutionRecord
	for rows.Next() {
		var rec ResolutionRecord
		var resultJSON []byte
		if err := rows.Scan(&rec.ID, &rec.ReportID, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan resolution")
		}
		if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal resolution %s", rec.ID)
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate resolutions")
}
