package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/nexsupply/report-core/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS resolutions (
	id         TEXT PRIMARY KEY,
	report_id  TEXT NOT NULL REFERENCES reports(id),
	source     TEXT NOT NULL,
	grams      REAL NOT NULL,
	confidence REAL NOT NULL,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_resolutions_report_id ON resolutions(report_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*model.RawReportView, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM reports WHERE id = ?`, id,
	).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", id)
	}

	var r model.RawReportView
	if err := json.Unmarshal([]byte(record), &r); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal report %s", id)
	}
	r.ID = id
	return &r, nil
}

func (s *SQLiteStore) PutReport(ctx context.Context, r *model.RawReportView) error {
	if r == nil || r.ID == "" {
		return eris.New("sqlite: report must have an ID")
	}
	record, err := json.Marshal(r)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal report %s", r.ID)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, record, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET record = excluded.record`,
		r.ID, string(record), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put report %s", r.ID)
}

func (s *SQLiteStore) SaveResolution(ctx context.Context, rec *ResolutionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal resolution for %s", rec.ReportID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resolutions (id, report_id, source, grams, confidence, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ReportID, string(rec.Result.Source), rec.Result.Grams,
		rec.Result.Confidence, string(result), rec.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert resolution for %s", rec.ReportID)
}

func (s *SQLiteStore) ListResolutions(ctx context.Context, reportID string, limit int) ([]ResolutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, report_id, result, created_at FROM resolutions
		 WHERE report_id = ? ORDER BY created_at DESC LIMIT ?`,
		reportID, limit,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list resolutions for %s", reportID)
	}
	defer rows.Close()

	var out []ResolutionRecord
	for rows.Next() {
		var rec ResolutionRecord
		var resultJSON string
		if err := rows.Scan(&rec.ID, &rec.ReportID, &resultJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan resolution")
		}
		if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal resolution %s", rec.ID)
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate resolutions")
}
