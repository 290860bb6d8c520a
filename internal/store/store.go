// Package store persists report records and resolution audit rows.
// Reports are written by the upstream analysis pipeline; this side only
// reads them and appends derived resolution provenance.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/nexsupply/report-core/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// ResolutionRecord is one persisted unit-weight resolution, kept as an
// audit trail. The report itself is never mutated.
type ResolutionRecord struct {
	ID        string                 `json:"id"`
	ReportID  string                 `json:"report_id"`
	Result    model.UnitWeightResult `json:"result"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store defines the persistence interface for the report core.
type Store interface {
	// Reports
	GetReport(ctx context.Context, id string) (*model.RawReportView, error)
	PutReport(ctx context.Context, r *model.RawReportView) error

	// Resolution audit trail
	SaveResolution(ctx context.Context, rec *ResolutionRecord) error
	ListResolutions(ctx context.Context, reportID string, limit int) ([]ResolutionRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, driver, databaseURL, sqlitePath string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgres(ctx, databaseURL)
	case "sqlite", "":
		return NewSQLite(sqlitePath)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
