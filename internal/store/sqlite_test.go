package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/report-core/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleReport(id string) *model.RawReportView {
	grams := 142.0
	return &model.RawReportView{
		ID:       id,
		Category: "snack",
		Analysis: model.ReportAnalysis{
			Barcode: model.BarcodeAnalysis{Value: "0123456789012"},
			Label:   model.LabelAnalysis{OCRText: "NET WT 5 oz", OriginCountry: "CN"},
		},
		Input: model.ReportInput{WeightGrams: &grams},
	}
}

func TestSQLiteReportRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	want := sampleReport("r1")
	require.NoError(t, s.PutReport(ctx, want))

	got, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, want.Category, got.Category)
	assert.Equal(t, want.Analysis.Barcode.Value, got.Analysis.Barcode.Value)
	assert.Equal(t, want.Analysis.Label.OCRText, got.Analysis.Label.OCRText)
	require.NotNil(t, got.Input.WeightGrams)
	assert.Equal(t, 142.0, *got.Input.WeightGrams)
}

func TestSQLitePutReportUpsert(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	r := sampleReport("r1")
	require.NoError(t, s.PutReport(ctx, r))

	r.Category = "candy"
	require.NoError(t, s.PutReport(ctx, r))

	got, err := s.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "candy", got.Category)
}

func TestSQLitePutReportRequiresID(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)

	assert.Error(t, s.PutReport(context.Background(), &model.RawReportView{}))
	assert.Error(t, s.PutReport(context.Background(), nil))
}

func TestSQLiteGetReportNotFound(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)

	_, err := s.GetReport(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteResolutions(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.PutReport(ctx, sampleReport("r1")))

	rec := &ResolutionRecord{
		ReportID: "r1",
		Result: model.UnitWeightResult{
			Grams:      142,
			RangeGrams: model.GramRange{Min: 116, Max: 168},
			Source:     model.WeightSourceLabel,
			Confidence: 0.95,
			Rationale:  `parsed "net wt 5 oz" from label text`,
		},
	}
	require.NoError(t, s.SaveResolution(ctx, rec))
	assert.NotEmpty(t, rec.ID, "SaveResolution assigns an ID")
	assert.False(t, rec.CreatedAt.IsZero())

	require.NoError(t, s.SaveResolution(ctx, &ResolutionRecord{
		ReportID: "r1",
		Result:   model.UnitWeightResult{Grams: 98, Source: model.WeightSourceCategoryDefault, Confidence: 0.3},
	}))

	list, err := s.ListResolutions(ctx, "r1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, got := range list {
		assert.Equal(t, "r1", got.ReportID)
	}

	one, err := s.ListResolutions(ctx, "r1", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	none, err := s.ListResolutions(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpenDispatch(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), "sqlite", "", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	_ = s.Close()

	_, err = Open(context.Background(), "cassandra", "", "")
	assert.Error(t, err)
}
