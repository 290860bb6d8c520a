package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/report-core/internal/model"
	"github.com/nexsupply/report-core/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	reports map[string]*model.RawReportView
	err     error
}

func (f *fakeStore) GetReport(_ context.Context, id string) (*model.RawReportView, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.reports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) PutReport(_ context.Context, r *model.RawReportView) error {
	if f.reports == nil {
		f.reports = make(map[string]*model.RawReportView)
	}
	f.reports[r.ID] = r
	return nil
}

func (f *fakeStore) SaveResolution(context.Context, *store.ResolutionRecord) error { return nil }
func (f *fakeStore) ListResolutions(context.Context, string, int) ([]store.ResolutionRecord, error) {
	return nil, nil
}
func (f *fakeStore) Migrate(context.Context) error { return nil }
func (f *fakeStore) Close() error                  { return nil }

func newReportRouter(st store.Store, handler reportHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/reports/{id}/weight", withReport(st, handler))
	return r
}

func TestWithReportFound(t *testing.T) {
	t.Parallel()

	st := &fakeStore{reports: map[string]*model.RawReportView{
		"r1": {ID: "r1", Category: "snack"},
	}}
	router := newReportRouter(st, func(w http.ResponseWriter, req *http.Request, report *model.RawReportView) {
		writeJSON(w, http.StatusOK, map[string]string{"category": report.Category})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/weight", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "snack", body["category"])
}

func TestWithReportNotFound(t *testing.T) {
	t.Parallel()

	router := newReportRouter(&fakeStore{}, func(http.ResponseWriter, *http.Request, *model.RawReportView) {
		t.Fatal("handler must not run for a missing report")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/nope/weight", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "report not found")
}

func TestWithReportStoreError(t *testing.T) {
	t.Parallel()

	router := newReportRouter(&fakeStore{err: eris.New("connection refused")}, func(http.ResponseWriter, *http.Request, *model.RawReportView) {
		t.Fatal("handler must not run on store failure")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/r1/weight", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal detail must not leak to the client.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
