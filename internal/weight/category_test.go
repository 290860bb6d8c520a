package weight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseWeightFor(t *testing.T) {
	t.Parallel()
	table := DefaultCategoryTable()

	tests := []struct {
		category    string
		wantGrams   float64
		wantKeyword string
	}{
		{"candy", 50, "candy"},
		{"snack", 30, "snack"},
		{"Snack Food", 30, "snack"}, // "snack" precedes "food" in the table
		{"candy food combo", 50, "candy"},
		{"toy", 100, "toy"},
		{"novelty gifts", 80, "novelty"},
		{"home goods", 200, "home"},
		{"consumer electronics", 300, "electronics"},
		{"apparel", 150, "apparel"},
		{"frozen food", 100, "food"},
		{"beverage", 250, "beverage"},
		{"beauty", 150, "beauty"},
		{"", 100, "default"},
		{"unrecognized category", 100, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			t.Parallel()
			grams, keyword := baseWeightFor(table, tt.category)
			assert.Equal(t, tt.wantGrams, grams)
			assert.Equal(t, tt.wantKeyword, keyword)
		})
	}
}

func TestJitterFactorDeterministic(t *testing.T) {
	t.Parallel()

	ids := []string{
		"", "a", "report-1", "report-2", "abc123",
		"550e8400-e29b-41d4-a716-446655440000",
		"zzzzzzzzzzzzzzzzzzzzzzzz",
	}
	seen := make(map[float64]bool)
	for _, id := range ids {
		first := jitterFactor(id)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, jitterFactor(id), "id %q", id)
		}
		assert.GreaterOrEqual(t, first, 0.92, "id %q", id)
		assert.LessOrEqual(t, first, 1.08, "id %q", id)
		seen[first] = true
	}

	// Distinct IDs must land in more than one bucket.
	assert.Greater(t, len(seen), 1)
}

func TestHashReportIDNonNegative(t *testing.T) {
	t.Parallel()

	// Long IDs overflow int32 and can wrap negative before the abs.
	for _, id := range []string{
		"", "x",
		"a-very-long-report-identifier-that-overflows-int32-many-times",
		"ééé", // multibyte runes
	} {
		assert.GreaterOrEqual(t, hashReportID(id), int64(0), "id %q", id)
	}
}

func TestLoadCategoryTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - keyword: widget
    grams: 75
  - keyword: gadget
    grams: 120
`), 0o644))

	table, err := LoadCategoryTable(path)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "widget", table[0].Keyword)
	assert.Equal(t, 75.0, table[0].Grams)

	grams, keyword := baseWeightFor(table, "widget deluxe")
	assert.Equal(t, 75.0, grams)
	assert.Equal(t, "widget", keyword)
}

func TestLoadCategoryTableErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadCategoryTable(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("categories: []\n"), 0o644))
	_, err = LoadCategoryTable(empty)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte(`
categories:
  - keyword: widget
    grams: -5
`), 0o644))
	_, err = LoadCategoryTable(invalid)
	assert.Error(t, err)
}
