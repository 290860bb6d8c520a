package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/report-core/internal/model"
)

func TestParseResponsePointEstimate(t *testing.T) {
	t.Parallel()

	res, err := parseResponse(`{
		"unit_weight_grams": 142,
		"min_grams": 120,
		"max_grams": 170,
		"confidence": 0.8,
		"signals": ["net weight printed on bag"],
		"unit_scope": "outer_pack"
	}`)
	require.NoError(t, err)
	require.NotNil(t, res.UnitWeightGrams)
	assert.Equal(t, 142.0, *res.UnitWeightGrams)
	assert.Equal(t, &model.GramRange{Min: 120, Max: 170}, res.RangeGrams)
	assert.Equal(t, 0.8, res.Confidence)
	assert.Equal(t, model.UnitScopeOuterPack, res.UnitScope)
}

func TestParseResponseMarkdownFences(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"```json\n{\"unit_weight_grams\": 50, \"confidence\": 0.6}\n```",
		"```\n{\"unit_weight_grams\": 50, \"confidence\": 0.6}\n```",
		"Here is my estimate:\n{\"unit_weight_grams\": 50, \"confidence\": 0.6}\nHope that helps!",
	} {
		res, err := parseResponse(text)
		require.NoError(t, err, text)
		require.NotNil(t, res.UnitWeightGrams, text)
		assert.Equal(t, 50.0, *res.UnitWeightGrams, text)
	}
}

func TestParseResponseDerivedRange(t *testing.T) {
	t.Parallel()

	// No range supplied: ±5% around the point estimate.
	res, err := parseResponse(`{"unit_weight_grams": 200, "confidence": 0.7}`)
	require.NoError(t, err)
	assert.Equal(t, &model.GramRange{Min: 190, Max: 210}, res.RangeGrams)
}

func TestParseResponseContradictoryRange(t *testing.T) {
	t.Parallel()

	// Point estimate outside its own range: fall back to the range
	// midpoint rather than trusting either number alone.
	res, err := parseResponse(`{
		"unit_weight_grams": 900,
		"min_grams": 100,
		"max_grams": 200,
		"confidence": 0.7
	}`)
	require.NoError(t, err)
	require.NotNil(t, res.UnitWeightGrams)
	assert.Equal(t, 150.0, *res.UnitWeightGrams)
	assert.Equal(t, &model.GramRange{Min: 100, Max: 200}, res.RangeGrams)
}

func TestParseResponseRangeOnly(t *testing.T) {
	t.Parallel()

	res, err := parseResponse(`{"min_grams": 80, "max_grams": 120, "confidence": 0.5}`)
	require.NoError(t, err)
	require.NotNil(t, res.UnitWeightGrams)
	assert.Equal(t, 100.0, *res.UnitWeightGrams)
}

func TestParseResponseNoNumbers(t *testing.T) {
	t.Parallel()

	res, err := parseResponse(`{"confidence": 0.9, "reason": "packaging hides the contents"}`)
	require.NoError(t, err)
	assert.Nil(t, res.UnitWeightGrams)
	assert.Nil(t, res.RangeGrams)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, "packaging hides the contents", res.Reason)
}

func TestParseResponseClamping(t *testing.T) {
	t.Parallel()

	res, err := parseResponse(`{"unit_weight_grams": 90000, "confidence": 1.5}`)
	require.NoError(t, err)
	require.NotNil(t, res.UnitWeightGrams)
	assert.Equal(t, 5000.0, *res.UnitWeightGrams)
	assert.Equal(t, 1.0, res.Confidence)

	res, err = parseResponse(`{"unit_weight_grams": 0.2, "confidence": -3}`)
	require.NoError(t, err)
	require.NotNil(t, res.UnitWeightGrams)
	assert.Equal(t, 1.0, *res.UnitWeightGrams)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestParseResponseUnparseable(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "I cannot help with that.", "```json\n```"} {
		_, err := parseResponse(text)
		assert.Error(t, err, "text %q", text)
	}
}

func TestParseResponsePackCount(t *testing.T) {
	t.Parallel()

	res, err := parseResponse(`{
		"unit_weight_grams": 25,
		"confidence": 0.8,
		"unit_scope": "inner_unit",
		"pack_count": 12,
		"pack_count_confidence": 0.9
	}`)
	require.NoError(t, err)
	require.NotNil(t, res.PackCount)
	assert.Equal(t, 12, *res.PackCount)
	assert.Equal(t, 0.9, res.PackCountConfidence)
	assert.Equal(t, model.UnitScopeInnerUnit, res.UnitScope)

	// Non-positive pack counts are discarded.
	res, err = parseResponse(`{"unit_weight_grams": 25, "confidence": 0.8, "pack_count": 0}`)
	require.NoError(t, err)
	assert.Nil(t, res.PackCount)
}

func TestNormalizeScope(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.UnitScopeOuterPack, normalizeScope("outer_pack"))
	assert.Equal(t, model.UnitScopeInnerUnit, normalizeScope(" Inner_Unit "))
	assert.Equal(t, model.UnitScopeUnknown, normalizeScope("unknown"))
	assert.Equal(t, model.UnitScopeUnknown, normalizeScope(""))
	assert.Equal(t, model.UnitScopeUnknown, normalizeScope("garbage"))
}

func TestCleanJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "sure:\n{\"a\":1}\ndone", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
