package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantGrams float64
		wantNil   bool
	}{
		{
			name:      "net wt ounces",
			text:      "GUMMY BEARS NET WT. 5 OZ",
			wantGrams: 141.75,
		},
		{
			name:      "net weight grams",
			text:      "Net Weight: 250 g",
			wantGrams: 250,
		},
		{
			name:      "plain weight prefix",
			text:      "weight 1.5 kg",
			wantGrams: 1500,
		},
		{
			name:      "unit weight prefix",
			text:      "Unit Weight: 80 grams",
			wantGrams: 80,
		},
		{
			name:      "bare quantity",
			text:      "chocolate bar 100g milk",
			wantGrams: 100,
		},
		{
			name:      "pounds word form",
			text:      "net wt 2 pounds",
			wantGrams: 907.184,
		},
		{
			name:      "european decimal comma",
			text:      "net wt 1,5 kg",
			wantGrams: 1500,
		},
		{
			name:    "no quantity",
			text:    "delicious strawberry flavor",
			wantNil: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantNil: true,
		},
		{
			name:    "zero grams rejected",
			text:    "net wt 0 g",
			wantNil: true,
		},
		{
			name:    "over cap rejected",
			text:    "weight: 6000 g",
			wantNil: true,
		},
		{
			name:      "kg just under cap accepted",
			text:      "net wt 5 kg",
			wantGrams: 5000,
		},
		{
			name:    "unit required",
			text:    "serves 12",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := ParseWeight(tt.text)
			if tt.wantNil {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.InDelta(t, tt.wantGrams, m.Grams, 0.001)
			assert.NotEmpty(t, m.Rationale)
		})
	}
}

func TestParseWeightTieBreak(t *testing.T) {
	t.Parallel()

	// Serving size (30g) and net weight (142g) both parse; the one
	// closer to the typical-retail midpoint wins.
	m := ParseWeight("serving size 30g. NET WT 5 oz")
	require.NotNil(t, m)
	assert.InDelta(t, 141.75, m.Grams, 0.001)

	// Both out of window: first candidate (most specific pattern) wins.
	m = ParseWeight("1 g sachet inside, net wt 2 g")
	require.NotNil(t, m)
	assert.InDelta(t, 2, m.Grams, 0.001)
}

func TestParseWeightPatternPriority(t *testing.T) {
	t.Parallel()

	// A "net wt" quantity is found by the first pattern even when a
	// bare quantity appears earlier in the text.
	m := ParseWeight("48 g protein per pack, net wt 250 g")
	require.NotNil(t, m)
	assert.InDelta(t, 250, m.Grams, 0.001)
}

func TestParseWeightCaseInsensitive(t *testing.T) {
	t.Parallel()

	m := ParseWeight("NET WEIGHT: 120 G")
	require.NotNil(t, m)
	assert.InDelta(t, 120, m.Grams, 0.001)
}
