package vision

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nexsupply/report-core/internal/model"
)

const (
	minGrams = 1
	maxGrams = 5000
)

// rawResponse mirrors the JSON contract in the prompt.
type rawResponse struct {
	UnitWeightGrams     *float64 `json:"unit_weight_grams"`
	MinGrams            *float64 `json:"min_grams"`
	MaxGrams            *float64 `json:"max_grams"`
	Confidence          float64  `json:"confidence"`
	Signals             []string `json:"signals"`
	Reason              string   `json:"reason"`
	UnitScope           string   `json:"unit_scope"`
	PackCount           *int     `json:"pack_count"`
	PackCountConfidence float64  `json:"pack_count_confidence"`
}

// parseResponse validates and repairs raw model text into a Result.
// Order of preference: clamped point estimate with a verified range; the
// min/max range alone (midpoint as point estimate); a zero-confidence
// Result carrying the model's reason. An error means the text held no
// parseable JSON at all.
func parseResponse(text string) (*Result, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil, eris.New("vision: empty model response")
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, eris.Wrap(err, "vision: unmarshal model response")
	}

	res := &Result{
		Confidence:          clamp01(raw.Confidence),
		Signals:             raw.Signals,
		Reason:              raw.Reason,
		UnitScope:           normalizeScope(raw.UnitScope),
		PackCountConfidence: clamp01(raw.PackCountConfidence),
	}
	if raw.PackCount != nil && *raw.PackCount > 0 {
		res.PackCount = raw.PackCount
	}

	if raw.UnitWeightGrams != nil {
		grams := clampGrams(*raw.UnitWeightGrams)
		rng := rangeFor(grams, raw.MinGrams, raw.MaxGrams)
		if rng != nil {
			res.UnitWeightGrams = &grams
			res.RangeGrams = rng
			return res, nil
		}
	}

	// Point estimate absent or inconsistent with the supplied range — use
	// the range alone when it is present and orderable.
	if raw.MinGrams != nil && raw.MaxGrams != nil &&
		*raw.MinGrams > 0 && *raw.MaxGrams >= *raw.MinGrams {
		lo := clampGrams(*raw.MinGrams)
		hi := clampGrams(*raw.MaxGrams)
		mid := math.Round((lo + hi) / 2)
		res.UnitWeightGrams = &mid
		res.RangeGrams = &model.GramRange{Min: lo, Max: hi}
		return res, nil
	}

	// Nothing numeric survived. Keep the model's stated reason so the
	// caller can still surface "why we couldn't tell".
	res.Confidence = 0
	res.UnitWeightGrams = nil
	res.RangeGrams = nil
	return res, nil
}

// rangeFor returns the validated range around a point estimate, deriving
// ±5% when the model supplied none, or nil when the supplied range
// contradicts the estimate.
func rangeFor(grams float64, min, max *float64) *model.GramRange {
	if min == nil || max == nil {
		return &model.GramRange{
			Min: math.Round(grams * 0.95),
			Max: math.Round(grams * 1.05),
		}
	}
	lo := clampGrams(*min)
	hi := clampGrams(*max)
	if lo <= grams && grams <= hi {
		return &model.GramRange{Min: lo, Max: hi}
	}
	return nil
}

func normalizeScope(s string) model.UnitScope {
	switch model.UnitScope(strings.ToLower(strings.TrimSpace(s))) {
	case model.UnitScopeOuterPack:
		return model.UnitScopeOuterPack
	case model.UnitScopeInnerUnit:
		return model.UnitScopeInnerUnit
	default:
		// "unknown" stays unknown here; the resolver applies the
		// conservative outer_pack default.
		return model.UnitScopeUnknown
	}
}

func clampGrams(g float64) float64 {
	if g < minGrams {
		return minGrams
	}
	if g > maxGrams {
		return maxGrams
	}
	return g
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// cleanJSON strips markdown fences and extracts the JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
