package vision

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the strict inference contract. The model must
// never assert an exact weight unless a net-weight figure is legible, and
// must say whether the photographed pack is the sellable unit or a
// multipack with a legible inner count.
func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString(`You are estimating the per-unit net weight of a retail product from its photos.

Rules — follow every one:
1. Only state an exact "unit_weight_grams" when a net-weight figure (e.g. "NET WT 140 g", "5 oz") is clearly legible in an image. Otherwise give min_grams/max_grams only and lower your confidence.
2. Never guess a weight from the product's apparent size, brand familiarity, or typical values for the category. If you cannot tell, say so in "reason" and keep confidence at or near 0.
3. Classify "unit_scope":
   - "outer_pack": the photographed pack is itself the sellable unit; weight figures apply to the whole pack.
   - "inner_unit": the pack is a multipack AND an inner unit count is clearly legible (e.g. "24 x 50g", "12 count"); per-unit weight may be derived by dividing the pack weight by that count. Report the count as "pack_count" with "pack_count_confidence".
   - "unknown": you cannot tell.
4. Never derive a per-unit weight by dividing by nutrition-facts servings, serving sizes, or piece counts ("about 30 pieces"). Those are not sellable units.
5. Confidence bands: 0.9+ only for a legible net-weight figure; 0.5-0.8 for a range inferred from legible partial figures; below 0.5 when relying on anything weaker.

Respond with a single JSON object, no prose, no markdown fences:
{"unit_weight_grams": number|null, "min_grams": number|null, "max_grams": number|null, "confidence": number, "signals": [string], "reason": string, "unit_scope": "outer_pack"|"inner_unit"|"unknown", "pack_count": number|null, "pack_count_confidence": number}
`)

	hints := contextHints(req)
	if hints != "" {
		sb.WriteString("\nContext (hints only — the images are authoritative):\n")
		sb.WriteString(hints)
	}

	return sb.String()
}

func contextHints(req Request) string {
	var lines []string
	if req.ProductName != "" {
		lines = append(lines, fmt.Sprintf("- product name: %s", req.ProductName))
	}
	if req.Category != "" {
		lines = append(lines, fmt.Sprintf("- category: %s", req.Category))
	}
	if req.UnitsPerPack != nil && *req.UnitsPerPack > 0 {
		lines = append(lines, fmt.Sprintf("- buyer-stated units per pack: %d", *req.UnitsPerPack))
	}
	if req.Notes != "" {
		lines = append(lines, fmt.Sprintf("- buyer notes: %s", req.Notes))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
