// Package label extracts a net-weight quantity from raw label OCR text.
// It is a narrow, literal-text parser: it has no awareness of serving
// sizes or units-per-case, and leaves semantic disambiguation (multipack
// vs unit) to the vision adapter.
package label

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxGrams = 5000

	// Typical retail net-weight window used to break ties between
	// multiple quantities on the same label.
	typicalMin = 10
	typicalMax = 500
	typicalMid = 255
)

// Match is a successfully parsed net-weight quantity.
type Match struct {
	Grams     float64
	Rationale string
}

var unitGrams = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"oz": 28.35, "ounce": 28.35, "ounces": 28.35,
	"lb": 453.592, "lbs": 453.592, "pound": 453.592, "pounds": 453.592,
}

const unitAlt = `(g|grams?|kg|kilograms?|oz|ounces?|lbs?|pounds?)`

// Patterns tried in sequence, most specific first. Candidate order
// follows pattern order, so a "net wt" quantity beats a bare one when
// the tie-break window doesn't decide.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`net\s*(?:wt\.?|weight)\s*:?\s*(\d+(?:[.,]\d+)?)\s*` + unitAlt + `\b`),
	regexp.MustCompile(`(?:unit\s+)?weight\s*:?\s*(\d+(?:[.,]\d+)?)\s*` + unitAlt + `\b`),
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*` + unitAlt + `\b`),
}

type candidate struct {
	grams float64
	raw   string
}

// ParseWeight extracts a net weight in grams from label text, or returns
// nil when no quantity in (0, 5000]g is found.
func ParseWeight(text string) *Match {
	lower := strings.ToLower(text)

	var cands []candidate
	seen := make(map[string]bool)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			raw := strings.TrimSpace(m[0])
			if seen[raw] {
				continue
			}
			seen[raw] = true

			v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
			if err != nil {
				continue
			}
			grams := v * unitGrams[m[2]]
			if grams <= 0 || grams > maxGrams {
				continue
			}
			cands = append(cands, candidate{grams: grams, raw: raw})
		}
	}

	if len(cands) == 0 {
		return nil
	}

	best := pickCandidate(cands)
	return &Match{
		Grams:     best.grams,
		Rationale: fmt.Sprintf("parsed %q from label text", best.raw),
	}
}

// pickCandidate prefers the quantity inside the typical net-weight window
// closest to its midpoint; when none is in-window, the first match wins.
func pickCandidate(cands []candidate) candidate {
	if len(cands) == 1 {
		return cands[0]
	}
	best := -1
	for i, c := range cands {
		if c.grams < typicalMin || c.grams > typicalMax {
			continue
		}
		if best < 0 || dist(c.grams) < dist(cands[best].grams) {
			best = i
		}
	}
	if best < 0 {
		return cands[0]
	}
	return cands[best]
}

func dist(g float64) float64 {
	if g < typicalMid {
		return typicalMid - g
	}
	return g - typicalMid
}
