package weight

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// CategoryWeight maps a category keyword to a base unit weight in grams.
type CategoryWeight struct {
	Keyword string  `yaml:"keyword"`
	Grams   float64 `yaml:"grams"`
}

// DefaultCategoryTable returns the built-in last-resort weight table.
// Order matters: the first keyword found as a substring of the category
// wins, so "candy" must be checked before "food".
func DefaultCategoryTable() []CategoryWeight {
	return []CategoryWeight{
		{Keyword: "candy", Grams: 50},
		{Keyword: "snack", Grams: 30},
		{Keyword: "toy", Grams: 100},
		{Keyword: "novelty", Grams: 80},
		{Keyword: "combo", Grams: 60},
		{Keyword: "food", Grams: 100},
		{Keyword: "beverage", Grams: 250},
		{Keyword: "beauty", Grams: 150},
		{Keyword: "home", Grams: 200},
		{Keyword: "electronics", Grams: 300},
		{Keyword: "apparel", Grams: 150},
	}
}

// fallbackGrams applies when no keyword matches.
const fallbackGrams = 100

// LoadCategoryTable reads a category weight table override from a YAML
// file shaped as {categories: [{keyword, grams}, ...]}.
func LoadCategoryTable(path string) ([]CategoryWeight, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "weight: read category table %s", path)
	}

	var wrapper struct {
		Categories []CategoryWeight `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "weight: parse category table")
	}
	if len(wrapper.Categories) == 0 {
		return nil, eris.Errorf("weight: category table %s is empty", path)
	}

	for _, cw := range wrapper.Categories {
		if cw.Keyword == "" || cw.Grams <= 0 {
			return nil, eris.Errorf("weight: invalid category table entry %q (%v g)", cw.Keyword, cw.Grams)
		}
	}
	return wrapper.Categories, nil
}

// baseWeightFor looks up the table by substring match against the
// lower-cased category; first match wins.
func baseWeightFor(table []CategoryWeight, category string) (float64, string) {
	lower := strings.ToLower(category)
	for _, cw := range table {
		if strings.Contains(lower, cw.Keyword) {
			return cw.Grams, cw.Keyword
		}
	}
	return fallbackGrams, "default"
}

// hashReportID is a 32-bit multiply-by-31 accumulator over the ID's
// characters, with signed overflow wrapping, then absolute value. It must
// stay exactly this function: the category-default jitter derives from it
// and has to be reproducible for a given report ID.
func hashReportID(id string) int64 {
	var h int32
	for _, r := range id {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// jitterFactor maps the ID hash onto a deterministic ±8% multiplier, so
// repeated resolutions of one report agree while different reports in the
// same category spread out.
func jitterFactor(reportID string) float64 {
	bucket := hashReportID(reportID) % 17 // 0..16
	return 1 + float64(bucket-8)/100
}
