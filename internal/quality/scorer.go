// Package quality grades how complete a report's sourcing evidence is.
// The score is a weighted checklist of boolean signals, with the checklist
// chosen by the report's category family.
package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexsupply/report-core/internal/evidence"
	"github.com/nexsupply/report-core/internal/label"
	"github.com/nexsupply/report-core/internal/model"
)

// Profile selects which signal checklist applies to a report.
type Profile string

const (
	ProfileFood         Profile = "food"
	ProfileAccessoryToy Profile = "accessory_toy"
	ProfileOther        Profile = "other"
)

// Tier buckets a raw score for display.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tier thresholds apply to the raw score for every profile, even though
// profile point totals differ (100 for food, 110 for accessory/toy).
// The asymmetry is observed behavior and is kept as-is.
const (
	tierHighMin   = 70
	tierMediumMin = 40

	impactHighMin   = 25
	impactMediumMin = 15

	maxMissingShown = 3
)

// SignalCheck is one weighted boolean signal.
type SignalCheck struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Points  int    `json:"points"`
	Present bool   `json:"present"`
}

// SignalGap is a missing signal with the impact of supplying it.
type SignalGap struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Impact model.Impact `json:"impact"`
}

// Result is the data-quality grade for a report.
type Result struct {
	Profile        Profile       `json:"profile"`
	Score          int           `json:"score"`
	Tier           Tier          `json:"tier"`
	Reason         string        `json:"reason"`
	HelperText     string        `json:"helper_text"`
	MissingSignals []SignalGap   `json:"missing_signals"`
	PresentSignals []SignalCheck `json:"present_signals"`
}

const confirmedHelperText = "All key signals are confirmed — this estimate is as grounded as it gets."

// Compute grades a report's evidence completeness. Pure and synchronous;
// it never fails.
func Compute(r *model.RawReportView) Result {
	ev := evidence.Normalize(r)
	profile := profileFor(r)
	signals := checklistFor(profile, r, ev)

	score := 0
	var present []SignalCheck
	var missing []SignalCheck
	for _, s := range signals {
		if s.Present {
			score += s.Points
			present = append(present, s)
		} else {
			missing = append(missing, s)
		}
	}

	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Points > missing[j].Points
	})
	if len(missing) > maxMissingShown {
		missing = missing[:maxMissingShown]
	}

	gaps := make([]SignalGap, 0, len(missing))
	for _, m := range missing {
		gaps = append(gaps, SignalGap{ID: m.ID, Label: m.Label, Impact: ImpactForPoints(m.Points)})
	}

	return Result{
		Profile:        profile,
		Score:          score,
		Tier:           tierFor(score),
		Reason:         fmt.Sprintf("%d of %d signals confirmed", len(present), len(signals)),
		HelperText:     helperText(missing),
		MissingSignals: gaps,
		PresentSignals: present,
	}
}

func profileFor(r *model.RawReportView) Profile {
	category := ""
	if r != nil {
		category = r.Category
	}
	switch ResolveFamily(category) {
	case FamilyFood:
		return ProfileFood
	case FamilyToys:
		return ProfileAccessoryToy
	default:
		return ProfileOther
	}
}

// checklistFor builds the profile's signal list with presence evaluated.
// Other shares the accessory/toy checklist: non-food categories must not
// be asked for food-specific inputs.
func checklistFor(profile Profile, r *model.RawReportView, ev evidence.Evidence) []SignalCheck {
	weightConfirmed := confirmedWeight(r, ev)

	if profile == ProfileFood {
		return []SignalCheck{
			{ID: "barcode", Label: "Barcode photo", Points: 30, Present: ev.Barcode.Detected.Bool()},
			{ID: "unit_weight", Label: "Confirmed unit weight", Points: 30, Present: weightConfirmed},
			{ID: "origin", Label: "Country of origin", Points: 20, Present: ev.Origin.CountryCode != ""},
			{ID: "label_terms", Label: "Readable label text", Points: 20, Present: ev.Label.Extracted},
		}
	}

	var unitsKnown, materialKnown, dimensionsKnown, brandKnown bool
	if r != nil {
		unitsKnown = r.Input.UnitsPerPack != nil && *r.Input.UnitsPerPack > 0
		materialKnown = strings.TrimSpace(r.Analysis.Label.Material) != ""
		dimensionsKnown = strings.TrimSpace(r.Analysis.Label.Dimensions) != ""
		brandKnown = strings.TrimSpace(r.Analysis.Label.Brand) != "" || strings.TrimSpace(r.ProductName) != ""
	}

	return []SignalCheck{
		{ID: "unit_weight", Label: "Confirmed unit weight", Points: 30, Present: weightConfirmed},
		{ID: "units_per_case", Label: "Units per case", Points: 25, Present: unitsKnown},
		{ID: "material", Label: "Material", Points: 25, Present: materialKnown},
		{ID: "dimensions", Label: "Dimensions", Points: 20, Present: dimensionsKnown},
		{ID: "brand_model", Label: "Brand or model", Points: 10, Present: brandKnown},
	}
}

// confirmedWeight reports whether the unit weight comes from a
// non-default, non-vision-inferred source: an explicit user entry or a
// weight legible in the label OCR text.
func confirmedWeight(r *model.RawReportView, ev evidence.Evidence) bool {
	if ev.Weight.Grams != nil {
		return true
	}
	if r == nil {
		return false
	}
	return label.ParseWeight(r.Analysis.Label.OCRText) != nil
}

func tierFor(score int) Tier {
	switch {
	case score >= tierHighMin:
		return TierHigh
	case score >= tierMediumMin:
		return TierMedium
	default:
		return TierLow
	}
}

// ImpactForPoints maps a signal's point weight to a display impact tier.
func ImpactForPoints(points int) model.Impact {
	switch {
	case points >= impactHighMin:
		return model.ImpactHigh
	case points >= impactMediumMin:
		return model.ImpactMedium
	default:
		return model.ImpactLow
	}
}

// helperText names the top missing signals in natural-language form.
func helperText(missing []SignalCheck) string {
	if len(missing) == 0 {
		return confirmedHelperText
	}
	labels := make([]string, 0, len(missing))
	for _, m := range missing {
		labels = append(labels, strings.ToLower(m.Label))
	}
	var list string
	switch len(labels) {
	case 1:
		list = labels[0]
	case 2:
		list = labels[0] + " and " + labels[1]
	default:
		list = strings.Join(labels[:len(labels)-1], ", ") + ", and " + labels[len(labels)-1]
	}
	return fmt.Sprintf("Adding %s would make this estimate more reliable.", list)
}
