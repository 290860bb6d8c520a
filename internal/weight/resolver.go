// Package weight resolves one authoritative unit-weight estimate for a
// report by trying evidence sources in strict priority order: explicit
// user input, label OCR text, vision inference, category default. Later
// stages are more expensive and less authoritative; the terminal stage
// cannot fail, so Resolve always returns a usable result.
package weight

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/label"
	"github.com/nexsupply/report-core/internal/model"
	"github.com/nexsupply/report-core/internal/vision"
)

const (
	minGrams = 1
	maxGrams = 5000

	userConfidence     = 1.0
	labelConfidence    = 0.95
	categoryConfidence = 0.3
)

// VisionAdapter is the slice of the vision adapter the resolver needs.
type VisionAdapter interface {
	Infer(ctx context.Context, req vision.Request) (*vision.Result, *vision.Abstention)
}

// Resolver runs the priority chain.
type Resolver struct {
	adapter VisionAdapter
	table   []CategoryWeight
}

// NewResolver creates a Resolver. adapter may be nil, in which case the
// vision stage always abstains. table may be nil for the built-in table.
func NewResolver(adapter VisionAdapter, table []CategoryWeight) *Resolver {
	if table == nil {
		table = DefaultCategoryTable()
	}
	return &Resolver{adapter: adapter, table: table}
}

// Resolve returns the unit weight estimate for a report. It never fails:
// every branch, including a nil report, produces a result object. Notes
// from skipped stages are carried into the rationale so "why we fell
// through" survives past the logs.
func (r *Resolver) Resolve(ctx context.Context, report *model.RawReportView) model.UnitWeightResult {
	if report == nil {
		report = &model.RawReportView{}
	}
	log := zap.L().With(zap.String("report_id", report.ID))

	var notes []string

	// Stage 1: explicit user entry. Only an actual user-entered value
	// counts — a system-defaulted weight must not short-circuit the chain.
	if report.Input.WeightIsUserProvided && report.Input.WeightGrams != nil {
		g := *report.Input.WeightGrams
		if g > 0 && g <= maxGrams {
			if g < minGrams {
				g = minGrams
			}
			return model.UnitWeightResult{
				Grams:      g,
				RangeGrams: displayRange(g),
				Source:     model.WeightSourceUser,
				Confidence: userConfidence,
				Rationale:  "weight entered by user",
			}
		}
		notes = append(notes, fmt.Sprintf("user value %.0fg out of bounds", g))
	}

	// Stage 2: label OCR text.
	if m := label.ParseWeight(report.Analysis.Label.OCRText); m != nil {
		g := math.Round(m.Grams)
		if g < minGrams {
			g = minGrams
		}
		return model.UnitWeightResult{
			Grams:      g,
			RangeGrams: displayRange(g),
			Source:     model.WeightSourceLabel,
			Confidence: labelConfidence,
			Rationale:  m.Rationale,
		}
	}
	notes = append(notes, "label: no parseable weight")

	// Stage 3: vision inference.
	if res, note := r.tryVision(ctx, report); res != nil {
		return *res
	} else if note != "" {
		notes = append(notes, note)
	}

	// Stage 4: category default. No external dependency — cannot fail.
	base, keyword := baseWeightFor(r.table, report.Category)
	g := math.Round(base * jitterFactor(report.ID))
	if g < minGrams {
		g = minGrams
	}

	result := model.UnitWeightResult{
		Grams: g,
		RangeGrams: clampRange(model.GramRange{
			Min: math.Round(g * 0.7),
			Max: math.Round(g * 1.5),
		}),
		Source:     model.WeightSourceCategoryDefault,
		Confidence: categoryConfidence,
		Rationale:  fmt.Sprintf("category default for %q (%s)", keyword, strings.Join(notes, "; ")),
	}

	log.Debug("weight: resolved via category default",
		zap.String("keyword", keyword),
		zap.Float64("grams", g),
	)
	return result
}

// tryVision runs stage 3 and converts its outcome into either a final
// result or a fall-through note.
func (r *Resolver) tryVision(ctx context.Context, report *model.RawReportView) (*model.UnitWeightResult, string) {
	if r.adapter == nil {
		return nil, "vision: not configured"
	}

	res, abstain := r.adapter.Infer(ctx, vision.Request{
		ReportID:        report.ID,
		ProductImageURL: report.ProductImageURL,
		LabelImageURL:   report.LabelImageURL,
		ProductName:     report.ProductName,
		Category:        report.Category,
		UnitsPerPack:    report.Input.UnitsPerPack,
		Notes:           report.Input.Notes,
	})
	if abstain != nil {
		return nil, "vision: " + abstain.String()
	}
	if res.UnitWeightGrams == nil {
		note := "vision: no usable weight"
		if res.Reason != "" {
			note = "vision: " + res.Reason
		}
		return nil, note
	}

	g := *res.UnitWeightGrams
	rng := displayRange(g)
	if res.RangeGrams != nil {
		rng = clampRange(*res.RangeGrams)
	}

	scope := res.UnitScope
	if scope == model.UnitScopeUnknown || scope == "" {
		// Conservative default: treat the photographed pack as the
		// sellable unit.
		scope = model.UnitScopeOuterPack
	}

	rationale := "estimated from product photos"
	if res.Reason != "" {
		rationale = res.Reason
	}

	return &model.UnitWeightResult{
		Grams:               g,
		RangeGrams:          rng,
		Source:              model.WeightSourceGeminiPhoto,
		Confidence:          res.Confidence,
		Rationale:           rationale,
		UnitScope:           scope,
		PackCount:           res.PackCount,
		PackCountConfidence: res.PackCountConfidence,
	}, ""
}

// displayRange is the ±18% convention used for user and label weights.
func displayRange(grams float64) model.GramRange {
	return clampRange(model.GramRange{
		Min: math.Round(grams * 0.82),
		Max: math.Round(grams * 1.18),
	})
}

func clampRange(r model.GramRange) model.GramRange {
	if r.Min < minGrams {
		r.Min = minGrams
	}
	if r.Max > maxGrams {
		r.Max = maxGrams
	}
	if r.Max < r.Min {
		r.Max = r.Min
	}
	return r
}
