// Package facts projects normalized evidence and data-quality results
// into the two user-facing lists: confirmed facts and missing info.
package facts

import (
	"fmt"
	"strings"

	"github.com/nexsupply/report-core/internal/evidence"
	"github.com/nexsupply/report-core/internal/model"
	"github.com/nexsupply/report-core/internal/quality"
)

// Confirmed returns one FactItem per confirmed field of the report.
// weight is the caller-supplied resolution result; pass nil when the
// resolver has not run. A destination fact is always emitted — sourcing
// scope is US-only for now.
func Confirmed(r *model.RawReportView, weight *model.UnitWeightResult) []model.FactItem {
	ev := evidence.Normalize(r)

	items := []model.FactItem{{
		Label:        "Destination",
		Value:        "United States (US)",
		EvidenceType: model.EvidenceUserInput,
		Confidence:   1.0,
		Source:       "platform scope",
	}}

	if ev.Barcode.Detected.Bool() && ev.Barcode.Value != "" {
		items = append(items, model.FactItem{
			Label:        "Barcode",
			Value:        ev.Barcode.Value,
			EvidenceType: model.EvidenceBarcode,
			Confidence:   1.0,
			Source:       "barcode scan",
		})
	}

	if weight != nil && weight.Source != model.WeightSourceCategoryDefault {
		items = append(items, model.FactItem{
			Label:        "Unit weight",
			Value:        fmt.Sprintf("%.0f g (%.0f–%.0f g)", weight.Grams, weight.RangeGrams.Min, weight.RangeGrams.Max),
			EvidenceType: evidenceForWeight(weight.Source),
			Confidence:   weight.Confidence,
			Source:       weight.Rationale,
		})
	}

	if ev.Label.Extracted && len(ev.Label.Terms) > 0 {
		items = append(items, model.FactItem{
			Label:        "Label text",
			Value:        strings.Join(ev.Label.Terms, ", "),
			EvidenceType: model.EvidenceLabel,
			Confidence:   0.9,
			Source:       "label OCR",
		})
	}

	if ev.Origin.CountryCode != "" {
		items = append(items, model.FactItem{
			Label:        "Country of origin",
			Value:        ev.Origin.CountryCode,
			EvidenceType: model.EvidenceLabel,
			Confidence:   0.9,
			Source:       "label OCR",
		})
	}

	if r != nil {
		if b := strings.TrimSpace(r.Analysis.Label.Brand); b != "" {
			items = append(items, model.FactItem{
				Label:        "Brand",
				Value:        b,
				EvidenceType: model.EvidenceLabel,
				Confidence:   0.9,
				Source:       "label OCR",
			})
		}
		if m := strings.TrimSpace(r.Analysis.Label.Material); m != "" {
			items = append(items, model.FactItem{
				Label:        "Material",
				Value:        m,
				EvidenceType: model.EvidenceLabel,
				Confidence:   0.85,
				Source:       "label OCR",
			})
		}
		if d := strings.TrimSpace(r.Analysis.Label.Dimensions); d != "" {
			items = append(items, model.FactItem{
				Label:        "Dimensions",
				Value:        d,
				EvidenceType: model.EvidenceLabel,
				Confidence:   0.85,
				Source:       "label OCR",
			})
		}
		if hs := strings.TrimSpace(r.Analysis.HSCode); hs != "" {
			items = append(items, model.FactItem{
				Label:        "HS code",
				Value:        hs,
				EvidenceType: model.EvidenceCustoms,
				Confidence:   0.8,
				Source:       "customs classification",
			})
		}
		if r.Input.TargetPriceUSD != nil && *r.Input.TargetPriceUSD > 0 {
			items = append(items, model.FactItem{
				Label:        "Target sell price",
				Value:        fmt.Sprintf("$%.2f", *r.Input.TargetPriceUSD),
				EvidenceType: model.EvidenceUserInput,
				Confidence:   1.0,
				Source:       "entered by user",
			})
		}
	}

	return items
}

// Missing maps the quality scorer's missing signals through the display
// dictionary. Label text depends on whether the input was uploaded but
// unreadable versus never uploaded at all — and "status unavailable" when
// the record doesn't say either way.
func Missing(r *model.RawReportView) []model.MissingInfoItem {
	ev := evidence.Normalize(r)
	dq := quality.Compute(r)

	items := make([]model.MissingInfoItem, 0, len(dq.MissingSignals))
	for _, gap := range dq.MissingSignals {
		items = append(items, model.MissingInfoItem{
			ID:     gap.ID,
			Label:  missingLabel(gap, ev),
			Impact: gap.Impact,
		})
	}
	return items
}

func evidenceForWeight(src model.WeightSource) model.EvidenceType {
	switch src {
	case model.WeightSourceUser:
		return model.EvidenceUserInput
	case model.WeightSourceLabel:
		return model.EvidenceLabel
	default:
		return model.EvidenceVision
	}
}

func missingLabel(gap quality.SignalGap, ev evidence.Evidence) string {
	switch gap.ID {
	case "barcode":
		return barcodeStatusText(ev)
	case "label_terms":
		return LabelStatusText(ev)
	case "unit_weight":
		return "Confirmed unit weight missing — enter it or upload a clear net-weight label"
	case "origin":
		return "Country of origin unknown"
	case "units_per_case":
		return "Units per case not provided"
	case "material":
		return "Material not provided"
	case "dimensions":
		return "Dimensions not provided"
	case "brand_model":
		return "Brand or model not provided"
	default:
		return gap.Label + " missing"
	}
}

func barcodeStatusText(ev evidence.Evidence) string {
	switch {
	case ev.Barcode.Uploaded == evidence.PresenceConfirmed:
		// Uploaded but nothing decoded: the photo, not the upload, is the problem.
		return "Barcode photo unreadable — retake with the barcode in focus"
	case ev.Barcode.Uploaded == evidence.PresenceAbsent:
		return "Barcode photo missing"
	default:
		return "Barcode status unavailable"
	}
}

// LabelStatusText renders the label upload state. The three presence
// states produce three distinct strings; "unknown" must never read as
// "not uploaded".
func LabelStatusText(ev evidence.Evidence) string {
	switch {
	case ev.Label.Extracted && len(ev.Label.Terms) > 0:
		return "Label text: " + strings.Join(ev.Label.Terms, ", ")
	case ev.Label.Extracted:
		return "Label text extracted"
	case ev.Label.Uploaded == evidence.PresenceConfirmed:
		return "Label photo unreadable — retake with the text legible"
	case ev.Label.Uploaded == evidence.PresenceAbsent:
		return "No label uploaded"
	default:
		return "Label status unavailable"
	}
}
