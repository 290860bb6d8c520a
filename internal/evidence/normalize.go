// Package evidence reduces a partially-populated report record into one
// canonical evidence view. All presence decisions for downstream consumers
// are made here, exactly once.
package evidence

import (
	"strings"

	"github.com/nexsupply/report-core/internal/model"
)

// Presence is a three-valued upload/detection status. A field whose
// underlying record carries no status stays Unknown — it must never be
// read as Absent, because consumers render the two differently
// ("status unavailable" vs "not uploaded").
type Presence string

const (
	PresenceUnknown   Presence = "unknown"
	PresenceAbsent    Presence = "absent"
	PresenceConfirmed Presence = "confirmed"
)

// Bool reports whether the status is confirmed present.
func (p Presence) Bool() bool { return p == PresenceConfirmed }

// BarcodeEvidence is the canonical barcode view.
type BarcodeEvidence struct {
	Uploaded Presence `json:"uploaded"`
	Detected Presence `json:"detected"`
	Value    string   `json:"value,omitempty"`
}

// LabelEvidence is the canonical label view.
type LabelEvidence struct {
	Uploaded  Presence `json:"uploaded"`
	Extracted bool     `json:"extracted"`
	Terms     []string `json:"terms,omitempty"`
}

// WeightEvidence is the canonical weight view.
type WeightEvidence struct {
	Grams  *float64           `json:"grams,omitempty"`
	Source model.WeightSource `json:"source,omitempty"`
}

// OriginEvidence is the canonical origin view.
type OriginEvidence struct {
	CountryCode string `json:"country_code,omitempty"`
}

// Evidence is the canonical, recomputed-on-read view of a report's
// available signals.
type Evidence struct {
	Barcode BarcodeEvidence `json:"barcode"`
	Label   LabelEvidence   `json:"label"`
	Weight  WeightEvidence  `json:"weight"`
	Origin  OriginEvidence  `json:"origin"`
}

// Normalize builds the canonical evidence view for a report. Pure and
// total: absent data maps to Unknown/nil, never to an error.
func Normalize(r *model.RawReportView) Evidence {
	var ev Evidence
	if r == nil {
		ev.Barcode.Uploaded = PresenceUnknown
		ev.Barcode.Detected = PresenceUnknown
		ev.Label.Uploaded = PresenceUnknown
		return ev
	}

	ev.Barcode.Uploaded = presenceOf(r.Analysis.Barcode.Uploaded)
	ev.Barcode.Detected = presenceOf(r.Analysis.Barcode.Detected)
	ev.Barcode.Value = strings.TrimSpace(r.Analysis.Barcode.Value)
	// A decoded barcode value implies both upload and detection even when
	// the status flags were never written.
	if ev.Barcode.Value != "" {
		ev.Barcode.Uploaded = PresenceConfirmed
		ev.Barcode.Detected = PresenceConfirmed
	}

	ev.Label.Uploaded = presenceOf(r.Analysis.Label.Uploaded)
	ev.Label.Terms = nonEmptyTerms(r.Analysis.Label.Terms)
	ev.Label.Extracted = len(ev.Label.Terms) > 0 || strings.TrimSpace(r.Analysis.Label.OCRText) != ""
	if ev.Label.Extracted {
		ev.Label.Uploaded = PresenceConfirmed
	}

	// A weight only counts as evidence when the user actually entered it.
	// System-defaulted values carry no trust and must not surface here.
	if r.Input.WeightIsUserProvided && r.Input.WeightGrams != nil && *r.Input.WeightGrams > 0 {
		g := *r.Input.WeightGrams
		ev.Weight.Grams = &g
		ev.Weight.Source = model.WeightSourceUser
	}

	ev.Origin.CountryCode = strings.ToUpper(strings.TrimSpace(r.Analysis.Label.OriginCountry))

	return ev
}

func presenceOf(b *bool) Presence {
	switch {
	case b == nil:
		return PresenceUnknown
	case *b:
		return PresenceConfirmed
	default:
		return PresenceAbsent
	}
}

func nonEmptyTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}
