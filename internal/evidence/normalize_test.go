package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexsupply/report-core/internal/model"
)

func boolPtr(b bool) *bool        { return &b }
func floatPtr(v float64) *float64 { return &v }

func TestNormalizePresenceThreeStates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		uploaded *bool
		want     Presence
	}{
		{"nil stays unknown", nil, PresenceUnknown},
		{"false is absent", boolPtr(false), PresenceAbsent},
		{"true is confirmed", boolPtr(true), PresenceConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &model.RawReportView{
				Analysis: model.ReportAnalysis{
					Barcode: model.BarcodeAnalysis{Uploaded: tt.uploaded},
					Label:   model.LabelAnalysis{Uploaded: tt.uploaded},
				},
			}
			ev := Normalize(r)
			assert.Equal(t, tt.want, ev.Barcode.Uploaded)
			assert.Equal(t, tt.want, ev.Label.Uploaded)
		})
	}
}

func TestNormalizeBarcodeValueImpliesPresence(t *testing.T) {
	t.Parallel()

	// Value present but status flags never written: the decoded value is
	// the stronger evidence.
	r := &model.RawReportView{
		Analysis: model.ReportAnalysis{
			Barcode: model.BarcodeAnalysis{Value: " 0123456789012 "},
		},
	}
	ev := Normalize(r)
	assert.Equal(t, PresenceConfirmed, ev.Barcode.Uploaded)
	assert.Equal(t, PresenceConfirmed, ev.Barcode.Detected)
	assert.Equal(t, "0123456789012", ev.Barcode.Value)
}

func TestNormalizeLabelExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		label         model.LabelAnalysis
		wantExtracted bool
		wantUploaded  Presence
		wantTerms     []string
	}{
		{
			name:          "terms imply extraction and upload",
			label:         model.LabelAnalysis{Terms: []string{"organic", " gluten free "}},
			wantExtracted: true,
			wantUploaded:  PresenceConfirmed,
			wantTerms:     []string{"organic", "gluten free"},
		},
		{
			name:          "ocr text alone implies extraction",
			label:         model.LabelAnalysis{OCRText: "NET WT 5 OZ"},
			wantExtracted: true,
			wantUploaded:  PresenceConfirmed,
		},
		{
			name:          "blank terms are dropped",
			label:         model.LabelAnalysis{Terms: []string{"", "  "}},
			wantExtracted: false,
			wantUploaded:  PresenceUnknown,
		},
		{
			name:          "uploaded but nothing extracted",
			label:         model.LabelAnalysis{Uploaded: boolPtr(true)},
			wantExtracted: false,
			wantUploaded:  PresenceConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := Normalize(&model.RawReportView{
				Analysis: model.ReportAnalysis{Label: tt.label},
			})
			assert.Equal(t, tt.wantExtracted, ev.Label.Extracted)
			assert.Equal(t, tt.wantUploaded, ev.Label.Uploaded)
			assert.Equal(t, tt.wantTerms, ev.Label.Terms)
		})
	}
}

func TestNormalizeWeightAndOrigin(t *testing.T) {
	t.Parallel()

	ev := Normalize(&model.RawReportView{
		Analysis: model.ReportAnalysis{
			Label: model.LabelAnalysis{OriginCountry: " cn "},
		},
		Input: model.ReportInput{WeightGrams: floatPtr(150), WeightIsUserProvided: true},
	})
	assert.Equal(t, "CN", ev.Origin.CountryCode)
	assert.NotNil(t, ev.Weight.Grams)
	assert.Equal(t, 150.0, *ev.Weight.Grams)
	assert.Equal(t, model.WeightSourceUser, ev.Weight.Source)

	// Non-positive weight is not evidence.
	ev = Normalize(&model.RawReportView{
		Input: model.ReportInput{WeightGrams: floatPtr(0), WeightIsUserProvided: true},
	})
	assert.Nil(t, ev.Weight.Grams)

	// A system-defaulted weight is not evidence either.
	ev = Normalize(&model.RawReportView{
		Input: model.ReportInput{WeightGrams: floatPtr(200)},
	})
	assert.Nil(t, ev.Weight.Grams)
}

func TestNormalizeNilReport(t *testing.T) {
	t.Parallel()

	ev := Normalize(nil)
	assert.Equal(t, PresenceUnknown, ev.Barcode.Uploaded)
	assert.Equal(t, PresenceUnknown, ev.Barcode.Detected)
	assert.Equal(t, PresenceUnknown, ev.Label.Uploaded)
	assert.False(t, ev.Label.Extracted)
	assert.Nil(t, ev.Weight.Grams)
}

func TestPresenceBool(t *testing.T) {
	t.Parallel()

	assert.True(t, PresenceConfirmed.Bool())
	assert.False(t, PresenceAbsent.Bool())
	assert.False(t, PresenceUnknown.Bool())
}
