// Package vision wraps a multimodal model behind a strict prompt
// contract for estimating a product's unit weight from photos. The
// adapter never returns an error to its caller: every failure mode is an
// Abstention value, and the resolver decides what to do next.
package vision

import (
	"context"
	"fmt"

	"github.com/nexsupply/report-core/internal/model"
)

// AbstainReason says why the adapter produced no estimate.
type AbstainReason string

const (
	AbstainNoImages            AbstainReason = "no_images"
	AbstainNoCredential        AbstainReason = "no_credential"
	AbstainModelUnavailable    AbstainReason = "model_unavailable"
	AbstainFetchFailed         AbstainReason = "fetch_failed"
	AbstainModelError          AbstainReason = "model_error"
	AbstainUnparseableResponse AbstainReason = "unparseable_response"
	AbstainNoSignal            AbstainReason = "no_signal"
)

// Abstention is a first-class "why we fell through" value. It flows up
// into the resolver's rationale instead of living only in log lines.
type Abstention struct {
	Reason AbstainReason
	Detail string
}

func (a *Abstention) String() string {
	if a == nil {
		return ""
	}
	if a.Detail == "" {
		return string(a.Reason)
	}
	return fmt.Sprintf("%s: %s", a.Reason, a.Detail)
}

// Request carries the image URLs and optional context hints for one
// inference. Hints only enrich the prompt; they never override model
// output.
type Request struct {
	ReportID        string
	ProductImageURL string
	LabelImageURL   string
	ProductName     string
	Category        string
	UnitsPerPack    *int
	Notes           string
}

// Result is a validated weight estimate from the model. A zero-confidence
// Result with only Reason set means the model answered but could not
// commit to a number.
type Result struct {
	UnitWeightGrams     *float64         `json:"unit_weight_grams,omitempty"`
	RangeGrams          *model.GramRange `json:"range_grams,omitempty"`
	Confidence          float64          `json:"confidence"`
	Signals             []string         `json:"signals,omitempty"`
	Reason              string           `json:"reason,omitempty"`
	UnitScope           model.UnitScope  `json:"unit_scope,omitempty"`
	PackCount           *int             `json:"pack_count,omitempty"`
	PackCountConfidence float64          `json:"pack_count_confidence,omitempty"`
}

// EncodedImage is a fetched, base64-encoded image ready for submission.
type EncodedImage struct {
	MIMEType string
	Data     string // base64, no data-URL prefix
}

// Model is a multimodal inference backend. Implementations live in
// pkg/gemini and pkg/anthropic.
type Model interface {
	// Name identifies the backend in logs and rationale strings.
	Name() string
	// Generate submits the prompt plus images and returns raw model text.
	Generate(ctx context.Context, prompt string, images []EncodedImage) (string, error)
}
