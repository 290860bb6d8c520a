package vision

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nexsupply/report-core/internal/resilience"
)

// Adapter runs one vision inference end to end: fetch and encode images,
// submit the prompt contract, validate the response. Infer never panics
// and never returns an error — any failure is an Abstention.
type Adapter struct {
	model   Model
	fetcher *ImageFetcher
	timeout time.Duration
	retry   resilience.RetryConfig
}

// NewAdapter creates an Adapter. model may be nil when no credential is
// configured; Infer then abstains with NoCredential. fetcher may be nil
// for the default.
func NewAdapter(model Model, fetcher *ImageFetcher, timeout time.Duration) *Adapter {
	if fetcher == nil {
		fetcher = NewImageFetcher(nil)
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Adapter{
		model:   model,
		fetcher: fetcher,
		timeout: timeout,
		retry:   resilience.DefaultRetryConfig(),
	}
}

// Infer estimates the unit weight from the request's photos. A nil
// Abstention means res is usable (possibly at zero confidence, when the
// model answered but could not commit to a number).
func (a *Adapter) Infer(ctx context.Context, req Request) (res *Result, abstain *Abstention) {
	log := zap.L().With(zap.String("report_id", req.ReportID))

	// Truly unexpected failures inside the model SDK or parsing must not
	// escape the stage boundary.
	defer func() {
		if r := recover(); r != nil {
			log.Error("vision: recovered panic", zap.Any("panic", r))
			res = nil
			abstain = &Abstention{Reason: AbstainModelError, Detail: "unexpected failure during inference"}
		}
	}()

	if req.ProductImageURL == "" && req.LabelImageURL == "" {
		return nil, &Abstention{Reason: AbstainNoImages, Detail: "no product or label photo on report"}
	}
	if a.model == nil {
		return nil, &Abstention{Reason: AbstainNoCredential, Detail: "no vision credential configured"}
	}

	images := a.fetcher.FetchAll(ctx, req.ReportID, req.ProductImageURL, req.LabelImageURL)
	if len(images) == 0 {
		return nil, &Abstention{Reason: AbstainFetchFailed, Detail: "no image could be retrieved"}
	}

	prompt := buildPrompt(req)

	text, err := resilience.DoValTimeout(ctx, a.retry, a.timeout, func(ctx context.Context) (string, error) {
		return a.model.Generate(ctx, prompt, images)
	})
	if err != nil {
		log.Warn("vision: model call failed",
			zap.String("model", a.model.Name()),
			zap.Error(err),
		)
		return nil, &Abstention{Reason: AbstainModelError, Detail: err.Error()}
	}

	result, err := parseResponse(text)
	if err != nil {
		log.Warn("vision: unparseable model response",
			zap.String("model", a.model.Name()),
			zap.Error(err),
		)
		return nil, &Abstention{Reason: AbstainUnparseableResponse, Detail: err.Error()}
	}

	log.Debug("vision: inference complete",
		zap.String("model", a.model.Name()),
		zap.Int("images", len(images)),
		zap.Float64("confidence", result.Confidence),
		zap.String("unit_scope", string(result.UnitScope)),
	)

	return result, nil
}
