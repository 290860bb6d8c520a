package vision

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/nexsupply/report-core/pkg/gemini"
)

// GeminiModel adapts the Gemini API client to the Model interface.
type GeminiModel struct {
	client gemini.Client
	model  string
}

// NewGeminiModel creates a GeminiModel. model may be empty to use the
// client's default.
func NewGeminiModel(client gemini.Client, model string) *GeminiModel {
	return &GeminiModel{client: client, model: model}
}

func (g *GeminiModel) Name() string { return "gemini" }

func (g *GeminiModel) Generate(ctx context.Context, prompt string, images []EncodedImage) (string, error) {
	parts := make([]gemini.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, gemini.Part{
			InlineData: &gemini.InlineData{MIMEType: img.MIMEType, Data: img.Data},
		})
	}
	parts = append(parts, gemini.Part{Text: prompt})

	temp := 0.0
	resp, err := g.client.GenerateContent(ctx, gemini.GenerateContentRequest{
		Model:    g.model,
		Contents: []gemini.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature: &temp,
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "vision: gemini generate")
	}

	return resp.Text(), nil
}
