package vision

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/nexsupply/report-core/pkg/anthropic"
)

// AnthropicModel adapts the Claude API client to the Model interface.
// It is the alternate provider behind the same prompt contract.
type AnthropicModel struct {
	client anthropic.Client
	model  string
}

// NewAnthropicModel creates an AnthropicModel.
func NewAnthropicModel(client anthropic.Client, model string) *AnthropicModel {
	return &AnthropicModel{client: client, model: model}
}

func (a *AnthropicModel) Name() string { return "anthropic" }

func (a *AnthropicModel) Generate(ctx context.Context, prompt string, images []EncodedImage) (string, error) {
	blocks := make([]anthropic.ImageBlock, 0, len(images))
	for _, img := range images {
		blocks = append(blocks, anthropic.ImageBlock{MIMEType: img.MIMEType, Data: img.Data})
	}

	temp := 0.0
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   1024,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: prompt,
			Images:  blocks,
		}},
	})
	if err != nil {
		return "", eris.Wrap(err, "vision: anthropic generate")
	}

	resp.Usage.LogUsage(a.model, "vision")
	return resp.Text(), nil
}
