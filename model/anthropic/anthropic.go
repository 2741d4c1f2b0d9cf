// Package anthropic provides a Worker backed by the Anthropic Claude API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Options configures the Anthropic worker (model id, max tokens, temperature,
// system prompt, API key).
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	System      string
	APIKey      string
}

// Worker adapts the Anthropic Messages API to the core.Worker contract.
type Worker struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic worker using the official client.
func New(optFns ...func(o *Options)) *Worker {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Worker{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic worker from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Worker {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Worker{client: client, opts: opts}
}

// Execute implements core.Worker with a single non-streaming Messages call.
func (w *Worker) Execute(ctx context.Context, task string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       w.opts.Model,
		MaxTokens:   w.opts.MaxTokens,
		Temperature: anthropic.Float(w.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(task)),
		},
	}
	if w.opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: w.opts.System}}
	}

	resp, err := w.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic response contained no text content")
	}
	return text, nil
}
