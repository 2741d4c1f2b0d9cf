// Package openai provides a Worker backed by the OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configures the OpenAI worker (model id, max completion tokens,
// temperature, system prompt, API key).
type Options struct {
	Model               openai.ChatModel
	Temperature         float64
	MaxCompletionTokens int64
	System              string
	APIKey              string
}

// Worker adapts the OpenAI Chat Completions API to the core.Worker contract.
type Worker struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI worker using the official client.
func New(optFns ...func(o *Options)) *Worker {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := openai.NewClient(clientOpts...)

	return &Worker{client: &client, opts: opts}
}

// NewFromClient creates a new OpenAI worker from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Worker {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Worker{client: client, opts: opts}
}

// Execute implements core.Worker with a single non-streaming chat call.
func (w *Worker) Execute(ctx context.Context, task string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if w.opts.System != "" {
		messages = append(messages, openai.SystemMessage(w.opts.System))
	}
	messages = append(messages, openai.UserMessage(task))

	resp, err := w.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               w.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(w.opts.Temperature),
		MaxCompletionTokens: openai.Int(w.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
