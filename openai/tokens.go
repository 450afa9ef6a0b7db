// Package openai provides a TokenSource backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/internal/retry"
)

// DefaultTopLogprobs is the number of ranked alternatives requested for the first token.
const DefaultTopLogprobs = 5

// completionsAPI is the subset of the chat completions service used here.
type completionsAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// TokenSourceOptions configures the TokenSource
type TokenSourceOptions struct {
	// TopLogprobs overrides DefaultTopLogprobs when positive
	TopLogprobs int
	// Retry overrides retry.Default()
	Retry *retry.Config
}

// TokenSource asks an OpenAI chat model for the log-probabilities of its first answer token.
type TokenSource struct {
	completions completionsAPI
	topK        int64
	retry       retry.Config
}

// NewTokenSource creates a TokenSource from an initialized client.
func NewTokenSource(client *openai.Client, opts TokenSourceOptions) *TokenSource {
	return newTokenSource(&client.Chat.Completions, opts)
}

// NewTokenSourceFromKey creates a client authenticated with apiKey plus any extra request options.
func NewTokenSourceFromKey(apiKey string, opts TokenSourceOptions, clientOpts ...option.RequestOption) *TokenSource {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, clientOpts...)...)
	return NewTokenSource(&client, opts)
}

func newTokenSource(completions completionsAPI, opts TokenSourceOptions) *TokenSource {
	topK := opts.TopLogprobs
	if topK <= 0 {
		topK = DefaultTopLogprobs
	}
	cfg := retry.Default()
	if opts.Retry != nil {
		cfg = *opts.Retry
	}
	return &TokenSource{completions: completions, topK: int64(topK), retry: cfg}
}

// TopTokens implements api.TokenSource
func (s *TokenSource) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Logprobs:    openai.Bool(true),
		TopLogprobs: openai.Int(s.topK),
	}

	resp, err := retry.Do(ctx, s.retry, "openai_chat_completion", isRetryable, func() (*openai.ChatCompletion, error) {
		return s.completions.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion for %s: %w", model, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}
	content := resp.Choices[0].Logprobs.Content
	if len(content) == 0 {
		clog.FromContext(ctx).With("model", model).Warn("response carries no token logprobs")
		return nil, nil
	}

	top := content[0].TopLogprobs
	candidates := make([]api.TokenLogprob, 0, len(top))
	for _, alt := range top {
		candidates = append(candidates, api.TokenLogprob{Token: alt.Token, LogProbability: alt.Logprob})
	}
	return candidates, nil
}

func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.IsRetryableStatus(apiErr.StatusCode)
	}
	return false
}

var _ api.TokenSource = (*TokenSource)(nil)
