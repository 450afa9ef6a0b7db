// Package gemini provides Google model integrations: a TokenSource over Gemini and a
// ModerationProvider over the Cloud Natural Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/internal/retry"
)

// DefaultTopLogprobs is the number of ranked alternatives requested for the first token.
const DefaultTopLogprobs = 5

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// TokenSourceOptions configures the TokenSource
type TokenSourceOptions struct {
	// TopLogprobs overrides DefaultTopLogprobs when positive
	TopLogprobs int
	// Retry overrides retry.Default()
	Retry *retry.Config
}

// TokenSource asks a Gemini model for the log-probabilities of its first answer token.
type TokenSource struct {
	models contentGenerator
	topK   int32
	retry  retry.Config
}

// NewTokenSource creates a TokenSource
// client: genai.Client from google.golang.org/genai (Gemini API or Vertex AI backend)
func NewTokenSource(client *genai.Client, opts TokenSourceOptions) *TokenSource {
	return newTokenSource(client.Models, opts)
}

func newTokenSource(models contentGenerator, opts TokenSourceOptions) *TokenSource {
	topK := opts.TopLogprobs
	if topK <= 0 {
		topK = DefaultTopLogprobs
	}
	cfg := retry.Default()
	if opts.Retry != nil {
		cfg = *opts.Retry
	}
	return &TokenSource{models: models, topK: int32(topK), retry: cfg}
}

// TopTokens implements api.TokenSource
func (s *TokenSource) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: userPrompt},
		},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		ResponseLogprobs: true,
		Logprobs:         &s.topK,
	}

	resp, err := retry.Do(ctx, s.retry, "gemini_generate_content", isRetryable, func() (*genai.GenerateContentResponse, error) {
		return s.models.GenerateContent(ctx, model, []*genai.Content{content}, config)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}
	result := resp.Candidates[0].LogprobsResult
	if result == nil || len(result.TopCandidates) == 0 || result.TopCandidates[0] == nil {
		clog.FromContext(ctx).With("model", model).Warn("response carries no token logprobs")
		return nil, nil
	}

	top := result.TopCandidates[0].Candidates
	candidates := make([]api.TokenLogprob, 0, len(top))
	for _, c := range top {
		if c == nil {
			continue
		}
		candidates = append(candidates, api.TokenLogprob{Token: c.Token, LogProbability: float64(c.LogProbability)})
	}
	return candidates, nil
}

func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.IsRetryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retry.IsRetryableStatus(apiErrPtr.Code)
	}
	return false
}

var _ api.TokenSource = (*TokenSource)(nil)
