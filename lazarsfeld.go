// Package lazarsfeld scores texts against configurable concepts by asking language models True/False
// questions and turning the log-probability of the answer token into a score.
//
// The Evaluator wires the provider token sources, the judge, an optional response cache and optional
// content screening into a scoring.TextAggregator. Lower-level building blocks live in the
// llmjudge, scoring, concept, ratings and report packages.
package lazarsfeld

import (
	"context"
	"time"

	language "cloud.google.com/go/language/apiv1"
	oai "github.com/openai/openai-go"
	"google.golang.org/genai"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/cache"
	"github.com/datar-psa/lazarsfeld/gemini"
	"github.com/datar-psa/lazarsfeld/llmjudge"
	"github.com/datar-psa/lazarsfeld/moderation"
	"github.com/datar-psa/lazarsfeld/openai"
	"github.com/datar-psa/lazarsfeld/scoring"
)

// DefaultMaxWorkers bounds concurrent model evaluations when no limit is configured.
const DefaultMaxWorkers = 5

// OpenAIPrefixes and GeminiPrefixes decide which provider serves a model name.
var (
	OpenAIPrefixes = []string{"gpt-", "o1", "o3", "o4", "chatgpt-"}
	GeminiPrefixes = []string{"gemini", "publishers/google/"}
)

// EvaluatorOptions configures Evaluator creation
type EvaluatorOptions struct {
	openaiClient *oai.Client
	genaiClient  *genai.Client
	langClient   *language.Client
	source       api.TokenSource
	scorer       api.QuestionScorer
	cacheStore   cache.Store
	maxWorkers   int
	now          func() time.Time
	judge        llmjudge.JudgeOptions
	screen       *moderation.ScreenOptions
	moderator    api.ModerationProvider
}

// WithOpenAIClient routes OpenAI model names through client
func WithOpenAIClient(client *oai.Client) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.openaiClient = client
	}
}

// WithGeminiClient routes Gemini model names through client
func WithGeminiClient(client *genai.Client) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.genaiClient = client
	}
}

// WithLanguageClient sets the Google Cloud Language client used for content screening.
// Screening only runs when WithModeration is also given.
func WithLanguageClient(client *language.Client) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.langClient = client
	}
}

// WithModerationProvider sets the provider used for content screening, overriding WithLanguageClient.
func WithModerationProvider(provider api.ModerationProvider) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.moderator = provider
	}
}

// WithModeration enables content screening of every input text
func WithModeration(screen moderation.ScreenOptions) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.screen = &screen
	}
}

// WithTokenSource replaces the provider routing with a single token source
func WithTokenSource(source api.TokenSource) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.source = source
	}
}

// WithQuestionScorer replaces the LLM judge entirely, e.g. with ratings.Scorer for human validation.
func WithQuestionScorer(scorer api.QuestionScorer) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.scorer = scorer
	}
}

// WithCache stores model responses in store and serves repeated prompts from it
func WithCache(store cache.Store) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.cacheStore = store
	}
}

// WithMaxWorkers bounds concurrent model evaluations per text
func WithMaxWorkers(n int) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.maxWorkers = n
	}
}

// WithClock sets the clock used for result timestamps
func WithClock(now func() time.Time) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.now = now
	}
}

// WithPrompts overrides the judge's prompt templates
func WithPrompts(judge llmjudge.JudgeOptions) func(*EvaluatorOptions) {
	return func(opts *EvaluatorOptions) {
		opts.judge = judge
	}
}

// Evaluator scores texts with one or more models.
type Evaluator struct {
	aggregator *scoring.TextAggregator
}

// NewEvaluator creates an Evaluator using functional options.
// Without any client, token source or scorer every model evaluation fails and is recorded as null.
func NewEvaluator(opts ...func(*EvaluatorOptions)) (*Evaluator, error) {
	options := &EvaluatorOptions{maxWorkers: DefaultMaxWorkers}
	for _, opt := range opts {
		opt(options)
	}

	scorer := options.scorer
	if scorer == nil {
		source := options.source
		if source == nil {
			source = newRouter(options)
		}
		if options.cacheStore != nil {
			source = cache.New(source, options.cacheStore)
		}
		judge, err := llmjudge.Judge(source, options.judge)
		if err != nil {
			return nil, err
		}
		scorer = judge
	}

	aggOpts := []func(*scoring.TextOptions){scoring.WithMaxWorkers(options.maxWorkers)}
	if options.now != nil {
		aggOpts = append(aggOpts, scoring.WithClock(options.now))
	}
	if options.screen != nil {
		provider := options.moderator
		if provider == nil && options.langClient != nil {
			provider = gemini.NewLanguageModerator(options.langClient)
		}
		if provider != nil {
			aggOpts = append(aggOpts, scoring.WithScreener(moderation.NewScreener(provider, *options.screen)))
		}
	}

	return &Evaluator{aggregator: scoring.NewTextAggregator(scorer, aggOpts...)}, nil
}

func newRouter(options *EvaluatorOptions) api.TokenSource {
	router := &llmjudge.Router{}
	if options.openaiClient != nil {
		source := openai.NewTokenSource(options.openaiClient, openai.TokenSourceOptions{})
		for _, prefix := range OpenAIPrefixes {
			router.Routes = append(router.Routes, llmjudge.Route{Prefix: prefix, Source: source})
		}
	}
	if options.genaiClient != nil {
		source := gemini.NewTokenSource(options.genaiClient, gemini.TokenSourceOptions{})
		for _, prefix := range GeminiPrefixes {
			router.Routes = append(router.Routes, llmjudge.Route{Prefix: prefix, Source: source})
		}
	}
	return router
}

// EvaluateText evaluates text with every model and returns the full result tree.
// Model failures are recorded as null entries; only cancellation of ctx is returned as an error.
func (e *Evaluator) EvaluateText(ctx context.Context, label, text string, concepts []Concept, models []string) (*TextEval, error) {
	return e.aggregator.EvaluateText(ctx, label, text, concepts, models)
}

// EvaluateTexts evaluates each text in order.
func (e *Evaluator) EvaluateTexts(ctx context.Context, texts []LabeledText, concepts []Concept, models []string) ([]TextEval, error) {
	return e.aggregator.EvaluateTexts(ctx, texts, concepts, models)
}
