package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"

	"github.com/datar-psa/lazarsfeld/api"
)

// TimestampLayout is the calendar-date layout of TextEval.Timestamp.
const TimestampLayout = "2006-01-02"

// Screener inspects the input text before scoring; its report is stored in the metadata only.
type Screener interface {
	Screen(ctx context.Context, text string) (*api.ModerationReport, error)
}

// LabeledText is one text to evaluate.
type LabeledText struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// TextOptions configures the TextAggregator
type TextOptions struct {
	maxWorkers int
	now        func() time.Time
	screener   Screener
	prompts    *api.EvaluationParameters
}

// WithMaxWorkers bounds how many models are evaluated concurrently.
// Zero or negative means one worker per model.
func WithMaxWorkers(n int) func(*TextOptions) {
	return func(opts *TextOptions) {
		opts.maxWorkers = n
	}
}

// WithClock sets the clock used for the result timestamp
func WithClock(now func() time.Time) func(*TextOptions) {
	return func(opts *TextOptions) {
		opts.now = now
	}
}

// WithScreener enables content screening of every input text
func WithScreener(s Screener) func(*TextOptions) {
	return func(opts *TextOptions) {
		opts.screener = s
	}
}

// WithPromptTemplates sets the prompt templates echoed in the metadata.
// By default they are taken from the scorer when it implements api.PromptTemplater.
func WithPromptTemplates(p api.EvaluationParameters) func(*TextOptions) {
	return func(opts *TextOptions) {
		opts.prompts = &p
	}
}

// TextAggregator evaluates a text with several models and combines their overall scores.
type TextAggregator struct {
	scorer api.QuestionScorer
	opts   TextOptions
}

// NewTextAggregator creates a TextAggregator that answers questions with scorer.
func NewTextAggregator(scorer api.QuestionScorer, opts ...func(*TextOptions)) *TextAggregator {
	options := TextOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	return &TextAggregator{scorer: scorer, opts: options}
}

// EvaluateText runs one model task per distinct model and packages the results.
//
// A model whose task fails is recorded as a nil entry in Evaluations and does not affect the other
// models. The only error returned is the cancellation of ctx.
func (a *TextAggregator) EvaluateText(ctx context.Context, label, text string, concepts []api.Concept, models []string) (*api.TextEval, error) {
	distinct := dedupe(models)
	results := make([]*api.ModelEval, len(distinct))

	var g errgroup.Group
	limit := a.opts.maxWorkers
	if limit <= 0 {
		limit = len(distinct)
	}
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, model := range distinct {
		g.Go(func() error {
			results[i] = a.runModel(ctx, model, label, text, concepts)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	evaluations := make(map[string]*api.ModelEval, len(distinct))
	scores := make([]*float64, 0, len(distinct))
	for i, model := range distinct {
		evaluations[model] = results[i]
		if results[i] != nil {
			scores = append(scores, results[i].OverallScore)
		}
	}
	aggregated := Mean(scores)
	observeAggregatedScore(label, aggregated)

	result := &api.TextEval{
		Label:           label,
		InputText:       text,
		Concepts:        append([]api.Concept{}, concepts...),
		Evaluations:     evaluations,
		AggregatedScore: aggregated,
		Metadata: api.Metadata{
			ModelsUsed:           append([]string{}, models...),
			EvaluationParameters: a.promptTemplates(),
		},
		Timestamp: a.opts.now().Format(TimestampLayout),
	}

	if a.opts.screener != nil {
		report, err := a.opts.screener.Screen(ctx, text)
		if err != nil {
			clog.FromContext(ctx).With("text", label).Warnf("content screening failed: %v", err)
		} else {
			result.Metadata.Moderation = report
		}
	}

	return result, nil
}

// EvaluateTexts evaluates each text in order and returns one TextEval per text.
func (a *TextAggregator) EvaluateTexts(ctx context.Context, texts []LabeledText, concepts []api.Concept, models []string) ([]api.TextEval, error) {
	results := make([]api.TextEval, 0, len(texts))
	for _, t := range texts {
		te, err := a.EvaluateText(ctx, t.Label, t.Text, concepts, models)
		if err != nil {
			return results, fmt.Errorf("evaluate %q: %w", t.Label, err)
		}
		clog.FromContext(ctx).With("text", t.Label).Info("Evaluation completed")
		results = append(results, *te)
	}
	return results, nil
}

// runModel isolates one model task: errors and panics become a nil result.
func (a *TextAggregator) runModel(ctx context.Context, model, label, text string, concepts []api.Concept) (result *api.ModelEval) {
	log := clog.FromContext(ctx).With("model", model).With("text", label)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Error evaluating model %s: panic: %v", model, r)
			observeModelFailure(model)
			result = nil
		}
	}()

	if a.scorer == nil {
		log.Errorf("Error evaluating model %s: %v", model, api.ErrNoTokenSource)
		observeModelFailure(model)
		return nil
	}

	me, err := EvaluateModel(ctx, a.scorer, model, label, text, concepts)
	if err != nil {
		log.Errorf("Error evaluating model %s: %v", model, err)
		observeModelFailure(model)
		return nil
	}
	return me
}

func (a *TextAggregator) promptTemplates() api.EvaluationParameters {
	if a.opts.prompts != nil {
		return *a.opts.prompts
	}
	if p, ok := a.scorer.(api.PromptTemplater); ok {
		return p.PromptTemplates()
	}
	return api.EvaluationParameters{}
}

func dedupe(models []string) []string {
	seen := make(map[string]struct{}, len(models))
	out := make([]string, 0, len(models))
	for _, m := range models {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
