package llmjudge

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/datar-psa/lazarsfeld/api"
)

// JudgeOptions configures the True/False judge
type JudgeOptions struct {
	// SystemPrompt and UserPrompt override the default text/template sources.
	// Available fields: .Concept .Dimension .Question .Examples .Text
	SystemPrompt string
	UserPrompt   string
}

// Judge returns a QuestionScorer that asks a language model each question as a True/False probe
// and scores the ranked first-token log-probabilities with EvaluateQuestion.
func Judge(source api.TokenSource, opts JudgeOptions) (api.QuestionScorer, error) {
	systemSource := opts.SystemPrompt
	if systemSource == "" {
		systemSource = systemPromptTemplate
	}
	userSource := opts.UserPrompt
	if userSource == "" {
		userSource = userPromptTemplate
	}
	p, err := parsePrompts(systemSource, userSource)
	if err != nil {
		return nil, err
	}
	return &judge{source: source, prompts: p}, nil
}

type judge struct {
	source  api.TokenSource
	prompts *prompts
}

func (j *judge) ScoreQuestion(ctx context.Context, req api.QuestionRequest) (api.QuestionEval, error) {
	if j.source == nil {
		return api.QuestionEval{}, api.ErrNoTokenSource
	}

	system, user, err := j.prompts.render(promptData{
		Concept:   req.Concept.Description,
		Dimension: req.Dimension.Description,
		Question:  req.Question.Question,
		Examples:  req.Question.Examples,
		Text:      req.Text,
	})
	if err != nil {
		return api.QuestionEval{}, err
	}

	candidates, err := j.source.TopTokens(ctx, req.Model, system, user)
	if err != nil {
		return api.QuestionEval{}, fmt.Errorf("%w: %v", api.ErrModelCallFailed, err)
	}

	result := EvaluateQuestion(req.Question, candidates)
	if result.Score == nil {
		clog.FromContext(ctx).With("model", req.Model).With("question", req.Question.Label).
			Debugf("no usable answer among %d candidates", len(candidates))
	}
	return result, nil
}

// PromptTemplates implements api.PromptTemplater
func (j *judge) PromptTemplates() api.EvaluationParameters {
	return api.EvaluationParameters{
		SystemPrompt: j.prompts.systemSource,
		BasePrompt:   j.prompts.userSource,
	}
}

var (
	_ api.QuestionScorer  = (*judge)(nil)
	_ api.PromptTemplater = (*judge)(nil)
)
