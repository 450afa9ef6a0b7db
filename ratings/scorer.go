package ratings

import (
	"context"
	"math"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

// logEpsilon keeps the log-probability of a zero score finite.
const logEpsilon = 1e-9

// RatingInstruction is echoed as the system prompt of validation runs.
const RatingInstruction = "Give a score between 1 and 5"

// Scorer returns a QuestionScorer that answers from t. The request's TextLabel and question label
// select the rating; the model name only identifies the rater in the result.
func Scorer(t Table, rater string) api.QuestionScorer {
	return &scorer{table: t, rater: rater}
}

type scorer struct {
	table Table
	rater string
}

func (s *scorer) ScoreQuestion(_ context.Context, req api.QuestionRequest) (api.QuestionEval, error) {
	result := api.QuestionEval{
		Label:                req.Question.Label,
		Question:             req.Question.Question,
		PositiveContribution: req.Question.PositiveContribution,
	}

	r, ok := s.table.Get(req.TextLabel, req.Question.Label)
	if !ok {
		return result, nil
	}

	p := float64(r-MinRating) / float64(MaxRating-MinRating)
	answer := "True"
	if !req.Question.PositiveContribution {
		answer = "False"
		p = 1 - p
	}
	score := scoring.Round(p)
	logprob := math.Log(p + logEpsilon)

	result.Answer = &answer
	result.Score = &score
	result.LogProbability = &logprob
	return result, nil
}

func (s *scorer) PromptTemplates() api.EvaluationParameters {
	return api.EvaluationParameters{
		SystemPrompt: RatingInstruction,
		BasePrompt:   s.rater,
	}
}

var (
	_ api.QuestionScorer  = (*scorer)(nil)
	_ api.PromptTemplater = (*scorer)(nil)
)
