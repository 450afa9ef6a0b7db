package scoring

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/datar-psa/lazarsfeld/api"
)

// EvaluateDimension asks scorer every question of dim, in declared order, and averages the scores.
// base supplies the model, text and concept; its Dimension and Question fields are overwritten.
func EvaluateDimension(ctx context.Context, scorer api.QuestionScorer, base api.QuestionRequest, dim api.Dimension) (api.DimensionEval, error) {
	questions := make([]api.QuestionEval, 0, len(dim.Questions))
	scores := make([]*float64, 0, len(dim.Questions))

	for _, q := range dim.Questions {
		req := base
		req.Dimension = dim
		req.Question = q

		qe, err := scorer.ScoreQuestion(ctx, req)
		if err != nil {
			observeQuestion(base.Model, outcomeError)
			return api.DimensionEval{}, fmt.Errorf("question %q: %w", q.Label, err)
		}
		if qe.Score == nil {
			observeQuestion(base.Model, outcomeMissing)
		} else {
			observeQuestion(base.Model, outcomeScored)
		}
		questions = append(questions, qe)
		scores = append(scores, qe.Score)
	}

	return api.DimensionEval{
		Description:  dim.Description,
		Questions:    questions,
		OverallScore: Mean(scores),
		Weight:       dim.EffectiveWeight(),
	}, nil
}

// EvaluateConcept evaluates every dimension of concept in declared order and averages their scores.
func EvaluateConcept(ctx context.Context, scorer api.QuestionScorer, base api.QuestionRequest, concept api.Concept) (api.ConceptEval, error) {
	base.Concept = concept
	dimensions := make([]api.DimensionEval, 0, len(concept.Dimensions))
	scores := make([]*float64, 0, len(concept.Dimensions))

	for _, dim := range concept.Dimensions {
		de, err := EvaluateDimension(ctx, scorer, base, dim)
		if err != nil {
			return api.ConceptEval{}, fmt.Errorf("dimension %q: %w", dim.Description, err)
		}
		dimensions = append(dimensions, de)
		scores = append(scores, de.OverallScore)
	}

	return api.ConceptEval{
		Description:  concept.Description,
		Dimensions:   dimensions,
		OverallScore: Mean(scores),
		Weight:       concept.EffectiveWeight(),
	}, nil
}

// EvaluateModel evaluates every concept with one model and averages the concept scores.
// The model weight is always api.DefaultWeight.
func EvaluateModel(ctx context.Context, scorer api.QuestionScorer, model, label, text string, concepts []api.Concept) (*api.ModelEval, error) {
	clog.FromContext(ctx).With("model", model).With("text", label).Info("Evaluating text")

	base := api.QuestionRequest{
		Model:     model,
		TextLabel: label,
		Text:      text,
	}
	conceptScores := make([]api.ConceptEval, 0, len(concepts))
	scores := make([]*float64, 0, len(concepts))

	for _, concept := range concepts {
		ce, err := EvaluateConcept(ctx, scorer, base, concept)
		if err != nil {
			return nil, fmt.Errorf("concept %q: %w", concept.Description, err)
		}
		conceptScores = append(conceptScores, ce)
		scores = append(scores, ce.OverallScore)
	}

	return &api.ModelEval{
		ModelName:     model,
		ConceptScores: conceptScores,
		OverallScore:  Mean(scores),
		Weight:        api.DefaultWeight,
	}, nil
}
