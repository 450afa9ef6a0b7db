package lazarsfeld

import (
	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

type Question = api.Question
type Dimension = api.Dimension
type Concept = api.Concept
type ConceptSet = api.ConceptSet

type QuestionEval = api.QuestionEval
type DimensionEval = api.DimensionEval
type ConceptEval = api.ConceptEval
type ModelEval = api.ModelEval
type TextEval = api.TextEval
type Metadata = api.Metadata
type EvaluationParameters = api.EvaluationParameters
type LabeledText = scoring.LabeledText

type TokenLogprob = api.TokenLogprob
type TokenSource = api.TokenSource
type QuestionRequest = api.QuestionRequest
type QuestionScorer = api.QuestionScorer

type ModerationProvider = api.ModerationProvider
type ModerationCategory = api.ModerationCategory
type ModerationResult = api.ModerationResult
type ModerationReport = api.ModerationReport

var ModerationCategories = api.ModerationCategories
