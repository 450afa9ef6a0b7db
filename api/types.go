package api

import "context"

// DefaultWeight is applied to dimensions, concepts and models that do not declare a weight.
const DefaultWeight = 1.0

// Question is a single True/False probe with a declared polarity.
type Question struct {
	Label    string `json:"label" yaml:"label"`
	Question string `json:"question" yaml:"question"`
	// PositiveContribution is true when an affirmative answer is desirable
	PositiveContribution bool   `json:"positive_contribution" yaml:"positive_contribution"`
	Examples             string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Dimension is a sub-axis of a Concept holding an ordered list of questions.
type Dimension struct {
	Description string     `json:"dimension_description" yaml:"dimension_description"`
	Weight      *float64   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// EffectiveWeight returns the declared weight or DefaultWeight when unset.
func (d Dimension) EffectiveWeight() float64 {
	return weightOrDefault(d.Weight)
}

// Concept is a top-level evaluation axis holding an ordered list of dimensions.
type Concept struct {
	Description string      `json:"concept_description" yaml:"concept_description"`
	Weight      *float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Dimensions  []Dimension `json:"dimensions" yaml:"dimensions"`
}

// EffectiveWeight returns the declared weight or DefaultWeight when unset.
func (c Concept) EffectiveWeight() float64 {
	return weightOrDefault(c.Weight)
}

// ConceptSet is the root document of a concept configuration file.
type ConceptSet struct {
	Concepts []Concept `json:"concepts" yaml:"concepts"`
}

func weightOrDefault(w *float64) float64 {
	if w == nil {
		return DefaultWeight
	}
	return *w
}

// QuestionEval is the outcome of asking one model one question.
// Answer, Score and LogProbability are nil when no usable answer was observed.
type QuestionEval struct {
	Label                string   `json:"label"`
	Question             string   `json:"question"`
	Answer               *string  `json:"answer"`
	Score                *float64 `json:"score"`
	LogProbability       *float64 `json:"logprob"`
	PositiveContribution bool     `json:"positive_contribution"`
}

// DimensionEval aggregates the question evaluations of one dimension.
type DimensionEval struct {
	Description  string         `json:"dimension_description"`
	Questions    []QuestionEval `json:"questions"`
	OverallScore *float64       `json:"overall_score"`
	Weight       float64        `json:"weight"`
}

// ConceptEval aggregates the dimension evaluations of one concept.
type ConceptEval struct {
	Description  string          `json:"concept_description"`
	Dimensions   []DimensionEval `json:"dimensions"`
	OverallScore *float64        `json:"overall_score"`
	Weight       float64         `json:"weight"`
}

// ModelEval aggregates every concept evaluated by a single model.
type ModelEval struct {
	ModelName     string        `json:"model_name"`
	ConceptScores []ConceptEval `json:"concepts_scores"`
	OverallScore  *float64      `json:"overall_score"`
	Weight        float64       `json:"weight"`
}

// EvaluationParameters echoes the prompt templates used for a run.
type EvaluationParameters struct {
	SystemPrompt string `json:"system_prompt"`
	BasePrompt   string `json:"base_prompt"`
}

// Metadata describes how a TextEval was produced.
type Metadata struct {
	ModelsUsed           []string             `json:"models_used"`
	EvaluationParameters EvaluationParameters `json:"evaluation_parameters"`
	Moderation           *ModerationReport    `json:"moderation,omitempty"`
}

// TextEval is the full result tree for one evaluated text.
// A nil entry in Evaluations marks a model whose evaluation failed.
type TextEval struct {
	Label           string                `json:"label"`
	InputText       string                `json:"input_text"`
	Concepts        []Concept             `json:"concepts"`
	Evaluations     map[string]*ModelEval `json:"evaluations"`
	AggregatedScore *float64              `json:"aggregated_score"`
	Metadata        Metadata              `json:"metadata"`
	Timestamp       string                `json:"timestamp"`
}

// TokenLogprob is one ranked alternative for the first generated token.
type TokenLogprob struct {
	Token          string  `json:"token"`
	LogProbability float64 `json:"logprob"`
}

// TokenSource is the model-call collaborator.
// Implementations return the top-k alternatives of the first output token, most probable first.
type TokenSource interface {
	TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]TokenLogprob, error)
}

// QuestionRequest carries everything an answer source may need to score one question.
type QuestionRequest struct {
	Model     string
	TextLabel string
	Text      string
	Concept   Concept
	Dimension Dimension
	Question  Question
}

// QuestionScorer produces a QuestionEval for one (model, question) pair.
// A missing answer is reported through nil fields, not an error; errors are reserved for
// failures of the answer source itself.
type QuestionScorer interface {
	ScoreQuestion(ctx context.Context, req QuestionRequest) (QuestionEval, error)
}

// PromptTemplater is implemented by scorers that can describe the prompts they send.
type PromptTemplater interface {
	PromptTemplates() EvaluationParameters
}
