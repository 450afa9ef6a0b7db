package llmjudge

import (
	"math"
	"strings"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

const (
	trueToken  = "true"
	falseToken = "false"
)

// EvaluateQuestion converts the ranked first-token alternatives of a model answer into a QuestionEval.
//
// The first candidate whose lower-cased text is "true" or "false" is the decisive token; anything
// ranked above it (punctuation, whitespace) is ignored. Positive questions score the probability of
// "true", negative questions score one minus the probability of "false". When the decisive token has
// the other polarity, or no boolean candidate exists, the score stays nil.
func EvaluateQuestion(q api.Question, candidates []api.TokenLogprob) api.QuestionEval {
	result := api.QuestionEval{
		Label:                q.Label,
		Question:             q.Question,
		PositiveContribution: q.PositiveContribution,
	}

	for _, c := range candidates {
		normalized := strings.ToLower(c.Token)
		if normalized != trueToken && normalized != falseToken {
			continue
		}

		token := c.Token
		result.Answer = &token

		switch {
		case q.PositiveContribution && normalized == trueToken:
			score := scoring.Round(math.Exp(c.LogProbability))
			logprob := c.LogProbability
			result.Score = &score
			result.LogProbability = &logprob
		case !q.PositiveContribution && normalized == falseToken:
			score := scoring.Round(1 - math.Exp(c.LogProbability))
			logprob := c.LogProbability
			result.Score = &score
			result.LogProbability = &logprob
		}
		// only the first boolean candidate counts, matching or not
		break
	}

	return result
}
