// Package report turns evaluation result trees into flat rows, comparisons, CSV files and console views.
package report

import (
	"sort"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

// TextConcept is the concept column value of the row holding a model's overall score.
const TextConcept = "TEXT"

// Level identifies which node of the result tree a Row describes.
type Level int

const (
	LevelText Level = iota
	LevelConcept
	LevelDimension
	LevelQuestion
)

func (l Level) String() string {
	switch l {
	case LevelText:
		return "text"
	case LevelConcept:
		return "concept"
	case LevelDimension:
		return "dimension"
	case LevelQuestion:
		return "question"
	default:
		return "unknown"
	}
}

// Row is one score of a result tree. Empty Dimension and Question columns mark the upper levels.
type Row struct {
	Level     Level
	Label     string
	Model     string
	Concept   string
	Dimension string
	Question  string
	Score     *float64
}

// Key is the join key of a row across runs.
type Key struct {
	Level     Level
	Label     string
	Model     string
	Concept   string
	Dimension string
	Question  string
}

// Key returns the row's join key.
func (r Row) Key() Key {
	return Key{Level: r.Level, Label: r.Label, Model: r.Model, Concept: r.Concept, Dimension: r.Dimension, Question: r.Question}
}

// Flatten lists every score of results, one row per model, concept, dimension and question.
// Models whose evaluation failed are skipped. Models are visited in name order so the output is stable.
func Flatten(results []api.TextEval) []Row {
	var rows []Row
	for _, te := range results {
		models := make([]string, 0, len(te.Evaluations))
		for name := range te.Evaluations {
			models = append(models, name)
		}
		sort.Strings(models)

		for _, name := range models {
			me := te.Evaluations[name]
			if me == nil {
				continue
			}
			model := me.ModelName
			if model == "" {
				model = name
			}
			rows = append(rows, Row{Level: LevelText, Label: te.Label, Model: model, Concept: TextConcept, Score: me.OverallScore})
			for _, ce := range me.ConceptScores {
				rows = append(rows, Row{Level: LevelConcept, Label: te.Label, Model: model, Concept: ce.Description, Score: ce.OverallScore})
				for _, de := range ce.Dimensions {
					rows = append(rows, Row{Level: LevelDimension, Label: te.Label, Model: model, Concept: ce.Description, Dimension: de.Description, Score: de.OverallScore})
					for _, qe := range de.Questions {
						rows = append(rows, Row{
							Level:     LevelQuestion,
							Label:     te.Label,
							Model:     model,
							Concept:   ce.Description,
							Dimension: de.Description,
							Question:  qe.Label,
							Score:     qe.Score,
						})
					}
				}
			}
		}
	}
	return rows
}

// Average is the mean score of one tree node for one model across all text labels.
type Average struct {
	Model     string
	Concept   string
	Dimension string
	Question  string
	Score     *float64
	// Count is the number of non-null scores averaged
	Count int
}

// AverageByModel averages the non-null scores of the rows at level, per model and node, across labels.
// Results are sorted by model, then node.
func AverageByModel(rows []Row, level Level) []Average {
	type node struct{ model, concept, dimension, question string }
	type accumulator struct {
		sum float64
		n   int
	}
	sums := map[node]*accumulator{}
	for _, r := range rows {
		if r.Level != level {
			continue
		}
		k := node{r.Model, r.Concept, r.Dimension, r.Question}
		acc, ok := sums[k]
		if !ok {
			acc = &accumulator{}
			sums[k] = acc
		}
		if r.Score != nil {
			acc.sum += *r.Score
			acc.n++
		}
	}

	out := make([]Average, 0, len(sums))
	for k, acc := range sums {
		avg := Average{Model: k.model, Concept: k.concept, Dimension: k.dimension, Question: k.question, Count: acc.n}
		if acc.n > 0 {
			v := scoring.Round(acc.sum / float64(acc.n))
			avg.Score = &v
		}
		out = append(out, avg)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Concept != b.Concept {
			return a.Concept < b.Concept
		}
		if a.Dimension != b.Dimension {
			return a.Dimension < b.Dimension
		}
		return a.Question < b.Question
	})
	return out
}
