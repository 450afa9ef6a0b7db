package scoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeScored  = "scored"
	outcomeMissing = "missing"
	outcomeError   = "error"
)

var (
	questionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazarsfeld_question_evaluations_total",
			Help: "Questions evaluated, by model and outcome (scored, missing, error)",
		},
		[]string{"model", "outcome"},
	)

	modelFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazarsfeld_model_failures_total",
			Help: "Model evaluations recorded as null because the answer source failed",
		},
		[]string{"model"},
	)

	aggregatedScoreGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lazarsfeld_text_aggregated_score",
			Help: "Most recent aggregated score (0.0-1.0) per text label",
		},
		[]string{"label"},
	)
)

func observeQuestion(model, outcome string) {
	questionCounter.With(prometheus.Labels{"model": model, "outcome": outcome}).Inc()
}

func observeModelFailure(model string) {
	modelFailureCounter.With(prometheus.Labels{"model": model}).Inc()
}

func observeAggregatedScore(label string, score *float64) {
	if score == nil {
		return
	}
	aggregatedScoreGauge.With(prometheus.Labels{"label": label}).Set(*score)
}
