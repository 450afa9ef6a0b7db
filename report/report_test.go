package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datar-psa/lazarsfeld/api"
)

func ptr[T any](v T) *T { return &v }

func sampleEval(label string, q1, q2 *float64) api.TextEval {
	dimScore := ptr(0.85)
	if q1 == nil || q2 == nil {
		dimScore = nil
	}
	return api.TextEval{
		Label:     label,
		InputText: "Dear customer, your order has shipped.",
		Evaluations: map[string]*api.ModelEval{
			"gpt-4o": {
				ModelName: "gpt-4o",
				ConceptScores: []api.ConceptEval{{
					Description: "Clarity",
					Dimensions: []api.DimensionEval{{
						Description: "Tone",
						Questions: []api.QuestionEval{
							{Label: "Q1", Question: "Is the tone friendly?", Answer: ptr("True"), Score: q1, PositiveContribution: true},
							{Label: "Q2", Question: "Is the tone rude?", Answer: ptr("False"), Score: q2},
						},
						OverallScore: dimScore,
						Weight:       1,
					}},
					OverallScore: dimScore,
					Weight:       1,
				}},
				OverallScore: dimScore,
				Weight:       1,
			},
			"gemini-2.5-flash": nil,
		},
		AggregatedScore: dimScore,
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten([]api.TextEval{sampleEval("letter", ptr(0.9), ptr(0.8))})

	want := []Row{
		{Level: LevelText, Label: "letter", Model: "gpt-4o", Concept: "TEXT", Score: ptr(0.85)},
		{Level: LevelConcept, Label: "letter", Model: "gpt-4o", Concept: "Clarity", Score: ptr(0.85)},
		{Level: LevelDimension, Label: "letter", Model: "gpt-4o", Concept: "Clarity", Dimension: "Tone", Score: ptr(0.85)},
		{Level: LevelQuestion, Label: "letter", Model: "gpt-4o", Concept: "Clarity", Dimension: "Tone", Question: "Q1", Score: ptr(0.9)},
		{Level: LevelQuestion, Label: "letter", Model: "gpt-4o", Concept: "Clarity", Dimension: "Tone", Question: "Q2", Score: ptr(0.8)},
	}
	assert.Equal(t, want, rows)
}

func TestFlatten_ConceptNamedText(t *testing.T) {
	te := sampleEval("letter", ptr(0.9), ptr(0.8))
	te.Evaluations["gpt-4o"].ConceptScores[0].Description = TextConcept
	te.Evaluations["gpt-4o"].ConceptScores[0].OverallScore = ptr(0.4)
	rows := Flatten([]api.TextEval{te})

	text := AverageByModel(rows, LevelText)
	require.Len(t, text, 1)
	assert.Equal(t, 1, text[0].Count)
	assert.InDelta(t, 0.85, *text[0].Score, 1e-9)

	concepts := AverageByModel(rows, LevelConcept)
	require.Len(t, concepts, 1)
	assert.InDelta(t, 0.4, *concepts[0].Score, 1e-9)

	// the text row and the concept row stay separate when joined across runs
	assert.Len(t, Compare(rows, rows), len(rows))
}

func TestFlatten_Empty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten([]api.TextEval{{Label: "x", Evaluations: map[string]*api.ModelEval{"m": nil}}}))
}

func TestCompare(t *testing.T) {
	base := Flatten([]api.TextEval{sampleEval("letter", ptr(0.9), ptr(0.8))})
	other := Flatten([]api.TextEval{sampleEval("letter", ptr(0.5), nil)})

	got := Compare(base, other)
	require.Len(t, got, 5)

	byQuestion := map[string]Comparison{}
	for _, c := range got {
		if c.Level == LevelQuestion {
			byQuestion[c.Question] = c
		}
	}
	require.NotNil(t, byQuestion["Q1"].Difference)
	assert.InDelta(t, -0.4, *byQuestion["Q1"].Difference, 1e-9)
	assert.Nil(t, byQuestion["Q2"].Difference)
	assert.Equal(t, ptr(0.8), byQuestion["Q2"].Base)
	assert.Nil(t, byQuestion["Q2"].Other)

	for i := 1; i < len(got); i++ {
		assert.True(t, less(got[i-1].Key, got[i].Key) || got[i-1].Key == got[i].Key, "comparisons must be sorted")
	}
}

func TestCompare_DifferenceRounded(t *testing.T) {
	base := []Row{{Label: "a", Model: "m", Concept: "TEXT", Score: ptr(0.3)}}
	other := []Row{{Label: "a", Model: "m", Concept: "TEXT", Score: ptr(0.1)}}

	got := Compare(base, other)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Difference)
	assert.Equal(t, -0.2, *got[0].Difference)
}

func TestCompare_OneSided(t *testing.T) {
	base := []Row{{Label: "a", Model: "m", Concept: "TEXT", Score: ptr(0.5)}}
	other := []Row{{Label: "b", Model: "m", Concept: "TEXT", Score: ptr(0.7)}}

	got := Compare(base, other)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Label)
	assert.Nil(t, got[0].Other)
	assert.Equal(t, "b", got[1].Label)
	assert.Nil(t, got[1].Base)
}

func TestAverageByModel(t *testing.T) {
	rows := Flatten([]api.TextEval{
		sampleEval("letter", ptr(0.9), ptr(0.8)),
		sampleEval("memo", ptr(0.6), ptr(0.4)),
		sampleEval("note", nil, ptr(0.1)),
	})

	got := AverageByModel(rows, LevelQuestion)
	require.Len(t, got, 2)
	assert.Equal(t, "Q1", got[0].Question)
	assert.Equal(t, 2, got[0].Count)
	assert.InDelta(t, 0.75, *got[0].Score, 1e-9)
	assert.Equal(t, "Q2", got[1].Question)
	assert.Equal(t, 3, got[1].Count)
	assert.InDelta(t, 0.433, *got[1].Score, 1e-9)

	text := AverageByModel(rows, LevelText)
	require.Len(t, text, 1)
	assert.Equal(t, "TEXT", text[0].Concept)
	assert.Equal(t, 2, text[0].Count)
}

func TestAverageByModel_AllNull(t *testing.T) {
	rows := []Row{{Label: "a", Model: "m", Concept: "TEXT"}}
	got := AverageByModel(rows, LevelText)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Score)
	assert.Zero(t, got[0].Count)
}

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{Label: "letter", Model: "gpt-4o", Concept: "TEXT", Score: ptr(0.85)},
		{Label: "letter", Model: "gpt-4o", Concept: "Clarity, plain", Dimension: "Tone", Question: "Q2"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := "label,model,concept,dimension,question,score\n" +
		"letter,gpt-4o,TEXT,,,0.85\n" +
		"letter,gpt-4o,\"Clarity, plain\",Tone,Q2,\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteComparisonCSV(t *testing.T) {
	comps := []Comparison{{
		Key:        Key{Label: "letter", Model: "gpt-4o", Concept: "TEXT"},
		Base:       ptr(0.5),
		Other:      ptr(0.75),
		Difference: ptr(0.25),
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonCSV(&buf, comps))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "label,model,concept,dimension,question,base,other,difference", lines[0])
	assert.Equal(t, "letter,gpt-4o,TEXT,,,0.5,0.75,0.25", lines[1])
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleEval("letter", ptr(0.9), ptr(0.8))))

	out := buf.String()
	assert.Contains(t, out, "## letter (aggregated: 0.850)")
	assert.Contains(t, out, "gpt-4o")
	assert.Contains(t, out, "Clarity")
	assert.Contains(t, out, "Tone")
	assert.Contains(t, out, "failed")
}

func TestRenderComparison_SkipsUnchanged(t *testing.T) {
	comps := []Comparison{
		{Key: Key{Label: "same", Model: "m", Concept: "TEXT"}, Base: ptr(0.5), Other: ptr(0.5), Difference: ptr(0.0)},
		{Key: Key{Label: "changed", Model: "m", Concept: "TEXT"}, Base: ptr(0.5), Other: ptr(0.6), Difference: ptr(0.1)},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderComparison(&buf, comps))
	assert.NotContains(t, buf.String(), "same")
	assert.Contains(t, buf.String(), "changed")
}

func TestPrintTree_NoColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTree(&buf, sampleEval("letter", ptr(0.9), nil), TreeOptions{NoColor: true, ShowText: true}))

	out := buf.String()
	assert.Contains(t, out, "Evaluation Results: letter")
	assert.Contains(t, out, "Input Text: Dear customer")
	assert.Contains(t, out, "Model: gemini-2.5-flash\nevaluation failed")
	assert.Contains(t, out, "  Concept: Clarity")
	assert.Contains(t, out, "    Dimension: Tone")
	assert.Contains(t, out, "      Question: Is the tone friendly?\n        Answer: True\n        Score: 0.900")
	assert.Contains(t, out, "        Score: null")
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.0, "196"},
		{0.399, "196"},
		{0.4, "220"},
		{0.699, "220"},
		{0.7, "42"},
		{1.0, "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(ScoreColor(tt.score)), "score %v", tt.score)
	}
}
