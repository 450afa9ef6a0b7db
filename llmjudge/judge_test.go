package llmjudge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/datar-psa/lazarsfeld/api"
)

// mockTokenSource is a simple mock for unit tests
type mockTokenSource struct {
	candidates []api.TokenLogprob
	err        error

	model  string
	system string
	user   string
}

func (m *mockTokenSource) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	m.model = model
	m.system = systemPrompt
	m.user = userPrompt
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func testRequest() api.QuestionRequest {
	return api.QuestionRequest{
		Model:     "gpt-4o",
		TextLabel: "t1",
		Text:      "The meeting starts at nine.",
		Concept:   api.Concept{Description: "Clarity"},
		Dimension: api.Dimension{Description: "Structure"},
		Question: api.Question{
			Label:                "q1",
			Question:             "Is the text easy to follow?",
			PositiveContribution: true,
			Examples:             "Short sentences help.",
		},
	}
}

func TestJudge_Unit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		candidates []api.TokenLogprob
		sourceErr  error
		wantErr    error
		wantScore  *float64
	}{
		{
			name:       "true answer",
			candidates: []api.TokenLogprob{{Token: "True", LogProbability: math.Log(0.75)}},
			wantScore:  ptr(0.75),
		},
		{
			name:       "no usable answer",
			candidates: []api.TokenLogprob{{Token: "Maybe", LogProbability: -0.1}},
		},
		{
			name:      "source failure",
			sourceErr: fmt.Errorf("connection reset"),
			wantErr:   api.ErrModelCallFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &mockTokenSource{candidates: tt.candidates, err: tt.sourceErr}
			scorer, err := Judge(source, JudgeOptions{})
			if err != nil {
				t.Fatalf("Judge() unexpected error = %v", err)
			}

			got, err := scorer.ScoreQuestion(ctx, testRequest())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ScoreQuestion() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScoreQuestion() unexpected error = %v", err)
			}
			checkFloat(t, "score", got.Score, tt.wantScore)
			if got.Label != "q1" {
				t.Errorf("ScoreQuestion() label = %q, want q1", got.Label)
			}
		})
	}
}

func TestJudge_Prompts(t *testing.T) {
	source := &mockTokenSource{candidates: []api.TokenLogprob{{Token: "True", LogProbability: -0.1}}}
	scorer, err := Judge(source, JudgeOptions{})
	if err != nil {
		t.Fatalf("Judge() unexpected error = %v", err)
	}
	if _, err := scorer.ScoreQuestion(context.Background(), testRequest()); err != nil {
		t.Fatalf("ScoreQuestion() unexpected error = %v", err)
	}

	if source.model != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", source.model)
	}
	if !strings.Contains(source.system, "You specialise in Clarity.") {
		t.Errorf("system prompt does not name the concept:\n%s", source.system)
	}
	for _, want := range []string{
		"Is the text easy to follow?",
		"the dimension Structure of the concept Clarity",
		"Short sentences help.",
		"The meeting starts at nine.",
	} {
		if !strings.Contains(source.user, want) {
			t.Errorf("user prompt missing %q:\n%s", want, source.user)
		}
	}

	templater, ok := scorer.(api.PromptTemplater)
	if !ok {
		t.Fatal("judge does not implement api.PromptTemplater")
	}
	params := templater.PromptTemplates()
	if !strings.Contains(params.SystemPrompt, "{{.Concept}}") || !strings.Contains(params.BasePrompt, "{{.Text}}") {
		t.Errorf("PromptTemplates() should return the unrendered templates, got %+v", params)
	}
}

func TestJudge_CustomPrompts(t *testing.T) {
	source := &mockTokenSource{candidates: []api.TokenLogprob{{Token: "False", LogProbability: -0.2}}}
	scorer, err := Judge(source, JudgeOptions{
		SystemPrompt: "Judge {{.Concept}}.",
		UserPrompt:   "{{.Question}} / {{.Text}}",
	})
	if err != nil {
		t.Fatalf("Judge() unexpected error = %v", err)
	}
	if _, err := scorer.ScoreQuestion(context.Background(), testRequest()); err != nil {
		t.Fatalf("ScoreQuestion() unexpected error = %v", err)
	}
	if source.system != "Judge Clarity." {
		t.Errorf("system prompt = %q", source.system)
	}
	if source.user != "Is the text easy to follow? / The meeting starts at nine." {
		t.Errorf("user prompt = %q", source.user)
	}
}

func TestJudge_InvalidTemplate(t *testing.T) {
	if _, err := Judge(&mockTokenSource{}, JudgeOptions{UserPrompt: "{{.Text"}); err == nil {
		t.Error("Judge() expected error for malformed template")
	}
}

func TestJudge_NilSource(t *testing.T) {
	scorer, err := Judge(nil, JudgeOptions{})
	if err != nil {
		t.Fatalf("Judge() unexpected error = %v", err)
	}
	if _, err := scorer.ScoreQuestion(context.Background(), testRequest()); !errors.Is(err, api.ErrNoTokenSource) {
		t.Errorf("ScoreQuestion() error = %v, want %v", err, api.ErrNoTokenSource)
	}
}
