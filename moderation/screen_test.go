package moderation

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/internal/testutils"
)

// mockModerationProvider is a simple mock for unit tests
type mockModerationProvider struct {
	result *api.ModerationResult
	err    error
	seen   string
}

func (m *mockModerationProvider) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	m.seen = content
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestScreen_Unit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mockResult    *api.ModerationResult
		mockErr       error
		threshold     float64
		categories    []string
		wantErr       bool
		wantSafe      bool
		wantThreshold float64
		wantFlagged   map[string]float64
	}{
		{
			name: "safe content",
			mockResult: &api.ModerationResult{Categories: []api.ModerationCategory{
				{Name: "Toxic", Confidence: 0.1},
				{Name: "Violent", Confidence: 0.05},
			}},
			threshold:     0.5,
			wantSafe:      true,
			wantThreshold: 0.5,
			wantFlagged:   map[string]float64{},
		},
		{
			name: "multiple flagged categories",
			mockResult: &api.ModerationResult{Categories: []api.ModerationCategory{
				{Name: "Toxic", Confidence: 0.7},
				{Name: "Violent", Confidence: 0.6},
				{Name: "Sexual", Confidence: 0.0},
			}},
			threshold:     0.5,
			wantSafe:      false,
			wantThreshold: 0.5,
			wantFlagged:   map[string]float64{"Toxic": 0.7, "Violent": 0.6},
		},
		{
			name: "default threshold",
			mockResult: &api.ModerationResult{Categories: []api.ModerationCategory{
				{Name: "Toxic", Confidence: 0.5},
				{Name: "Insult", Confidence: 0.51},
			}},
			wantSafe:      false,
			wantThreshold: DefaultThreshold,
			wantFlagged:   map[string]float64{"Insult": 0.51},
		},
		{
			name: "specific categories only",
			mockResult: &api.ModerationResult{Categories: []api.ModerationCategory{
				{Name: "Toxic", Confidence: 0.8},
				{Name: "Violent", Confidence: 0.6},
			}},
			threshold:     0.5,
			categories:    []string{"Violent"},
			wantSafe:      false,
			wantThreshold: 0.5,
			wantFlagged:   map[string]float64{"Violent": 0.6},
		},
		{
			name:    "provider error",
			mockErr: fmt.Errorf("API error"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockModerationProvider{result: tt.mockResult, err: tt.mockErr}
			s := NewScreener(provider, ScreenOptions{Threshold: tt.threshold, Categories: tt.categories})

			report, err := s.Screen(ctx, "some text")
			if tt.wantErr {
				if err == nil {
					t.Fatal("Screen() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Screen() unexpected error = %v", err)
			}
			if provider.seen != "some text" {
				t.Errorf("provider saw %q, want the input text", provider.seen)
			}
			if report.Safe != tt.wantSafe {
				t.Errorf("Screen() safe = %v, want %v", report.Safe, tt.wantSafe)
			}
			if report.Threshold != tt.wantThreshold {
				t.Errorf("Screen() threshold = %v, want %v", report.Threshold, tt.wantThreshold)
			}
			if diff := cmp.Diff(tt.wantFlagged, report.Flagged); diff != "" {
				t.Errorf("Screen() flagged mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.mockResult.Categories, report.Categories); diff != "" {
				t.Errorf("Screen() categories mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScreen_NilProvider(t *testing.T) {
	s := NewScreener(nil, ScreenOptions{})
	if _, err := s.Screen(context.Background(), "text"); err == nil {
		t.Error("Screen() with nil provider expected error")
	}
}

// TestScreen_Integration screens texts with the Cloud Natural Language API.
// It replays recorded responses; set UPDATE_TESTS=true with Google credentials to record.
func TestScreen_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	provider := testutils.NewLanguageModerator(t, testutils.DefaultGoogleTestConfig("language"))
	s := NewScreener(provider, ScreenOptions{})

	tests := []struct {
		name     string
		text     string
		wantSafe bool
	}{
		{name: "customer advice", text: "Thank you for your question. The drill comes with two batteries and a charger.", wantSafe: true},
		{name: "insult", text: "You are a worthless idiot and everyone hates you.", wantSafe: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := s.Screen(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Screen() unexpected error = %v", err)
			}
			if report.Safe != tt.wantSafe {
				t.Errorf("Screen() safe = %v, want %v (flagged %v)", report.Safe, tt.wantSafe, report.Flagged)
			}
			if len(report.Categories) == 0 {
				t.Error("Screen() returned no categories")
			}
		})
	}
}
