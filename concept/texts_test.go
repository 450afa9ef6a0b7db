package concept

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

func TestParseTexts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []scoring.LabeledText
	}{
		{
			name:  "json keeps declared order",
			input: `{"zeta": "Last letter.", "alpha": "First letter."}`,
			want: []scoring.LabeledText{
				{Label: "zeta", Text: "Last letter."},
				{Label: "alpha", Text: "First letter."},
			},
		},
		{
			name:  "yaml block scalar",
			input: "letter: |\n  Dear customer,\n  thank you.\n",
			want:  []scoring.LabeledText{{Label: "letter", Text: "Dear customer,\nthank you.\n"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTexts([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseTexts() unexpected error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTexts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTexts_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"list":      `["a", "b"]`,
		"empty":     `{}`,
		"nested":    `{"a": {"b": "c"}}`,
		"duplicate": "a: one\na: two\n",
		"malformed": `{"a": `,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTexts([]byte(input)); !errors.Is(err, api.ErrInvalidConfig) {
				t.Errorf("ParseTexts() error = %v, want %v", err, api.ErrInvalidConfig)
			}
		})
	}
}

func TestLoadTexts(t *testing.T) {
	path := writeFile(t, "texts.yaml", "t1: Hello there.\n")
	got, err := LoadTexts(path)
	if err != nil {
		t.Fatalf("LoadTexts() unexpected error = %v", err)
	}
	if len(got) != 1 || got[0].Label != "t1" || got[0].Text != "Hello there." {
		t.Errorf("LoadTexts() = %+v", got)
	}
}
