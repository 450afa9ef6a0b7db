package concept

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datar-psa/lazarsfeld/api"
)

func TestValidate(t *testing.T) {
	negative := -1.0
	nan := math.NaN()

	tests := []struct {
		name       string
		set        *api.ConceptSet
		wantFields []string
	}{
		{
			name: "valid",
			set:  wantSet(),
		},
		{
			name:       "nil set",
			set:        nil,
			wantFields: []string{"concepts"},
		},
		{
			name: "empty levels",
			set: &api.ConceptSet{Concepts: []api.Concept{
				{Description: ""},
				{Description: "Tone", Dimensions: []api.Dimension{{Description: "Warmth"}}},
			}},
			wantFields: []string{
				"concepts[0].concept_description",
				"concepts[0].dimensions",
				"concepts[1].dimensions[0].questions",
			},
		},
		{
			name: "bad question and weights",
			set: &api.ConceptSet{Concepts: []api.Concept{{
				Description: "Tone",
				Weight:      &negative,
				Dimensions: []api.Dimension{{
					Description: "Warmth",
					Weight:      &nan,
					Questions: []api.Question{
						{Label: "W1", Question: "Is it warm?"},
						{Label: "W1", Question: ""},
						{Label: " ", Question: "Is it kind?"},
					},
				}},
			}}},
			wantFields: []string{
				"concepts[0].weight",
				"concepts[0].dimensions[0].weight",
				"concepts[0].dimensions[0].questions[1].label",
				"concepts[0].dimensions[0].questions[1].question",
				"concepts[0].dimensions[0].questions[2].label",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.set)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !errors.Is(err, api.ErrInvalidConfig) {
				t.Errorf("ValidationError should match %v", api.ErrInvalidConfig)
			}
			fields := make([]string, 0, len(validationErr.Issues))
			for _, issue := range validationErr.Issues {
				fields = append(fields, issue.Field)
			}
			if diff := cmp.Diff(tt.wantFields, fields); diff != "" {
				t.Errorf("Validate() issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
