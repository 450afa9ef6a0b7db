package concept

import (
	"fmt"
	"math"
	"strings"

	"github.com/datar-psa/lazarsfeld/api"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "concept validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Unwrap lets callers match validation failures with errors.Is(err, api.ErrInvalidConfig).
func (err *ValidationError) Unwrap() error {
	return api.ErrInvalidConfig
}

// issueCollector accumulates validation issues.
type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks the shape of a concept set: every level must be non-empty, descriptions and
// question texts present, weights finite and non-negative, and question labels unique per concept.
func Validate(set *api.ConceptSet) error {
	collector := &issueCollector{}
	if set == nil || len(set.Concepts) == 0 {
		collector.add("concepts", "at least one concept is required")
		return collector.result()
	}

	for i, c := range set.Concepts {
		path := fmt.Sprintf("concepts[%d]", i)
		if strings.TrimSpace(c.Description) == "" {
			collector.add(path+".concept_description", "is required")
		}
		validateWeight(path, c.Weight, collector.add)
		if len(c.Dimensions) == 0 {
			collector.add(path+".dimensions", "at least one dimension is required")
		}

		labels := make(map[string]string)
		for j, d := range c.Dimensions {
			dimPath := fmt.Sprintf("%s.dimensions[%d]", path, j)
			if strings.TrimSpace(d.Description) == "" {
				collector.add(dimPath+".dimension_description", "is required")
			}
			validateWeight(dimPath, d.Weight, collector.add)
			if len(d.Questions) == 0 {
				collector.add(dimPath+".questions", "at least one question is required")
			}
			for k, q := range d.Questions {
				qPath := fmt.Sprintf("%s.questions[%d]", dimPath, k)
				if strings.TrimSpace(q.Label) == "" {
					collector.add(qPath+".label", "is required")
				} else if first, ok := labels[q.Label]; ok {
					collector.add(qPath+".label", fmt.Sprintf("duplicate label %q (first used at %s)", q.Label, first))
				} else {
					labels[q.Label] = qPath
				}
				if strings.TrimSpace(q.Question) == "" {
					collector.add(qPath+".question", "is required")
				}
			}
		}
	}

	return collector.result()
}

func validateWeight(path string, w *float64, add func(field, message string)) {
	if w == nil {
		return
	}
	if math.IsNaN(*w) || math.IsInf(*w, 0) || *w < 0 {
		add(path+".weight", fmt.Sprintf("must be a finite non-negative number, got %v", *w))
	}
}
