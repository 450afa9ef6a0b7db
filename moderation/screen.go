// Package moderation screens input texts with a content-safety provider before they are scored.
package moderation

import (
	"context"
	"fmt"
	"slices"

	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/scoring"
)

// DefaultThreshold is used when ScreenOptions.Threshold is not positive.
const DefaultThreshold = 0.5

// ScreenOptions configures the Screener
type ScreenOptions struct {
	// Threshold is the confidence above which a category is flagged (0.0-1.0)
	Threshold float64
	// Categories to check (empty = all categories)
	Categories []string
}

// NewScreener returns a scoring.Screener backed by provider.
// The report it produces is informational and never changes any score.
func NewScreener(provider api.ModerationProvider, opts ScreenOptions) scoring.Screener {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &screener{
		provider:   provider,
		threshold:  threshold,
		categories: opts.Categories,
	}
}

type screener struct {
	provider   api.ModerationProvider
	threshold  float64
	categories []string
}

func (s *screener) Screen(ctx context.Context, text string) (*api.ModerationReport, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("moderation provider is required")
	}

	resp, err := s.provider.Moderate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to moderate content: %w", err)
	}

	flagged := make(map[string]float64)
	for _, category := range resp.Categories {
		if len(s.categories) > 0 && !slices.Contains(s.categories, category.Name) {
			continue
		}
		if category.Confidence > s.threshold {
			flagged[category.Name] = category.Confidence
		}
	}

	return &api.ModerationReport{
		Safe:       len(flagged) == 0,
		Threshold:  s.threshold,
		Flagged:    flagged,
		Categories: resp.Categories,
	}, nil
}

var _ scoring.Screener = (*screener)(nil)
