package gemini

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"
	"github.com/googleapis/gax-go/v2"

	"github.com/datar-psa/lazarsfeld/api"
)

// textModerator is the subset of *language.Client used for moderation.
type textModerator interface {
	ModerateText(ctx context.Context, req *languagepb.ModerateTextRequest, opts ...gax.CallOption) (*languagepb.ModerateTextResponse, error)
}

// LanguageModerator implements api.ModerationProvider with the Cloud Natural Language API.
type LanguageModerator struct {
	client textModerator
}

// NewLanguageModerator creates a provider using a preconfigured *language.Client (auth handled by caller)
func NewLanguageModerator(client *language.Client) *LanguageModerator {
	if client == nil {
		return &LanguageModerator{}
	}
	return &LanguageModerator{client: client}
}

// Moderate implements api.ModerationProvider
func (p *LanguageModerator) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("language client is required")
	}

	resp, err := p.client.ModerateText(ctx, &languagepb.ModerateTextRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: content,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("moderate text failed: %w", err)
	}

	categories := make([]api.ModerationCategory, 0, len(resp.GetModerationCategories()))
	for _, c := range resp.GetModerationCategories() {
		categories = append(categories, api.ModerationCategory{
			Name:       categoryName(c.GetName()),
			Confidence: float64(c.GetConfidence()),
		})
	}
	return &api.ModerationResult{Categories: categories}, nil
}

// languageCategories maps Natural Language category names that are not valid identifiers.
var languageCategories = map[string]string{
	"Death, Harm & Tragedy": "DeathHarmTragedy",
	"Firearms & Weapons":    "FirearmsWeapons",
	"Public Safety":         "PublicSafety",
	"Religion & Belief":     "ReligionBelief",
	"Illicit Drugs":         "IllicitDrugs",
	"War & Conflict":        "WarConflict",
}

// categoryName returns the name listed in api.ModerationCategories, or the original name when unknown.
func categoryName(name string) string {
	if mapped, ok := languageCategories[name]; ok {
		return mapped
	}
	return name
}

var _ api.ModerationProvider = (*LanguageModerator)(nil)
