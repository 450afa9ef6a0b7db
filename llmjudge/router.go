package llmjudge

import (
	"context"
	"fmt"
	"strings"

	"github.com/datar-psa/lazarsfeld/api"
)

// Route sends every model whose lower-cased name starts with Prefix to Source.
type Route struct {
	Prefix string
	Source api.TokenSource
}

// Router is a TokenSource that delegates to one of several providers based on the model name.
// Routes are tried in order; Fallback, when set, serves models no route claims.
type Router struct {
	Routes   []Route
	Fallback api.TokenSource
}

// TopTokens implements api.TokenSource
func (r *Router) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	source := r.sourceFor(model)
	if source == nil {
		return nil, fmt.Errorf("unsupported model: %s", model)
	}
	return source.TopTokens(ctx, model, systemPrompt, userPrompt)
}

func (r *Router) sourceFor(model string) api.TokenSource {
	modelLower := strings.ToLower(model)
	for _, route := range r.Routes {
		if strings.HasPrefix(modelLower, strings.ToLower(route.Prefix)) {
			return route.Source
		}
	}
	return r.Fallback
}

var _ api.TokenSource = (*Router)(nil)
