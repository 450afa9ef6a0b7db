// Package cache memoizes model answers so that re-running an evaluation over the same prompts
// does not call the provider again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/datar-psa/lazarsfeld/api"
)

// Store persists ranked token candidates by cache key.
type Store interface {
	// Get returns the candidates stored under key; ok is false on a miss.
	Get(ctx context.Context, key string) (candidates []api.TokenLogprob, ok bool, err error)
	// Put stores candidates under key. Existing entries are kept.
	Put(ctx context.Context, key, model string, candidates []api.TokenLogprob) error
}

var lookupCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lazarsfeld_token_cache_lookups_total",
		Help: "Token cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

// Key derives the cache key of one model call.
func Key(model, systemPrompt, userPrompt string) string {
	h := sha256.New()
	for _, part := range []string{model, systemPrompt, userPrompt} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// New wraps source so that answers are served from store when present.
// Only successful responses carrying candidates are stored; store failures are logged and never fail the call.
func New(source api.TokenSource, store Store) api.TokenSource {
	return &cachedSource{source: source, store: store}
}

type cachedSource struct {
	source api.TokenSource
	store  Store
}

func (c *cachedSource) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	key := Key(model, systemPrompt, userPrompt)
	log := clog.FromContext(ctx).With("model", model)

	candidates, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		lookupCounter.WithLabelValues("error").Inc()
		log.Warnf("token cache lookup failed: %v", err)
	case ok:
		lookupCounter.WithLabelValues("hit").Inc()
		return candidates, nil
	default:
		lookupCounter.WithLabelValues("miss").Inc()
	}

	if c.source == nil {
		return nil, api.ErrNoTokenSource
	}
	candidates, err = c.source.TopTokens(ctx, model, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return candidates, nil
	}
	if err := c.store.Put(ctx, key, model, candidates); err != nil {
		log.Warnf("token cache store failed: %v", err)
	}
	return candidates, nil
}

var _ api.TokenSource = (*cachedSource)(nil)
