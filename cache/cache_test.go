package cache

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/datar-psa/lazarsfeld/api"
)

// countingSource is a simple mock for unit tests
type countingSource struct {
	candidates []api.TokenLogprob
	err        error
	calls      int
}

func (s *countingSource) TopTokens(ctx context.Context, model, systemPrompt, userPrompt string) ([]api.TokenLogprob, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

// failingStore errors on every operation
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]api.TokenLogprob, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Put(context.Context, string, string, []api.TokenLogprob) error {
	return errors.New("store down")
}

var candidates = []api.TokenLogprob{{Token: "True", LogProbability: -0.1}, {Token: "False", LogProbability: -2.4}}

func TestKey(t *testing.T) {
	base := Key("gpt-4o", "sys", "user")
	if base != Key("gpt-4o", "sys", "user") {
		t.Error("Key() is not deterministic")
	}
	for name, other := range map[string]string{
		"model":    Key("gpt-4o-mini", "sys", "user"),
		"system":   Key("gpt-4o", "sys2", "user"),
		"user":     Key("gpt-4o", "sys", "user2"),
		"boundary": Key("gpt-4o", "sysu", "ser"),
	} {
		if other == base {
			t.Errorf("Key() collides when %s differs", name)
		}
	}
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{candidates: candidates}
	store := NewMemoryStore()
	cached := New(source, store)

	for i := 0; i < 3; i++ {
		got, err := cached.TopTokens(ctx, "gpt-4o", "sys", "user")
		if err != nil {
			t.Fatalf("TopTokens() unexpected error = %v", err)
		}
		if diff := cmp.Diff(candidates, got); diff != "" {
			t.Errorf("TopTokens() mismatch (-want +got):\n%s", diff)
		}
	}
	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}

	if _, err := cached.TopTokens(ctx, "gpt-4o", "sys", "other question"); err != nil {
		t.Fatalf("TopTokens() unexpected error = %v", err)
	}
	if source.calls != 2 || store.Len() != 2 {
		t.Errorf("calls = %d entries = %d, want 2 and 2", source.calls, store.Len())
	}
}

func TestCachedSource_ErrorsNotStored(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{err: errors.New("503")}
	store := NewMemoryStore()
	cached := New(source, store)

	if _, err := cached.TopTokens(ctx, "m", "s", "u"); err == nil {
		t.Fatal("TopTokens() expected error")
	}
	if store.Len() != 0 {
		t.Errorf("failed call was cached")
	}

	source.err = nil
	source.candidates = candidates
	if _, err := cached.TopTokens(ctx, "m", "s", "u"); err != nil {
		t.Fatalf("TopTokens() unexpected error = %v", err)
	}
	if source.calls != 2 {
		t.Errorf("source called %d times, want 2", source.calls)
	}
}

func TestCachedSource_EmptyNotStored(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{}
	store := NewMemoryStore()
	cached := New(source, store)

	got, err := cached.TopTokens(ctx, "m", "s", "u")
	if err != nil {
		t.Fatalf("TopTokens() unexpected error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("TopTokens() = %v, want no candidates", got)
	}
	if store.Len() != 0 {
		t.Errorf("empty response was cached")
	}

	source.candidates = candidates
	got, err = cached.TopTokens(ctx, "m", "s", "u")
	if err != nil {
		t.Fatalf("TopTokens() unexpected error = %v", err)
	}
	if diff := cmp.Diff(candidates, got); diff != "" {
		t.Errorf("TopTokens() mismatch (-want +got):\n%s", diff)
	}
	if source.calls != 2 {
		t.Errorf("source called %d times, want 2", source.calls)
	}
	if store.Len() != 1 {
		t.Errorf("cache entries = %d, want 1", store.Len())
	}
}

func TestCachedSource_StoreFailure(t *testing.T) {
	source := &countingSource{candidates: candidates}
	got, err := New(source, failingStore{}).TopTokens(context.Background(), "m", "s", "u")
	if err != nil {
		t.Fatalf("store failures must not fail the call: %v", err)
	}
	if diff := cmp.Diff(candidates, got); diff != "" {
		t.Errorf("TopTokens() mismatch (-want +got):\n%s", diff)
	}
}

func TestCachedSource_NilSource(t *testing.T) {
	if _, err := New(nil, NewMemoryStore()).TopTokens(context.Background(), "m", "s", "u"); !errors.Is(err, api.ErrNoTokenSource) {
		t.Errorf("TopTokens() error = %v, want %v", err, api.ErrNoTokenSource)
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	in := []api.TokenLogprob{{Token: "True", LogProbability: -0.5}}
	if err := store.Put(ctx, "k", "m", in); err != nil {
		t.Fatal(err)
	}
	in[0].Token = "mutated"

	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got[0].Token != "True" {
		t.Errorf("stored entry aliased caller slice: %v", got)
	}
}

func TestMigrationURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/db?sslmode=disable": "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"postgresql://localhost/db":                        "pgx5://localhost/db",
		"pgx5://localhost/db":                              "pgx5://localhost/db",
	}
	for in, want := range tests {
		if got := migrationURL(in); got != want {
			t.Errorf("migrationURL(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestPostgresStore_Integration needs a reachable database in TEST_DATABASE_URL.
func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	store, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() unexpected error = %v", err)
	}
	defer store.Close() //nolint:errcheck

	key := Key("integration", t.Name(), "user")
	if _, err := store.db.ExecContext(ctx, `DELETE FROM token_cache WHERE key = $1`, key); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get() before Put = %v, %v; want miss", ok, err)
	}
	if err := store.Put(ctx, key, "integration", candidates); err != nil {
		t.Fatalf("Put() unexpected error = %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() after Put = %v, %v", ok, err)
	}
	if diff := cmp.Diff(candidates, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}
