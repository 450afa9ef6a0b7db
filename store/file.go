package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/datar-psa/lazarsfeld/api"
)

type fileStore struct {
	path string
}

func (f *fileStore) Save(_ context.Context, results []api.TextEval) (string, error) {
	b, err := encode(results)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", f.path, err)
	}
	return f.path, nil
}

func (f *fileStore) Load(_ context.Context, location string) ([]api.TextEval, error) {
	if location == "" {
		location = f.path
	}
	_, _, p, err := parseLocation(location)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return decode(b)
}

// Load reads results from any location Open understands.
func Load(ctx context.Context, location string, opts ...func(*Options)) ([]api.TextEval, error) {
	s, err := Open(ctx, location, opts...)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, location)
}
