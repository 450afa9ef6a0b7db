package main

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/datar-psa/lazarsfeld/store"
)

// config holds provider credentials and service endpoints taken from the environment.
type config struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GoogleProjectID string `env:"GOOGLE_PROJECT_ID"`
	GoogleRegion    string `env:"GOOGLE_REGION,default=us-central1"`

	DatabaseURL string `env:"DATABASE_URL"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION,default=us-east-1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	MaxWorkers int `env:"MAX_WORKERS,default=5"`
}

func loadConfig(ctx context.Context) (*config, error) {
	return loadConfigWith(ctx, envconfig.OsLookuper())
}

func loadConfigWith(ctx context.Context, lookuper envconfig.Lookuper) (*config, error) {
	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("processing config: MAX_WORKERS must be positive, got %d", cfg.MaxWorkers)
	}
	return &cfg, nil
}

// storeOptions returns the result store options derived from the environment.
func (c *config) storeOptions() []func(*store.Options) {
	return []func(*store.Options){
		store.WithS3Config(store.S3Config{
			Endpoint:  c.S3Endpoint,
			Region:    c.S3Region,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		}),
	}
}
