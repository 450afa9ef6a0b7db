package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	language "cloud.google.com/go/language/apiv1"
	"github.com/chainguard-dev/clog"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/datar-psa/lazarsfeld"
	"github.com/datar-psa/lazarsfeld/api"
	"github.com/datar-psa/lazarsfeld/cache"
	"github.com/datar-psa/lazarsfeld/concept"
	"github.com/datar-psa/lazarsfeld/moderation"
	"github.com/datar-psa/lazarsfeld/report"
	"github.com/datar-psa/lazarsfeld/scoring"
	"github.com/datar-psa/lazarsfeld/store"
)

// DefaultResultsPath is where results are written when --out is not given.
const DefaultResultsPath = "evaluation_results/results.json"

type evalFlags struct {
	concepts    string
	texts       string
	models      []string
	out         string
	cacheDSN    string
	maxWorkers  int
	moderate    bool
	threshold   float64
	metricsAddr string
	quiet       bool
}

func newEvalCommand() *cobra.Command {
	var flags evalFlags
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate texts with one or more models",
		Long: `Evaluate every (label, text) pair of a texts file against the concepts of a
concept file with each of the given models, then save the result trees.

OpenAI models (gpt-*, o1*, o3*, o4*) need OPENAI_API_KEY; Gemini models need
GOOGLE_PROJECT_ID. A model whose provider is unavailable is recorded as null.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.concepts, "concepts", "", "Concept configuration file (JSON or YAML)")
	cmd.Flags().StringVar(&flags.texts, "texts", "", "Texts file mapping labels to texts (JSON or YAML)")
	cmd.Flags().StringSliceVarP(&flags.models, "model", "m", nil, "Model to evaluate with (repeatable)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", DefaultResultsPath, "Result location: file path, s3://bucket/prefix or gs://bucket/prefix")
	cmd.Flags().StringVar(&flags.cacheDSN, "cache-dsn", "", "Postgres DSN of the response cache (defaults to DATABASE_URL)")
	cmd.Flags().IntVar(&flags.maxWorkers, "max-workers", 0, "Models evaluated concurrently (defaults to MAX_WORKERS)")
	cmd.Flags().BoolVar(&flags.moderate, "moderate", false, "Screen every text with Cloud Natural Language moderation")
	cmd.Flags().Float64Var(&flags.threshold, "moderation-threshold", moderation.DefaultThreshold, "Confidence above which a moderation category is flagged")
	cmd.Flags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while evaluating")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not print the score tables")
	_ = cmd.MarkFlagRequired("concepts")
	_ = cmd.MarkFlagRequired("texts")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runEval(ctx context.Context, w io.Writer, flags evalFlags) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	concepts, texts, err := loadInputs(flags.concepts, flags.texts)
	if err != nil {
		return err
	}

	if flags.metricsAddr != "" {
		stop := serveMetrics(ctx, flags.metricsAddr)
		defer stop()
	}

	opts, cleanup, err := providerOptions(ctx, cfg, flags)
	defer cleanup()
	if err != nil {
		return err
	}

	evaluator, err := lazarsfeld.NewEvaluator(opts...)
	if err != nil {
		return err
	}

	results, err := evaluator.EvaluateTexts(ctx, texts, concepts, flags.models)
	if err != nil {
		return err
	}

	return saveAndPrint(ctx, w, cfg, flags.out, results, flags.quiet)
}

// loadInputs reads and validates the concept and texts files.
func loadInputs(conceptsPath, textsPath string) ([]api.Concept, []scoring.LabeledText, error) {
	set, err := concept.Load(conceptsPath)
	if err != nil {
		return nil, nil, err
	}
	texts, err := concept.LoadTexts(textsPath)
	if err != nil {
		return nil, nil, err
	}
	if len(texts) == 0 {
		return nil, nil, fmt.Errorf("%s: no texts to evaluate", textsPath)
	}
	return set.Concepts, texts, nil
}

// providerOptions builds the evaluator options for every provider configured in the environment.
// The returned cleanup func is always non-nil.
func providerOptions(ctx context.Context, cfg *config, flags evalFlags) ([]func(*lazarsfeld.EvaluatorOptions), func(), error) {
	log := clog.FromContext(ctx)
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnf("closing client: %v", err)
			}
		}
	}

	maxWorkers := flags.maxWorkers
	if maxWorkers <= 0 {
		maxWorkers = cfg.MaxWorkers
	}
	opts := []func(*lazarsfeld.EvaluatorOptions){lazarsfeld.WithMaxWorkers(maxWorkers)}

	if cfg.OpenAIAPIKey != "" {
		client := oai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		opts = append(opts, lazarsfeld.WithOpenAIClient(&client))
	} else {
		log.Debug("OPENAI_API_KEY not set, OpenAI models will be recorded as null")
	}

	if cfg.GoogleProjectID != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GoogleProjectID,
			Location: cfg.GoogleRegion,
		})
		if err != nil {
			return nil, cleanup, fmt.Errorf("create genai client: %w", err)
		}
		opts = append(opts, lazarsfeld.WithGeminiClient(client))
	} else {
		log.Debug("GOOGLE_PROJECT_ID not set, Gemini models will be recorded as null")
	}

	if flags.moderate {
		client, err := language.NewRESTClient(ctx)
		if err != nil {
			return nil, cleanup, fmt.Errorf("create language client: %w", err)
		}
		closers = append(closers, client.Close)
		opts = append(opts,
			lazarsfeld.WithLanguageClient(client),
			lazarsfeld.WithModeration(moderation.ScreenOptions{Threshold: flags.threshold}),
		)
	}

	dsn := flags.cacheDSN
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn != "" {
		pg, err := cache.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pg.Close)
		opts = append(opts, lazarsfeld.WithCache(pg))
	}

	return opts, cleanup, nil
}

// saveAndPrint persists results and prints a score table per text.
func saveAndPrint(ctx context.Context, w io.Writer, cfg *config, out string, results []api.TextEval, quiet bool) error {
	s, err := store.Open(ctx, out, cfg.storeOptions()...)
	if err != nil {
		return err
	}
	location, err := s.Save(ctx, results)
	if err != nil {
		return err
	}
	clog.FromContext(ctx).With("location", location).Infof("Saved %d results", len(results))

	if quiet {
		return nil
	}
	for _, te := range results {
		if err := report.RenderTable(w, te); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// serveMetrics exposes the Prometheus registry until the returned func is called.
func serveMetrics(ctx context.Context, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.FromContext(ctx).Errorf("metrics server: %v", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
