// Package main provides the antechamber binary entry point. Antechamber
// generates layered system prompts for AI agents through a staged
// generation-validation pipeline with a block grammar.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	// Register LLM providers via init()
	_ "github.com/sunfoxy2k/antechamber/llm/providers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sunfoxy2k/antechamber/block"
	"github.com/sunfoxy2k/antechamber/config"
	"github.com/sunfoxy2k/antechamber/console"
	"github.com/sunfoxy2k/antechamber/llm"
	"github.com/sunfoxy2k/antechamber/metrics"
	"github.com/sunfoxy2k/antechamber/pipeline"
	"github.com/sunfoxy2k/antechamber/source"
	"github.com/sunfoxy2k/antechamber/validation"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "antechamber"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// appContext carries the resolved dependencies for one command invocation.
type appContext struct {
	cfg     *config.Config
	store   *block.Store
	pipe    *pipeline.Pipeline
	loader  *source.Loader
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath     string
	logLevel       string
	interactive    bool
	definitionsDir string
	metricsAddr    string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Staged system-prompt generator",
		Long: `Antechamber generates layered system prompts for AI agents.

Raw inspiration text is turned into user personas, then into a
block-annotated skeleton, then enriched with semantic tags, then expanded
into natural-language prose. Every stage validates its output against the
block grammar and retries with feedback until it conforms.

Inspiration arguments accept a file path, an HTTPS URL, or '-' for stdin.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&flags.interactive, "interactive", "i", false, "Solicit operator critique between iterations")
	cmd.PersistentFlags().StringVar(&flags.definitionsDir, "definitions", "", "Directory of block definition overlays")
	cmd.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9090)")

	cmd.AddCommand(
		runCmd(flags),
		contextCmd(flags),
		skeletonCmd(flags),
		tagCmd(flags),
		populateCmd(flags),
		enrichCmd(flags),
		formalizeCmd(flags),
		formatCmd(flags),
		definitionsCmd(flags),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// setup resolves configuration and builds the pipeline for a command.
func setup(flags *rootFlags) (*appContext, error) {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(flags, logger)
	if err != nil {
		return nil, err
	}

	store, err := loadStore(flags, cfg)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if flags.metricsAddr != "" {
		registry := prometheus.NewRegistry()
		m = metrics.New(registry)
		go serveMetrics(flags.metricsAddr, registry, logger)
	}

	client := llm.NewClient(
		llm.EndpointConfig{Provider: cfg.Model.Provider, BaseURL: cfg.Model.Endpoint},
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	)

	opts := []pipeline.Option{
		pipeline.WithModel(pipeline.ModelConfig{
			Model:           cfg.Model.Name,
			Temperature:     &cfg.Model.Temperature,
			MaxTokens:       cfg.Model.MaxTokens,
			ReasoningEffort: cfg.Model.ReasoningEffort,
			Verbosity:       cfg.Model.Verbosity,
		}),
		pipeline.WithValidationOptions(validation.Options{
			MinParagraphs:        cfg.Pipeline.MinParagraphs,
			MaxParagraphs:        cfg.Pipeline.MaxParagraphs,
			MinComplexParagraphs: cfg.Pipeline.MinComplexParagraphs,
			MinDistinctComplex:   cfg.Pipeline.MinDistinctComplex,
			ContextCount:         cfg.Pipeline.ContextCount,
			StrictVocabulary:     cfg.Pipeline.StrictVocabulary,
		}),
		pipeline.WithRetryConfig(pipeline.RetryConfig{
			MaxRetries:           cfg.Pipeline.MaxRetries,
			FeedValidationErrors: cfg.Pipeline.FeedRetryErrors,
		}),
		pipeline.WithStageIterations(pipeline.StageIterations{
			Context:   cfg.Pipeline.ContextIterations,
			Skeleton:  cfg.Pipeline.MaxIterations,
			Complex:   cfg.Pipeline.MaxIterations,
			Populate:  cfg.Pipeline.MaxIterations,
			Enrich:    cfg.Pipeline.EnrichIterations,
			Formalize: cfg.Pipeline.MaxIterations,
		}),
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(m),
	}
	if flags.interactive {
		opts = append(opts,
			pipeline.WithCritic(console.New()),
			pipeline.WithNotifier(console.NewBellNotifier()),
		)
	}

	return &appContext{
		cfg:     cfg,
		store:   store,
		pipe:    pipeline.New(client, store, opts...),
		loader:  source.NewLoader(),
		logger:  logger,
		metrics: m,
	}, nil
}

func newLogger(level string) *slog.Logger {
	l := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func loadConfig(flags *rootFlags, logger *slog.Logger) (*config.Config, error) {
	if flags.configPath != "" {
		cfg, err := config.LoadFromFile(flags.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

func loadStore(flags *rootFlags, cfg *config.Config) (*block.Store, error) {
	dir := flags.definitionsDir
	if dir == "" {
		dir = cfg.Definitions.Dir
	}
	if dir == "" {
		return block.NewStore(), nil
	}
	return block.LoadDir(dir)
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}

// emit writes a stage result to stdout and reports degraded output on
// stderr. The pipeline always returns a string; validity is advisory.
func emit(result string, res validation.Result) {
	if !res.Valid {
		fmt.Fprintf(os.Stderr, "warning: output did not fully validate: %s\n",
			validation.FormatErrors(res.Errors))
	}
	fmt.Println(result)
}
