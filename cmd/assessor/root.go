package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/siherrmann/assessor"
	"github.com/siherrmann/assessor/core/pipeline"
	"github.com/siherrmann/assessor/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	jsonLogs  bool
	debugLogs bool
	cfg       *Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Intent-aware assessment recommender",
	Long: `assessor recommends catalog assessments for job descriptions.

The catalog is read from a JSON file (--catalog) or from postgres (DB_* env).

Example usage:
  assessor serve --catalog assessments.json
  assessor recommend --top-k 3 "Java developer who collaborates with business teams"
  assessor import assessments.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./assessor.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "log as JSON")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().String("catalog", "", "catalog JSON file, serves from memory instead of postgres")

	_ = viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("logging.json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("logging.debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() error {
	var err error
	cfg, err = LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	logger = newLogger(os.Stderr, cfg.Logging)
	logger.Debug("Configuration loaded",
		slog.String("catalog", cfg.Catalog),
		slog.Int("embedding_dim", cfg.EmbeddingDim),
		slog.Int("taxonomy_labels", len(cfg.Taxonomy)))
	return nil
}

func newLogger(w io.Writer, config LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	if config.JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(helper.NewPrettyHandler(w, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

// openAssessor builds a memory assessor when a catalog file is configured,
// a database assessor otherwise. Both use the default embedder.
func openAssessor(ctx context.Context) (*assessor.Assessor, error) {
	opts := []assessor.Option{
		assessor.WithLogger(logger),
		assessor.WithRecommendConfig(cfg.Recommend),
	}
	if len(cfg.Taxonomy) > 0 {
		opts = append(opts, assessor.WithTaxonomy(cfg.Taxonomy))
	}
	if cfg.ExemplarConfidence > 0 {
		opts = append(opts, assessor.WithExemplarClassifier(cfg.ExemplarConfidence))
	}

	if cfg.Catalog != "" {
		assessments, err := assessor.ReadCatalogFile(cfg.Catalog)
		if err != nil {
			return nil, err
		}
		embedder, err := pipeline.DefaultEmbedder()
		if err != nil {
			return nil, err
		}
		cached, err := pipeline.CachedEmbedder(embedder, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return assessor.NewMemoryAssessor(ctx, assessments, cached, opts...)
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("database configuration: %w", err)
	}
	a, err := assessor.NewAssessor(dbConfig, cfg.EmbeddingDim, opts...)
	if err != nil {
		return nil, err
	}
	err = a.UseDefaultEmbedder(ctx, cfg.CacheSize)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
