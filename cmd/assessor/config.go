package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/siherrmann/assessor/core/pipeline"
	"github.com/siherrmann/assessor/model"
	"github.com/siherrmann/assessor/server"
	"github.com/spf13/viper"
)

// Config is the complete CLI configuration.
type Config struct {
	// Catalog is a JSON catalog file. Empty means postgres.
	Catalog      string `mapstructure:"catalog"`
	EmbeddingDim int    `mapstructure:"embedding_dim"`
	CacheSize    int    `mapstructure:"cache_size"`
	// ExemplarConfidence enables the exemplar classifier when positive.
	ExemplarConfidence float64               `mapstructure:"exemplar_confidence"`
	Recommend          model.RecommendConfig `mapstructure:"recommend"`
	Server             server.Config         `mapstructure:"server"`
	Logging            LoggingConfig         `mapstructure:"logging"`
	// Taxonomy replaces the built-in labels when set.
	Taxonomy model.Taxonomy `mapstructure:"-"`
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// LoadConfig reads ./assessor.yaml (or cfgFile) and ASSESSOR_* env variables
// on top of the defaults.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("assessor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/assessor")
	}

	v.SetEnvPrefix("ASSESSOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	taxonomy, err := decodeTaxonomy(v.Get("taxonomy"))
	if err != nil {
		return nil, fmt.Errorf("decoding taxonomy: %w", err)
	}
	config.Taxonomy = taxonomy

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	recommend := model.DefaultRecommendConfig()
	srv := server.DefaultConfig()

	v.SetDefault("catalog", "")
	v.SetDefault("embedding_dim", pipeline.DefaultEmbeddingDim)
	v.SetDefault("cache_size", 1024)
	v.SetDefault("exemplar_confidence", 0.0)

	v.SetDefault("recommend.pool_size", recommend.PoolSize)
	v.SetDefault("recommend.intent_boost", recommend.IntentBoost)
	v.SetDefault("recommend.mismatch_penalty", recommend.MismatchPenalty)
	v.SetDefault("recommend.timeout", recommend.Timeout)
	v.SetDefault("recommend.default_intent", string(recommend.DefaultIntent))

	v.SetDefault("server.port", srv.Port)
	v.SetDefault("server.rate_limit", srv.RateLimit)
	v.SetDefault("server.burst", srv.Burst)
	v.SetDefault("server.shutdown_timeout", srv.ShutdownTimeout)

	v.SetDefault("logging.json", false)
	v.SetDefault("logging.debug", false)
}

// decodeTaxonomy decodes the list of label definitions of the config file.
func decodeTaxonomy(raw any) (model.Taxonomy, error) {
	if raw == nil {
		return nil, nil
	}

	var taxonomy model.Taxonomy
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &taxonomy,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return taxonomy, nil
}

func validate(config *Config) error {
	if config.EmbeddingDim <= 0 {
		return fmt.Errorf("%w: embedding_dim must be positive, got %d", model.ErrValidation, config.EmbeddingDim)
	}
	if config.CacheSize <= 0 {
		return fmt.Errorf("%w: cache_size must be positive, got %d", model.ErrValidation, config.CacheSize)
	}
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port %d", model.ErrValidation, config.Server.Port)
	}
	if err := config.Recommend.Validate(); err != nil {
		return err
	}
	if len(config.Taxonomy) > 0 {
		if err := config.Taxonomy.Validate(); err != nil {
			return err
		}
	}
	return nil
}
