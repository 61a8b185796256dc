package model

import (
	"fmt"
	"time"
)

// RecommendConfig holds the tunables of the recommendation pipeline.
type RecommendConfig struct {
	// PoolSize is the number of candidates retrieved before reranking.
	PoolSize int `json:"pool_size" mapstructure:"pool_size"`
	// IntentBoost scales the intent affinity added to the rank score.
	IntentBoost float64 `json:"intent_boost" mapstructure:"intent_boost"`
	// MismatchPenalty is subtracted for entries matching none of a specific intent's test types.
	MismatchPenalty float64       `json:"mismatch_penalty" mapstructure:"mismatch_penalty"`
	Timeout         time.Duration `json:"timeout" mapstructure:"timeout"`
	DefaultIntent   Intent        `json:"default_intent" mapstructure:"default_intent"`
}

// DefaultRecommendConfig returns the configuration used by the service.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		PoolSize:        10,
		IntentBoost:     1.0,
		MismatchPenalty: 0.25,
		Timeout:         10 * time.Second,
		DefaultIntent:   IntentGeneral,
	}
}

// Validate checks the configuration and wraps ErrValidation on failure.
func (c RecommendConfig) Validate() error {
	switch {
	case c.PoolSize <= 0:
		return fmt.Errorf("%w: pool size must be positive, got %d", ErrValidation, c.PoolSize)
	case c.IntentBoost < 0:
		return fmt.Errorf("%w: intent boost must not be negative, got %v", ErrValidation, c.IntentBoost)
	case c.MismatchPenalty < 0:
		return fmt.Errorf("%w: mismatch penalty must not be negative, got %v", ErrValidation, c.MismatchPenalty)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrValidation, c.Timeout)
	case c.DefaultIntent == "":
		return fmt.Errorf("%w: default intent must be set", ErrValidation)
	}
	return nil
}
