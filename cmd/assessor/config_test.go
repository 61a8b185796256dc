package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/siherrmann/assessor/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assessor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults without config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		config, err := LoadConfig(viper.New(), "")
		require.NoError(t, err, "Expected defaults to load")
		assert.Equal(t, model.DefaultRecommendConfig(), config.Recommend)
		assert.Equal(t, 384, config.EmbeddingDim)
		assert.Equal(t, 8000, config.Server.Port)
		assert.Empty(t, config.Taxonomy, "Expected no taxonomy override")
	})

	t.Run("Config file overrides", func(t *testing.T) {
		path := writeConfig(t, `
catalog: assessments.json
recommend:
  pool_size: 20
  intent_boost: 0.5
  timeout: 3s
server:
  port: 9000
  shutdown_timeout: 2s
taxonomy:
  - name: general
    keywords: [hire]
  - name: technical
    keywords: [java, sql]
    test_types: [K]
`)
		config, err := LoadConfig(viper.New(), path)
		require.NoError(t, err)
		assert.Equal(t, "assessments.json", config.Catalog)
		assert.Equal(t, 20, config.Recommend.PoolSize)
		assert.Equal(t, 0.5, config.Recommend.IntentBoost)
		assert.Equal(t, 0.25, config.Recommend.MismatchPenalty, "Expected unset keys to keep defaults")
		assert.Equal(t, 3*time.Second, config.Recommend.Timeout)
		assert.Equal(t, 9000, config.Server.Port)
		assert.Equal(t, 2*time.Second, config.Server.ShutdownTimeout)

		require.Len(t, config.Taxonomy, 2)
		assert.Equal(t, model.IntentTechnical, config.Taxonomy[1].Name)
		assert.Equal(t, []string{"java", "sql"}, config.Taxonomy[1].Keywords)
		assert.Equal(t, []string{"K"}, config.Taxonomy[1].TestTypes)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ASSESSOR_RECOMMEND_POOL_SIZE", "15")
		t.Setenv("ASSESSOR_SERVER_PORT", "8081")

		config, err := LoadConfig(viper.New(), "")
		require.NoError(t, err)
		assert.Equal(t, 15, config.Recommend.PoolSize)
		assert.Equal(t, 8081, config.Server.Port)
	})

	t.Run("Invalid recommend config", func(t *testing.T) {
		path := writeConfig(t, "recommend:\n  pool_size: 0\n")

		_, err := LoadConfig(viper.New(), path)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("Duplicate taxonomy label", func(t *testing.T) {
		path := writeConfig(t, "taxonomy:\n  - name: technical\n  - name: technical\n")

		_, err := LoadConfig(viper.New(), path)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("Unknown taxonomy field", func(t *testing.T) {
		path := writeConfig(t, "taxonomy:\n  - name: technical\n    keyword: [java]\n")

		_, err := LoadConfig(viper.New(), path)
		assert.Error(t, err, "Expected misspelled taxonomy fields to be rejected")
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := writeConfig(t, "recommend: [\n")

		_, err := LoadConfig(viper.New(), path)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("JSON handler", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, LoggingConfig{JSON: true}).Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("Debug level", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, LoggingConfig{Debug: true}).Debug("details")
		assert.Contains(t, buf.String(), "details")
	})

	t.Run("Info level hides debug", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger(&buf, LoggingConfig{}).Debug("details")
		assert.Empty(t, buf.String())
	})
}
