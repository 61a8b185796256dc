package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	require.NoError(t, taxonomy.Validate(), "Expected default taxonomy to be valid")
	_, ok := taxonomy.Definition(IntentGeneral)
	assert.False(t, ok, "Expected the default intent to not be part of the taxonomy")

	cognitive, ok := taxonomy.Definition(IntentCognitive)
	require.True(t, ok)
	assert.True(t, cognitive.Matches([]string{"a"}))
	assert.True(t, cognitive.Matches([]string{"p", "ability & aptitude"}))
	assert.False(t, cognitive.Matches([]string{"k", "p"}))
}

func TestTaxonomyValidate(t *testing.T) {
	t.Run("Missing name", func(t *testing.T) {
		err := Taxonomy{{Keywords: []string{"x"}}}.Validate()
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("Duplicate name", func(t *testing.T) {
		err := Taxonomy{{Name: "a"}, {Name: "a"}}.Validate()
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Contains(t, err.Error(), "duplicate")
	})
}

func TestIntentDefinitionMatches(t *testing.T) {
	def := IntentDefinition{Name: "custom", TestTypes: []string{"Knowledge & Skills"}}

	assert.True(t, def.Matches((&Assessment{TestType: "knowledge & skills"}).TestTypes()), "Expected definition labels to be normalized")
	assert.False(t, def.Matches(nil))
}

func TestDefaultQueryIntent(t *testing.T) {
	qi := DefaultQueryIntent(IntentGeneral)

	assert.Equal(t, IntentGeneral, qi.Primary)
	assert.True(t, qi.Degraded)
	assert.Equal(t, 1.0, qi.Weight(IntentGeneral))
	assert.Zero(t, qi.Weight(IntentCognitive))
}

func TestRecommendConfigValidate(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		config := DefaultRecommendConfig()
		assert.NoError(t, config.Validate())
		assert.Equal(t, 10, config.PoolSize)
		assert.Equal(t, 10*time.Second, config.Timeout)
	})

	invalid := map[string]func(c *RecommendConfig){
		"zero pool size":   func(c *RecommendConfig) { c.PoolSize = 0 },
		"negative boost":   func(c *RecommendConfig) { c.IntentBoost = -1 },
		"negative penalty": func(c *RecommendConfig) { c.MismatchPenalty = -0.1 },
		"zero timeout":     func(c *RecommendConfig) { c.Timeout = 0 },
		"no default":       func(c *RecommendConfig) { c.DefaultIntent = "" },
	}
	for name, mutate := range invalid {
		t.Run("Invalid "+name, func(t *testing.T) {
			config := DefaultRecommendConfig()
			mutate(&config)
			assert.ErrorIs(t, config.Validate(), ErrValidation)
		})
	}
}
