package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/siherrmann/assessor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps texts containing a marker word onto a fixed axis.
func axisEmbedder(calls *int) EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if calls != nil {
			*calls++
		}
		switch {
		case contains(text, "fail"):
			return nil, errors.New("embedding backend down")
		case contains(text, "code"):
			return []float32{1, 0, 0}, nil
		case contains(text, "reason"):
			return []float32{0, 1, 0}, nil
		case contains(text, "mixed"):
			return []float32{0.8, 0.6, 0}, nil
		case contains(text, "close"):
			return []float32{0.7, 0.68, 0}, nil
		default:
			return []float32{0, 0, 1}, nil
		}
	}
}

func contains(text, word string) bool {
	for i := 0; i+len(word) <= len(text); i++ {
		if text[i:i+len(word)] == word {
			return true
		}
	}
	return false
}

func exemplarTaxonomy() model.Taxonomy {
	return model.Taxonomy{
		{Name: model.IntentTechnical, Exemplars: []string{"write code", "code review"}},
		{Name: model.IntentCognitive, Exemplars: []string{"reason about numbers"}},
		{Name: model.IntentLanguage},
	}
}

func TestNewExemplarClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Embeds every exemplar once", func(t *testing.T) {
		calls := 0
		classifier, err := NewExemplarClassifier(ctx, exemplarTaxonomy(), axisEmbedder(&calls), model.IntentGeneral, 0.5, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Len(t, classifier.centroids, 2, "Expected intents without exemplars to be skipped")
	})

	t.Run("Nil embedder", func(t *testing.T) {
		_, err := NewExemplarClassifier(ctx, exemplarTaxonomy(), nil, model.IntentGeneral, 0.5, nil)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("Exemplar embedding failure", func(t *testing.T) {
		taxonomy := model.Taxonomy{{Name: "broken", Exemplars: []string{"fail"}}}
		_, err := NewExemplarClassifier(ctx, taxonomy, axisEmbedder(nil), model.IntentGeneral, 0.5, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "embedding backend down")
	})

	t.Run("No exemplars at all", func(t *testing.T) {
		_, err := NewExemplarClassifier(ctx, model.Taxonomy{{Name: "a"}}, axisEmbedder(nil), model.IntentGeneral, 0.5, nil)
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestExemplarClassifierInferIntent(t *testing.T) {
	ctx := context.Background()
	classifier, err := NewExemplarClassifier(ctx, exemplarTaxonomy(), axisEmbedder(nil), model.IntentGeneral, 0.5, nil)
	require.NoError(t, err)

	t.Run("Closest centroid wins", func(t *testing.T) {
		result := classifier.InferIntent(ctx, "needs to code in go")

		assert.Equal(t, model.IntentTechnical, result.Primary)
		assert.False(t, result.Degraded)
		assert.Equal(t, 1.0, result.Weight(model.IntentTechnical))
	})

	t.Run("Weights are shared within the margin of the best", func(t *testing.T) {
		result := classifier.InferIntent(ctx, "close call")

		assert.Equal(t, model.IntentTechnical, result.Primary)
		assert.InDelta(t, 0.7/1.38, result.Weight(model.IntentTechnical), 1e-6)
		assert.InDelta(t, 0.68/1.38, result.Weight(model.IntentCognitive), 1e-6)
	})

	t.Run("Intents far below the best get no weight", func(t *testing.T) {
		result := classifier.InferIntent(ctx, "mixed profile")

		assert.Equal(t, model.IntentTechnical, result.Primary)
		assert.Equal(t, 1.0, result.Weight(model.IntentTechnical), "Expected a clear winner to keep the whole weight")
		assert.Zero(t, result.Weight(model.IntentCognitive))
	})

	t.Run("Low confidence falls back to the default intent", func(t *testing.T) {
		result := classifier.InferIntent(ctx, "unrelated")

		assert.Equal(t, model.IntentGeneral, result.Primary)
		assert.True(t, result.Degraded)
	})

	t.Run("Embedding failure falls back to the default intent", func(t *testing.T) {
		result := classifier.InferIntent(ctx, "fail please")

		assert.Equal(t, model.IntentGeneral, result.Primary)
		assert.True(t, result.Degraded)
	})

	t.Run("Empty query", func(t *testing.T) {
		assert.True(t, classifier.InferIntent(ctx, " ").Degraded)
	})
}
