package retrieval

import (
	"context"
	"testing"

	"github.com/siherrmann/assessor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultReranker(t *testing.T) *IntentReranker {
	t.Helper()
	reranker, err := NewIntentReranker(model.DefaultRecommendConfig(), model.DefaultTaxonomy())
	require.NoError(t, err)
	return reranker
}

func cognitiveIntent() model.QueryIntent {
	return model.QueryIntent{
		Primary: model.IntentCognitive,
		Weights: map[model.Intent]float64{model.IntentCognitive: 1},
	}
}

func poolOf(t *testing.T, n int, testTypes map[int]string, poolSize int) model.CandidatePool {
	t.Helper()
	pool, err := newMemoryRetriever(t, fanCatalog(n, testTypes)).Retrieve(context.Background(), queryVector, poolSize)
	require.NoError(t, err)
	return pool
}

func TestNewIntentReranker(t *testing.T) {
	config := model.DefaultRecommendConfig()
	config.IntentBoost = -1
	_, err := NewIntentReranker(config, model.DefaultTaxonomy())
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestIntentRerankerRerank(t *testing.T) {
	reranker := newDefaultReranker(t)

	t.Run("Cognitive query over 12 entries with 4 cognitive", func(t *testing.T) {
		cognitive := map[int]string{2: "A", 5: "A, P", 8: "Ability & Aptitude", 11: "A"}
		pool := poolOf(t, 12, cognitive, 10)
		require.Len(t, pool, 10)

		result, err := reranker.Rerank(pool, cognitiveIntent(), 3)
		require.NoError(t, err)
		require.Len(t, result, 3)
		for _, c := range result {
			assert.Contains(t, []int{2, 5, 8}, c.Assessment.Position, "Expected only cognitive entries")
			assert.Equal(t, 1.0, c.IntentMatch)
		}
		assert.Equal(t, []int{2, 5, 8}, model.CandidatePool(result).Positions(), "Expected matching entries to keep similarity order")
	})

	t.Run("Fills with next best by similarity when few entries match", func(t *testing.T) {
		pool := poolOf(t, 8, map[int]string{6: "A"}, 8)

		result, err := reranker.Rerank(pool, cognitiveIntent(), 3)
		require.NoError(t, err)
		assert.Equal(t, []int{6, 0, 1}, model.CandidatePool(result).Positions())
	})

	t.Run("Default intent keeps similarity order", func(t *testing.T) {
		pool := poolOf(t, 8, map[int]string{6: "A"}, 8)

		result, err := reranker.Rerank(pool, model.DefaultQueryIntent(model.IntentGeneral), 4)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, model.CandidatePool(result).Positions())
	})

	t.Run("Degraded intent keeps similarity order", func(t *testing.T) {
		pool := poolOf(t, 8, map[int]string{6: "A"}, 8)
		degraded := cognitiveIntent()
		degraded.Degraded = true

		result, err := reranker.Rerank(pool, degraded, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, model.CandidatePool(result).Positions())
	})

	t.Run("Weighted intents add partial affinity", func(t *testing.T) {
		pool := poolOf(t, 4, map[int]string{1: "P"}, 4)
		mixed := model.QueryIntent{
			Primary: model.IntentTechnical,
			Weights: map[model.Intent]float64{model.IntentTechnical: 0.75, model.IntentPersonality: 0.25},
		}

		result, err := reranker.Rerank(pool, mixed, 4)
		require.NoError(t, err)
		// scores: 0 -> 1.75, 1 -> 1.0, 2 -> 1.25, 3 -> 1.0; the tie keeps similarity order
		assert.Equal(t, []int{0, 2, 1, 3}, model.CandidatePool(result).Positions())
		assert.Equal(t, 0.25, result[2].IntentMatch)
		assert.Equal(t, 0.75, result[3].IntentMatch)
	})

	t.Run("Any matching entry outranks non-matching ones for mixed intents", func(t *testing.T) {
		types := map[int]string{}
		for i := 0; i < 12; i++ {
			types[i] = "P"
		}
		for _, i := range []int{6, 7, 8, 9} {
			types[i] = "A"
		}
		pool := poolOf(t, 12, types, 10)
		mixed := model.QueryIntent{
			Primary: model.IntentCognitive,
			Weights: map[model.Intent]float64{model.IntentCognitive: 0.6, model.IntentTechnical: 0.4},
		}

		result, err := reranker.Rerank(pool, mixed, 4)
		require.NoError(t, err)
		assert.Equal(t, []int{6, 7, 8, 9}, model.CandidatePool(result).Positions(), "Expected the deepest cognitive entry to beat the most similar personality entry")

		result, err = reranker.Rerank(pool, mixed, 6)
		require.NoError(t, err)
		assert.Equal(t, []int{6, 7, 8, 9, 0, 1}, model.CandidatePool(result).Positions(), "Expected the fill to follow similarity")
	})

	t.Run("Small boost still keeps matching entries first", func(t *testing.T) {
		config := model.DefaultRecommendConfig()
		config.IntentBoost = 0.1
		config.MismatchPenalty = 0
		small, err := NewIntentReranker(config, model.DefaultTaxonomy())
		require.NoError(t, err)

		pool := poolOf(t, 8, map[int]string{7: "A"}, 8)
		result, err := small.Rerank(pool, cognitiveIntent(), 2)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 0}, model.CandidatePool(result).Positions())
	})

	t.Run("Result is a subset of the pool and never padded", func(t *testing.T) {
		pool := poolOf(t, 3, nil, 10)

		result, err := reranker.Rerank(pool, cognitiveIntent(), 6)
		require.NoError(t, err)
		assert.Len(t, result, 3)
		assert.ElementsMatch(t, pool.Positions(), model.CandidatePool(result).Positions())
	})

	t.Run("Non-matching entries keep similarity order", func(t *testing.T) {
		pool := poolOf(t, 5, nil, 5)

		result, err := reranker.Rerank(pool, cognitiveIntent(), 5)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, model.CandidatePool(result).Positions())
	})

	t.Run("Pool is not mutated", func(t *testing.T) {
		pool := poolOf(t, 6, map[int]string{5: "A"}, 6)
		before := pool.Positions()

		result, err := reranker.Rerank(pool, cognitiveIntent(), 2)
		require.NoError(t, err)
		assert.Equal(t, before, pool.Positions())
		for _, c := range pool {
			assert.Zero(t, c.Score, "Expected pool candidates to be left untouched")
		}
		assert.NotSame(t, pool[5], result[0])
	})

	t.Run("Deterministic", func(t *testing.T) {
		pool := poolOf(t, 12, map[int]string{2: "A", 7: "A"}, 10)
		first, err := reranker.Rerank(pool, cognitiveIntent(), 5)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := reranker.Rerank(pool, cognitiveIntent(), 5)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("Empty pool", func(t *testing.T) {
		result, err := reranker.Rerank(model.CandidatePool{}, cognitiveIntent(), 3)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("Non-positive top_k is rejected", func(t *testing.T) {
		pool := poolOf(t, 3, nil, 3)
		for _, topK := range []int{0, -1} {
			result, err := reranker.Rerank(pool, cognitiveIntent(), topK)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Nil(t, result)
		}
	})
}

func TestSimilarityRerankerRerank(t *testing.T) {
	reranker := SimilarityReranker{}
	pool := poolOf(t, 5, map[int]string{4: "A"}, 5)

	result, err := reranker.Rerank(pool, cognitiveIntent(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, model.CandidatePool(result).Positions())
	assert.Greater(t, result[0].Score, result[1].Score)

	_, err = reranker.Rerank(pool, cognitiveIntent(), 0)
	assert.ErrorIs(t, err, model.ErrValidation)
}
