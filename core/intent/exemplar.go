package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// ExemplarMargin is how far below the best similarity an intent may score
// and still share the weight.
const ExemplarMargin = 0.05

type centroid struct {
	name   model.Intent
	vector []float32
}

// ExemplarClassifier compares the query embedding with the centroid of
// each intent's exemplar sentences.
type ExemplarClassifier struct {
	embed         EmbedFunc
	centroids     []centroid
	defaultIntent model.Intent
	minConfidence float64
	logger        *slog.Logger
}

// NewExemplarClassifier embeds every exemplar once. Intents without
// exemplars are skipped. Similarities below minConfidence fall back to
// the default intent.
func NewExemplarClassifier(ctx context.Context, taxonomy model.Taxonomy, embed EmbedFunc, defaultIntent model.Intent, minConfidence float64, logger *slog.Logger) (*ExemplarClassifier, error) {
	if embed == nil {
		return nil, helper.NewError("embedder validation", fmt.Errorf("%w: embedder is nil", model.ErrValidation))
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, helper.NewError("taxonomy validation", err)
	}
	if defaultIntent == "" {
		return nil, helper.NewError("default intent validation", fmt.Errorf("%w: default intent must be set", model.ErrValidation))
	}
	if logger == nil {
		logger = slog.Default()
	}

	var centroids []centroid
	for _, def := range taxonomy {
		if len(def.Exemplars) == 0 {
			continue
		}
		vectors := make([][]float32, 0, len(def.Exemplars))
		for _, exemplar := range def.Exemplars {
			vector, err := embed(ctx, exemplar)
			if err != nil {
				return nil, helper.NewError(fmt.Sprintf("embed exemplar of %s", def.Name), err)
			}
			vectors = append(vectors, vector)
		}
		c := helper.Centroid(vectors)
		if c == nil {
			return nil, helper.NewError("centroid", fmt.Errorf("exemplars of %s have inconsistent dimensions", def.Name))
		}
		centroids = append(centroids, centroid{name: def.Name, vector: c})
	}
	if len(centroids) == 0 {
		return nil, helper.NewError("centroid", fmt.Errorf("%w: taxonomy has no exemplars", model.ErrValidation))
	}

	return &ExemplarClassifier{
		embed:         embed,
		centroids:     centroids,
		defaultIntent: defaultIntent,
		minConfidence: minConfidence,
		logger:        logger,
	}, nil
}

// InferIntent picks the intent with the most similar centroid. Intents at
// or above the confidence threshold and within ExemplarMargin of the best
// share the weight by similarity.
func (c *ExemplarClassifier) InferIntent(ctx context.Context, query string) model.QueryIntent {
	if strings.TrimSpace(query) == "" {
		return model.DefaultQueryIntent(c.defaultIntent)
	}

	vector, err := c.embed(ctx, query)
	if err != nil {
		c.logger.Warn("Intent classification degraded", slog.String("error", err.Error()))
		return model.DefaultQueryIntent(c.defaultIntent)
	}

	best := -1
	bestSimilarity := 0.0
	similarities := make([]float64, len(c.centroids))
	for i, ct := range c.centroids {
		similarities[i] = helper.CosineSimilarity(vector, ct.vector)
		if best < 0 || similarities[i] > bestSimilarity {
			best = i
			bestSimilarity = similarities[i]
		}
	}
	if bestSimilarity < c.minConfidence || bestSimilarity <= 0 {
		return model.DefaultQueryIntent(c.defaultIntent)
	}

	result := model.QueryIntent{
		Primary: c.centroids[best].name,
		Weights: make(map[model.Intent]float64),
	}
	floor := max(c.minConfidence, bestSimilarity-ExemplarMargin)
	total := 0.0
	for i := range c.centroids {
		if similarities[i] >= floor && similarities[i] > 0 {
			total += similarities[i]
		}
	}
	for i, ct := range c.centroids {
		if similarities[i] >= floor && similarities[i] > 0 {
			result.Weights[ct.name] = similarities[i] / total
		}
	}

	return result
}
