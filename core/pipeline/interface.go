package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/assessor/core/intent"
	"github.com/siherrmann/assessor/core/retrieval"
	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// Pipeline combines embedding, retrieval, intent classification and
// reranking into recommendations. It holds no mutable state.
type Pipeline struct {
	Embedder   EmbedFunc
	Retriever  *retrieval.Retriever
	Classifier intent.Classifier
	Reranker   retrieval.Reranker
	Config     model.RecommendConfig
	log        *slog.Logger
}

// NewPipeline creates a new recommendation pipeline. A nil logger uses slog.Default.
func NewPipeline(embedder EmbedFunc, retriever *retrieval.Retriever, classifier intent.Classifier, reranker retrieval.Reranker, config model.RecommendConfig, logger *slog.Logger) (*Pipeline, error) {
	if embedder == nil || retriever == nil || classifier == nil || reranker == nil {
		return nil, helper.NewError("pipeline validation", fmt.Errorf("%w: embedder, retriever, classifier and reranker are required", model.ErrValidation))
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("config validation", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		Embedder:   embedder,
		Retriever:  retriever,
		Classifier: classifier,
		Reranker:   reranker,
		Config:     config,
		log:        logger,
	}, nil
}

// CatalogSize returns the number of assessments the pipeline recommends from.
func (p *Pipeline) CatalogSize(ctx context.Context) (int, error) {
	return p.Retriever.Size(ctx)
}
