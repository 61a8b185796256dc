package pipeline

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/assessor/helper"
)

// DefaultModelName is the sentence transformer used by DefaultEmbedder.
const DefaultModelName = "sentence-transformers/all-MiniLM-L6-v2"

// DefaultEmbeddingDim is the embedding size of DefaultModelName.
const DefaultEmbeddingDim = 384

// DefaultEmbedder creates an embedder using a real sentence transformer model
// Uses the all-MiniLM-L6-v2 model which produces 384-dimensional embeddings
func DefaultEmbedder() (EmbedFunc, error) {
	modelPath, err := helper.PrepareModel(DefaultModelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "assessor-embedder",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	var mu sync.Mutex
	type result struct {
		embedding []float32
		err       error
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// inference is not cancellable, the caller stops waiting on ctx instead
		done := make(chan result, 1)
		go func() {
			mu.Lock()
			defer mu.Unlock()
			output, err := sentencePipeline.RunPipeline([]string{text})
			if err != nil {
				done <- result{err: fmt.Errorf("failed to generate embedding: %w", err)}
				return
			}
			if len(output.Embeddings) == 0 {
				done <- result{err: fmt.Errorf("no embedding generated")}
				return
			}
			done <- result{embedding: output.Embeddings[0]}
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case r := <-done:
			return r.embedding, r.err
		}
	}, nil
}

// CachedEmbedder wraps embed with an LRU cache of the given size keyed by
// the normalized text. Failed embeddings are not cached.
func CachedEmbedder(embed EmbedFunc, size int) (EmbedFunc, error) {
	if embed == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		key := helper.NormalizeText(text)
		if cached, ok := cache.Get(key); ok {
			return append([]float32(nil), cached...), nil
		}

		embedding, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		cache.Add(key, append([]float32(nil), embedding...))
		return embedding, nil
	}, nil
}
