package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
	"golang.org/x/sync/errgroup"
)

// Recommend returns at most topK candidates for the query, ordered by the
// reranker. Retrieval and intent classification run concurrently, both
// bounded by Config.Timeout together with the catalog size check.
func (p *Pipeline) Recommend(ctx context.Context, query string, topK int) ([]*model.Candidate, error) {
	start := time.Now()

	if topK <= 0 {
		return nil, helper.NewError("recommend", fmt.Errorf("%w: top_k must be positive, got %d", model.ErrValidation, topK))
	}

	ctx, cancel := context.WithTimeout(ctx, p.Config.Timeout)
	defer cancel()

	size, err := p.Retriever.Size(ctx)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, helper.NewError("recommend", fmt.Errorf("%w: catalog is empty", model.ErrValidation))
	}

	var pool model.CandidatePool
	var queryIntent model.QueryIntent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		embedding, err := p.Embedder(gctx, query)
		if err != nil {
			return helper.NewError("embed query", fmt.Errorf("%w: %w", model.ErrRetrievalUnavailable, err))
		}
		pool, err = p.Retriever.RetrieveSized(gctx, embedding, p.Config.PoolSize, size)
		return err
	})
	g.Go(func() error {
		queryIntent = p.classify(gctx, query)
		return nil
	})
	if err := g.Wait(); err != nil {
		p.log.Warn("Recommendation failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))
		return nil, err
	}

	result, err := p.Reranker.Rerank(pool, queryIntent, topK)
	if err != nil {
		return nil, err
	}

	p.log.Info(
		"Recommendation served",
		slog.String("intent", string(queryIntent.Primary)),
		slog.Bool("degraded", queryIntent.Degraded),
		slog.Int("pool_size", len(pool)),
		slog.Int("results", len(result)),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// classify runs the classifier until ctx is done. A classifier that does not
// answer in time yields the degraded default intent.
func (p *Pipeline) classify(ctx context.Context, query string) model.QueryIntent {
	done := make(chan model.QueryIntent, 1)
	go func() {
		done <- p.Classifier.InferIntent(ctx, query)
	}()

	select {
	case queryIntent := <-done:
		return queryIntent
	case <-ctx.Done():
		p.log.Warn("Intent classification timed out", slog.String("error", ctx.Err().Error()))
		return model.DefaultQueryIntent(p.Config.DefaultIntent)
	}
}

// RecommendProjections returns the public projection of Recommend.
func (p *Pipeline) RecommendProjections(ctx context.Context, query string, topK int) ([]model.Recommendation, error) {
	candidates, err := p.Recommend(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	return model.Recommendations(candidates), nil
}
