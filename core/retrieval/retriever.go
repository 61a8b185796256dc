package retrieval

import (
	"context"
	"fmt"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// Index returns the catalog positions of the k nearest neighbors of an
// embedding, most similar first.
type Index interface {
	Search(ctx context.Context, embedding []float32, k int) ([]int, error)
}

// Catalog resolves catalog positions to assessments.
type Catalog interface {
	Lookup(ctx context.Context, position int) (*model.Assessment, error)
	Size(ctx context.Context) (int, error)
}

// Retriever builds the candidate pool for a query embedding.
type Retriever struct {
	index   Index
	catalog Catalog
}

// NewRetriever creates a retriever over an index and the catalog it was built from.
func NewRetriever(index Index, catalog Catalog) (*Retriever, error) {
	if index == nil || catalog == nil {
		return nil, helper.NewError("retriever validation", fmt.Errorf("%w: index and catalog are required", model.ErrValidation))
	}
	return &Retriever{index: index, catalog: catalog}, nil
}

// Size returns the number of catalog entries.
func (r *Retriever) Size(ctx context.Context) (int, error) {
	size, err := r.catalog.Size(ctx)
	if err != nil {
		return 0, helper.NewError("catalog size", unavailable(err))
	}
	return size, nil
}

// Retrieve returns min(poolSize, catalog size) candidates in index order.
// Duplicate positions returned by the index are dropped. An index that
// returns fewer distinct positions fails with ErrRetrievalUnavailable.
func (r *Retriever) Retrieve(ctx context.Context, embedding []float32, poolSize int) (model.CandidatePool, error) {
	size, err := r.Size(ctx)
	if err != nil {
		return nil, err
	}
	return r.RetrieveSized(ctx, embedding, poolSize, size)
}

// RetrieveSized is Retrieve with a catalog size the caller already read.
func (r *Retriever) RetrieveSized(ctx context.Context, embedding []float32, poolSize int, size int) (model.CandidatePool, error) {
	if poolSize <= 0 {
		return nil, helper.NewError("retrieve", fmt.Errorf("%w: pool size must be positive, got %d", model.ErrValidation, poolSize))
	}
	if size == 0 {
		return model.CandidatePool{}, nil
	}
	if len(embedding) == 0 {
		return nil, helper.NewError("retrieve", unavailable(fmt.Errorf("query embedding is empty")))
	}

	k := min(poolSize, size)
	positions, err := r.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, helper.NewError("index search", unavailable(err))
	}

	pool := make(model.CandidatePool, 0, k)
	seen := make(map[int]bool, len(positions))
	for _, position := range positions {
		if len(pool) == k {
			break
		}
		if seen[position] {
			continue
		}
		seen[position] = true

		assessment, err := r.catalog.Lookup(ctx, position)
		if err != nil {
			return nil, helper.NewError(fmt.Sprintf("lookup position %d", position), unavailable(err))
		}
		pool = append(pool, &model.Candidate{
			Assessment: assessment,
			Rank:       len(pool),
		})
	}
	if len(pool) < k {
		return nil, helper.NewError("index search", unavailable(fmt.Errorf("index returned %d of %d candidates", len(pool), k)))
	}

	return pool, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", model.ErrRetrievalUnavailable, err)
}
