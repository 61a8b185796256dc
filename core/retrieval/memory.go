package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// MemoryCatalog is a slice backed catalog. Positions must be 0..n-1.
type MemoryCatalog struct {
	assessments []*model.Assessment
}

// NewMemoryCatalog orders the assessments by position and checks that the
// positions are dense and unique.
func NewMemoryCatalog(assessments []*model.Assessment) (*MemoryCatalog, error) {
	ordered := make([]*model.Assessment, len(assessments))
	for _, a := range assessments {
		if a == nil {
			return nil, helper.NewError("catalog validation", fmt.Errorf("%w: nil assessment", model.ErrValidation))
		}
		if a.Position < 0 || a.Position >= len(assessments) {
			return nil, helper.NewError("catalog validation", fmt.Errorf("%w: position %d out of range [0, %d)", model.ErrValidation, a.Position, len(assessments)))
		}
		if ordered[a.Position] != nil {
			return nil, helper.NewError("catalog validation", fmt.Errorf("%w: duplicate position %d", model.ErrValidation, a.Position))
		}
		ordered[a.Position] = a
	}
	return &MemoryCatalog{assessments: ordered}, nil
}

// Lookup returns the assessment at position.
func (c *MemoryCatalog) Lookup(ctx context.Context, position int) (*model.Assessment, error) {
	if position < 0 || position >= len(c.assessments) {
		return nil, fmt.Errorf("position %d out of range [0, %d)", position, len(c.assessments))
	}
	return c.assessments[position], nil
}

// Size returns the number of entries.
func (c *MemoryCatalog) Size(ctx context.Context) (int, error) {
	return len(c.assessments), nil
}

// MemoryIndex performs exact cosine search over the catalog embeddings.
type MemoryIndex struct {
	dim     int
	vectors map[int][]float32
}

// NewMemoryIndex indexes every assessment. All embeddings must be set and
// share one dimension, so the index covers the whole catalog.
func NewMemoryIndex(assessments []*model.Assessment) (*MemoryIndex, error) {
	index := &MemoryIndex{vectors: make(map[int][]float32, len(assessments))}
	for i, a := range assessments {
		if a == nil {
			return nil, helper.NewError("index validation", fmt.Errorf("%w: entry %d is nil", model.ErrValidation, i))
		}
		if len(a.Embedding) == 0 {
			return nil, helper.NewError("index validation", fmt.Errorf("%w: position %d has no embedding", model.ErrValidation, a.Position))
		}
		if index.dim == 0 {
			index.dim = len(a.Embedding)
		} else if len(a.Embedding) != index.dim {
			return nil, helper.NewError("index validation", fmt.Errorf("%w: position %d has %d dimensions, expected %d", model.ErrValidation, a.Position, len(a.Embedding), index.dim))
		}
		index.vectors[a.Position] = a.Embedding
	}
	return index, nil
}

// Search ranks all vectors by cosine similarity. Ties are ordered by
// ascending position.
func (i *MemoryIndex) Search(ctx context.Context, embedding []float32, k int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(i.vectors) > 0 && len(embedding) != i.dim {
		return nil, fmt.Errorf("query embedding has %d dimensions, expected %d", len(embedding), i.dim)
	}

	type scored struct {
		position   int
		similarity float64
	}
	scores := make([]scored, 0, len(i.vectors))
	for position, vector := range i.vectors {
		scores = append(scores, scored{position: position, similarity: helper.CosineSimilarity(embedding, vector)})
	}
	sort.Slice(scores, func(a, b int) bool {
		if scores[a].similarity != scores[b].similarity {
			return scores[a].similarity > scores[b].similarity
		}
		return scores[a].position < scores[b].position
	})

	k = min(k, len(scores))
	positions := make([]int, 0, k)
	for _, s := range scores[:k] {
		positions = append(positions, s.position)
	}
	return positions, nil
}
