package retrieval

import (
	"fmt"
	"sort"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// Reranker orders a candidate pool for an intent and truncates it to topK.
// Implementations must not mutate the pool.
type Reranker interface {
	Rerank(pool model.CandidatePool, intent model.QueryIntent, topK int) ([]*model.Candidate, error)
}

// IntentReranker promotes candidates whose test types fit the query intent.
//
// The score of a candidate is (n-rank)/n plus Boost times its intent
// affinity. For a specific intent, candidates without any affinity lose
// MismatchPenalty and are ordered after every matching candidate, whatever
// the weights of the matched labels.
type IntentReranker struct {
	Boost           float64
	MismatchPenalty float64
	DefaultIntent   model.Intent
	Taxonomy        model.Taxonomy
}

// NewIntentReranker creates a reranker from the recommendation config.
func NewIntentReranker(config model.RecommendConfig, taxonomy model.Taxonomy) (*IntentReranker, error) {
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("config validation", err)
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, helper.NewError("taxonomy validation", err)
	}
	return &IntentReranker{
		Boost:           config.IntentBoost,
		MismatchPenalty: config.MismatchPenalty,
		DefaultIntent:   config.DefaultIntent,
		Taxonomy:        taxonomy,
	}, nil
}

// Rerank returns at most topK copies of the pool candidates with Score and
// IntentMatch filled. Matching candidates come first, then the rest by
// score. Equal scores keep similarity order.
func (r *IntentReranker) Rerank(pool model.CandidatePool, intent model.QueryIntent, topK int) ([]*model.Candidate, error) {
	if topK <= 0 {
		return nil, helper.NewError("rerank", fmt.Errorf("%w: top_k must be positive, got %d", model.ErrValidation, topK))
	}

	specific := intent.Primary != "" && intent.Primary != r.DefaultIntent && !intent.Degraded
	n := float64(len(pool))

	ranked := make([]*model.Candidate, len(pool))
	for i, c := range pool {
		cp := c.Copy()
		cp.Score = (n - float64(i)) / n
		cp.IntentMatch = 0
		if specific {
			cp.IntentMatch = r.affinity(cp.Assessment, intent)
			cp.Score += r.Boost * cp.IntentMatch
			if cp.IntentMatch == 0 {
				cp.Score -= r.MismatchPenalty
			}
		}
		ranked[i] = cp
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		if specific {
			matchA, matchB := ranked[a].IntentMatch > 0, ranked[b].IntentMatch > 0
			if matchA != matchB {
				return matchA
			}
		}
		return ranked[a].Score > ranked[b].Score
	})

	return ranked[:min(topK, len(ranked))], nil
}

// affinity sums the weights of the intent labels the assessment fits.
func (r *IntentReranker) affinity(assessment *model.Assessment, intent model.QueryIntent) float64 {
	testTypes := assessment.TestTypes()
	affinity := 0.0
	for _, def := range r.Taxonomy {
		weight := intent.Weight(def.Name)
		if weight > 0 && def.Matches(testTypes) {
			affinity += weight
		}
	}
	return affinity
}

// SimilarityReranker keeps the similarity order and only truncates.
type SimilarityReranker struct{}

// Rerank returns copies of the first topK candidates.
func (SimilarityReranker) Rerank(pool model.CandidatePool, intent model.QueryIntent, topK int) ([]*model.Candidate, error) {
	if topK <= 0 {
		return nil, helper.NewError("rerank", fmt.Errorf("%w: top_k must be positive, got %d", model.ErrValidation, topK))
	}

	n := float64(len(pool))
	k := min(topK, len(pool))
	result := make([]*model.Candidate, k)
	for i := 0; i < k; i++ {
		result[i] = pool[i].Copy()
		result[i].Score = (n - float64(i)) / n
	}
	return result, nil
}
