package model

// Candidate is a catalog entry retrieved for a query.
type Candidate struct {
	Assessment *Assessment `json:"assessment"`
	// Rank is the 0-based position in the similarity ordering of the pool.
	Rank        int     `json:"rank"`
	Score       float64 `json:"score"`
	IntentMatch float64 `json:"intent_match"`
}

// Copy returns a shallow copy sharing the immutable assessment.
func (c *Candidate) Copy() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// CandidatePool is ordered by descending similarity and holds every
// catalog position at most once.
type CandidatePool []*Candidate

// Positions returns the catalog positions in pool order.
func (p CandidatePool) Positions() []int {
	positions := make([]int, len(p))
	for i, c := range p {
		positions[i] = c.Assessment.Position
	}
	return positions
}

// Recommendations projects candidates to their public representation.
func Recommendations(candidates []*Candidate) []Recommendation {
	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, c.Assessment.Recommendation())
	}
	return recs
}
