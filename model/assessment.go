package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/assessor/helper"
)

// Assessment is a single catalog entry. Its Position is the positional
// index the vector index returns and is the identity used across the core.
type Assessment struct {
	ID          int       `json:"id"`
	Position    int       `json:"position"`
	RID         uuid.UUID `json:"rid"`
	Name        string    `json:"assessment_name"`
	URL         string    `json:"url"`
	TestType    string    `json:"test_type"`
	Description string    `json:"description,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TestTypes splits the test type label set ("A, P", "Knowledge & Skills")
// into normalized tokens. Empty labels are dropped.
func (a *Assessment) TestTypes() []string {
	if a == nil {
		return nil
	}
	parts := strings.FieldsFunc(a.TestType, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '/'
	})
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := helper.NormalizeText(p); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// Recommendation projects the entry to the fields returned to callers.
func (a *Assessment) Recommendation() Recommendation {
	return Recommendation{
		AssessmentName: a.Name,
		URL:            a.URL,
		TestType:       a.TestType,
	}
}

// Recommendation is the public projection of a recommended assessment.
type Recommendation struct {
	AssessmentName string `json:"assessment_name"`
	URL            string `json:"url"`
	TestType       string `json:"test_type"`
}
