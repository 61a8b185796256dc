package model

import (
	"fmt"

	"github.com/siherrmann/assessor/helper"
)

// Intent is a label describing what kind of assessment a query asks for.
type Intent string

const (
	IntentGeneral     Intent = "general"
	IntentTechnical   Intent = "technical"
	IntentCognitive   Intent = "cognitive"
	IntentPersonality Intent = "personality"
	IntentLanguage    Intent = "language"
	IntentSituational Intent = "situational"
	IntentSimulation  Intent = "simulation"
	IntentCompetency  Intent = "competency"
)

// QueryIntent is the result of classifying a query.
type QueryIntent struct {
	Primary Intent `json:"primary"`
	// Weights sum to 1 over the matched labels.
	Weights map[Intent]float64 `json:"weights"`
	// Degraded is set when the classifier fell back to the default intent.
	Degraded bool `json:"degraded"`
}

// DefaultQueryIntent returns a degraded intent pointing at the default label.
func DefaultQueryIntent(intent Intent) QueryIntent {
	return QueryIntent{
		Primary:  intent,
		Weights:  map[Intent]float64{intent: 1},
		Degraded: true,
	}
}

// Weight returns the weight of a label, 0 if absent.
func (q QueryIntent) Weight(intent Intent) float64 {
	return q.Weights[intent]
}

// IntentDefinition describes one label of a taxonomy.
type IntentDefinition struct {
	Name Intent `json:"name" mapstructure:"name"`
	// Keywords are single words or phrases matched on token boundaries.
	Keywords []string `json:"keywords" mapstructure:"keywords"`
	// TestTypes are the catalog test type labels compatible with this intent.
	TestTypes []string `json:"test_types" mapstructure:"test_types"`
	// Exemplars are sample queries used by embedding based classifiers.
	Exemplars []string `json:"exemplars,omitempty" mapstructure:"exemplars"`
}

// Matches reports whether any of the normalized test types is compatible
// with the definition.
func (d IntentDefinition) Matches(testTypes []string) bool {
	for _, want := range d.TestTypes {
		want = helper.NormalizeText(want)
		for _, got := range testTypes {
			if got == want {
				return true
			}
		}
	}
	return false
}

// Taxonomy is an ordered list of intent definitions. Order resolves ties.
type Taxonomy []IntentDefinition

// Definition looks up a label by name.
func (t Taxonomy) Definition(name Intent) (IntentDefinition, bool) {
	for _, d := range t {
		if d.Name == name {
			return d, true
		}
	}
	return IntentDefinition{}, false
}

// Validate checks that every label is named and unique.
func (t Taxonomy) Validate() error {
	seen := make(map[Intent]bool, len(t))
	for i, d := range t {
		if d.Name == "" {
			return fmt.Errorf("%w: taxonomy entry %d has no name", ErrValidation, i)
		}
		if seen[d.Name] {
			return fmt.Errorf("%w: duplicate taxonomy entry %q", ErrValidation, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// DefaultTaxonomy returns the built-in labels for SHL style test types.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		{
			Name: IntentTechnical,
			Keywords: []string{
				"java", "python", "sql", "javascript", "typescript", "c++", "c#", "golang",
				"developer", "programming", "programmer", "coding", "software", "engineer",
				"technical", "data analyst", "selenium", "excel", "knowledge", "hard skills",
			},
			TestTypes: []string{"k", "knowledge & skills", "knowledge and skills"},
			Exemplars: []string{
				"Looking for a Java developer who can write clean SQL queries",
				"Hiring a software engineer with strong programming knowledge",
			},
		},
		{
			Name: IntentCognitive,
			Keywords: []string{
				"cognitive", "aptitude", "reasoning", "numerical", "verbal", "logical",
				"analytical", "inductive", "deductive", "problem solving", "critical thinking",
				"ability", "intelligence",
			},
			TestTypes: []string{"a", "ability & aptitude", "ability and aptitude", "cognitive"},
			Exemplars: []string{
				"Need a test of numerical and verbal reasoning for graduates",
				"Assess analytical problem solving ability",
			},
		},
		{
			Name: IntentPersonality,
			Keywords: []string{
				"personality", "behavior", "behaviour", "behavioral", "behavioural", "traits",
				"culture fit", "teamwork", "collaboration", "motivation", "soft skills", "attitude",
			},
			TestTypes: []string{"p", "personality & behavior", "personality & behaviour", "personality and behavior"},
			Exemplars: []string{
				"Want to understand the personality and work style of candidates",
				"Screen for teamwork and culture fit",
			},
		},
		{
			Name: IntentLanguage,
			Keywords: []string{
				"english", "language", "grammar", "fluency", "spoken", "written communication",
				"communication skills", "vocabulary",
			},
			TestTypes: []string{"language"},
			Exemplars: []string{
				"Check the English language and communication skills of call center staff",
			},
		},
		{
			Name: IntentSituational,
			Keywords: []string{
				"situational", "judgement", "judgment", "scenario", "scenarios", "biodata",
				"customer service", "decision making",
			},
			TestTypes: []string{"b", "biodata & situational judgement", "biodata & situational judgment", "situational judgement"},
			Exemplars: []string{
				"Situational judgement test for customer service representatives",
			},
		},
		{
			Name: IntentSimulation,
			Keywords: []string{
				"simulation", "simulations", "simulated", "hands on", "real world", "work sample",
				"exercise", "exercises",
			},
			TestTypes: []string{"s", "simulations", "simulation", "e", "assessment exercises"},
			Exemplars: []string{
				"A hands on simulation of real world tasks",
			},
		},
		{
			Name: IntentCompetency,
			Keywords: []string{
				"competency", "competencies", "leadership", "management", "managerial",
				"manager", "360", "development",
			},
			TestTypes: []string{"c", "competencies", "d", "development & 360"},
			Exemplars: []string{
				"Evaluate leadership competencies for a senior manager role",
			},
		},
	}
}
