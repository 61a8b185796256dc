package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// Classifier infers the intent of a query. It never fails: unusable input
// yields the default intent with Degraded set.
type Classifier interface {
	InferIntent(ctx context.Context, query string) model.QueryIntent
}

// EmbedFunc generates an embedding for text.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

type lexiconEntry struct {
	name     model.Intent
	keywords [][]string
}

// LexiconClassifier matches taxonomy keywords on token boundaries.
// It is immutable after construction and safe for concurrent use.
type LexiconClassifier struct {
	entries       []lexiconEntry
	defaultIntent model.Intent
}

// NewLexiconClassifier builds a classifier from an ordered taxonomy.
// Taxonomy order resolves ties between equally weighted intents.
func NewLexiconClassifier(taxonomy model.Taxonomy, defaultIntent model.Intent) (*LexiconClassifier, error) {
	if err := taxonomy.Validate(); err != nil {
		return nil, helper.NewError("taxonomy validation", err)
	}
	if defaultIntent == "" {
		return nil, helper.NewError("default intent validation", fmt.Errorf("%w: default intent must be set", model.ErrValidation))
	}

	entries := make([]lexiconEntry, 0, len(taxonomy))
	for _, def := range taxonomy {
		entry := lexiconEntry{name: def.Name}
		for _, keyword := range def.Keywords {
			if tokens := helper.Tokenize(keyword); len(tokens) > 0 {
				entry.keywords = append(entry.keywords, tokens)
			}
		}
		entries = append(entries, entry)
	}

	return &LexiconClassifier{
		entries:       entries,
		defaultIntent: defaultIntent,
	}, nil
}

// InferIntent counts the distinct keywords of every intent found in the
// query. Weights are hits divided by the total hits.
func (c *LexiconClassifier) InferIntent(ctx context.Context, query string) model.QueryIntent {
	tokens := helper.Tokenize(query)
	if len(tokens) == 0 {
		return model.DefaultQueryIntent(c.defaultIntent)
	}
	joined := " " + strings.Join(tokens, " ") + " "

	hits := make([]int, len(c.entries))
	total := 0
	for i, entry := range c.entries {
		for _, keyword := range entry.keywords {
			if strings.Contains(joined, " "+strings.Join(keyword, " ")+" ") {
				hits[i]++
			}
		}
		total += hits[i]
	}
	if total == 0 {
		return model.DefaultQueryIntent(c.defaultIntent)
	}

	result := model.QueryIntent{Weights: make(map[model.Intent]float64)}
	best := -1
	for i, entry := range c.entries {
		if hits[i] == 0 {
			continue
		}
		result.Weights[entry.name] = float64(hits[i]) / float64(total)
		if best < 0 || hits[i] > hits[best] {
			best = i
		}
	}
	result.Primary = c.entries[best].name

	return result
}
