package helper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	t.Run("Folds case and collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "java developer with sql", NormalizeText("  Java\tDeveloper \n with   SQL "))
	})

	t.Run("Applies NFKC normalization", func(t *testing.T) {
		// full-width latin letters normalize to ASCII
		assert.Equal(t, "java", NormalizeText("ＪＡＶＡ"))
	})

	t.Run("Empty and whitespace-only input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeText(""))
		assert.Equal(t, "", NormalizeText(" \t\n "))
	})

	t.Run("Concurrent calls", func(t *testing.T) {
		inputs := []string{"Straße", "ＪＡＶＡ Developer", "Numerical REASONING", "Ǆemal"}
		expected := make([]string, len(inputs))
		for i, in := range inputs {
			expected[i] = NormalizeText(in)
		}

		var wg sync.WaitGroup
		for g := 0; g < 16; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					idx := i % len(inputs)
					assert.Equal(t, expected[idx], NormalizeText(inputs[idx]))
				}
			}()
		}
		wg.Wait()
	})
}

func TestTokenize(t *testing.T) {
	t.Run("Splits on punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"numerical", "reasoning", "verbal", "ability"}, Tokenize("Numerical-reasoning, verbal ability!"))
	})

	t.Run("Keeps language names with symbols", func(t *testing.T) {
		assert.Equal(t, []string{"c++", "and", "c#"}, Tokenize("C++ and C#"))
	})

	t.Run("No tokens for empty text", func(t *testing.T) {
		assert.Empty(t, Tokenize("   "))
	})
}
