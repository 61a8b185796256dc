package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/siherrmann/assessor/model"
	"github.com/stretchr/testify/require"
)

// fanCatalog returns n assessments whose embeddings fan out from the x axis
// in 5 degree steps, so similarity to queryVector decreases with position.
func fanCatalog(n int, testTypes map[int]string) []*model.Assessment {
	assessments := make([]*model.Assessment, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 5 * math.Pi / 180
		testType := "K"
		if tt, ok := testTypes[i]; ok {
			testType = tt
		}
		assessments[i] = &model.Assessment{
			Position:  i,
			Name:      fmt.Sprintf("Assessment %d", i),
			URL:       fmt.Sprintf("https://example.com/assessment-%d", i),
			TestType:  testType,
			Embedding: []float32{float32(math.Cos(angle)), float32(math.Sin(angle))},
		}
	}
	return assessments
}

var queryVector = []float32{1, 0}

func newMemoryRetriever(t *testing.T, assessments []*model.Assessment) *Retriever {
	t.Helper()
	catalog, err := NewMemoryCatalog(assessments)
	require.NoError(t, err)
	index, err := NewMemoryIndex(assessments)
	require.NoError(t, err)
	retriever, err := NewRetriever(index, catalog)
	require.NoError(t, err)
	return retriever
}

type stubIndex struct {
	positions []int
	err       error
	calls     int
}

func (s *stubIndex) Search(ctx context.Context, embedding []float32, k int) ([]int, error) {
	s.calls++
	return s.positions, s.err
}

type failingCatalog struct {
	*MemoryCatalog
	sizeErr   error
	lookupErr error
}

func (f *failingCatalog) Size(ctx context.Context) (int, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}
	return f.MemoryCatalog.Size(ctx)
}

func (f *failingCatalog) Lookup(ctx context.Context, position int) (*model.Assessment, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.MemoryCatalog.Lookup(ctx, position)
}

var errBackend = errors.New("backend down")
