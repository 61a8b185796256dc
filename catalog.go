package assessor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/siherrmann/assessor/core/pipeline"
	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

// ReadCatalog decodes a JSON array of assessments. Positions follow the
// array order.
func ReadCatalog(r io.Reader) ([]*model.Assessment, error) {
	var assessments []*model.Assessment
	err := json.NewDecoder(r).Decode(&assessments)
	if err != nil {
		return nil, helper.NewError("decode catalog", err)
	}

	for i, a := range assessments {
		if a == nil {
			return nil, helper.NewError("decode catalog", fmt.Errorf("%w: entry %d is null", model.ErrValidation, i))
		}
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.URL) == "" {
			return nil, helper.NewError("decode catalog", fmt.Errorf("%w: entry %d needs assessment_name and url", model.ErrValidation, i))
		}
		a.Position = i
	}
	return assessments, nil
}

// ReadCatalogFile reads a catalog JSON file.
func ReadCatalogFile(path string) ([]*model.Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, helper.NewError("open catalog", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// EmbedCatalog fills missing embeddings from the assessment name and description.
func EmbedCatalog(ctx context.Context, assessments []*model.Assessment, embed pipeline.EmbedFunc) error {
	for _, a := range assessments {
		if a == nil || len(a.Embedding) > 0 {
			continue
		}
		text := strings.TrimSpace(a.Name + ". " + a.Description)
		embedding, err := embed(ctx, text)
		if err != nil {
			return helper.NewError(fmt.Sprintf("embed assessment %d", a.Position), err)
		}
		a.Embedding = embedding
	}
	return nil
}
