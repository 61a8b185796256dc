package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
	loadSql "github.com/siherrmann/assessor/sql"
)

// AssessmentsDBHandlerFunctions defines the interface for assessment catalog operations.
type AssessmentsDBHandlerFunctions interface {
	InsertAssessment(ctx context.Context, assessment *model.Assessment) error
	Lookup(ctx context.Context, position int) (*model.Assessment, error)
	SelectAllAssessments(ctx context.Context) ([]*model.Assessment, error)
	Size(ctx context.Context) (int, error)
	Search(ctx context.Context, embedding []float32, k int) ([]int, error)
	DeleteAssessment(ctx context.Context, position int) error
}

// ErrAssessmentNotFound is returned when no assessment has the requested position.
var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentsDBHandler stores the assessment catalog in postgres and
// serves both the vector search and the positional lookup.
type AssessmentsDBHandler struct {
	db           *helper.Database
	embeddingDim int
}

// NewAssessmentsDBHandler creates a new assessments database handler.
// It loads the assessment SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewAssessmentsDBHandler(db *helper.Database, embeddingDim int, force bool) (*AssessmentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	assessmentsDbHandler := &AssessmentsDBHandler{
		db:           db,
		embeddingDim: embeddingDim,
	}

	err := loadSql.LoadAssessmentsSql(assessmentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load assessments sql", err)
	}

	err = assessmentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized AssessmentsDBHandler", slog.Int("embedding_dim", embeddingDim))

	return assessmentsDbHandler, nil
}

// CreateTable creates the 'assessments' table and its vector index.
// If the table already exists, it does not create it again.
func (h *AssessmentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_assessments($1);`, h.embeddingDim)
	if err != nil {
		log.Panicf("error initializing assessments table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table assessments")

	return nil
}

// InsertAssessment inserts an assessment or replaces the one at the same position.
func (h *AssessmentsDBHandler) InsertAssessment(ctx context.Context, assessment *model.Assessment) error {
	if assessment == nil {
		return helper.NewError("insert assessment", fmt.Errorf("assessment is nil"))
	}
	if len(assessment.Embedding) != h.embeddingDim {
		return helper.NewError("insert assessment", fmt.Errorf("%w: embedding has %d dimensions, expected %d", model.ErrValidation, len(assessment.Embedding), h.embeddingDim))
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_assessment($1, $2, $3, $4, $5, $6, $7)`,
		assessment.Position,
		assessment.Name,
		assessment.URL,
		assessment.TestType,
		assessment.Description,
		assessment.Metadata,
		pq.Array(assessment.Embedding),
	)

	err := scanAssessment(row, assessment)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// Lookup returns the assessment at the given catalog position.
func (h *AssessmentsDBHandler) Lookup(ctx context.Context, position int) (*model.Assessment, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_assessment_by_position($1)`,
		position,
	)

	assessment := &model.Assessment{}
	err := scanAssessment(row, assessment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("lookup", fmt.Errorf("%w: position %d", ErrAssessmentNotFound, position))
	} else if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return assessment, nil
}

// SelectAllAssessments returns the full catalog ordered by position.
func (h *AssessmentsDBHandler) SelectAllAssessments(ctx context.Context) ([]*model.Assessment, error) {
	rows, err := h.db.Instance.QueryContext(ctx, `SELECT * FROM select_all_assessments()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var assessments []*model.Assessment
	for rows.Next() {
		assessment := &model.Assessment{}
		err := scanAssessment(rows, assessment)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		assessments = append(assessments, assessment)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return assessments, nil
}

// Size returns the number of catalog entries.
func (h *AssessmentsDBHandler) Size(ctx context.Context) (int, error) {
	var count int
	err := h.db.Instance.QueryRowContext(ctx, `SELECT count_assessments()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("count", err)
	}
	return count, nil
}

// Search returns the positions of the k nearest assessments by cosine
// distance. Equal distances are ordered by position.
func (h *AssessmentsDBHandler) Search(ctx context.Context, embedding []float32, k int) ([]int, error) {
	if len(embedding) != h.embeddingDim {
		return nil, helper.NewError("search", fmt.Errorf("query embedding has %d dimensions, expected %d", len(embedding), h.embeddingDim))
	}
	if k <= 0 {
		return []int{}, nil
	}

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_assessments_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		k,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	positions := make([]int, 0, k)
	for rows.Next() {
		var position int
		var similarity float64
		err := rows.Scan(&position, &similarity)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		positions = append(positions, position)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return positions, nil
}

// DeleteAssessment removes the assessment at the given position.
func (h *AssessmentsDBHandler) DeleteAssessment(ctx context.Context, position int) error {
	_, err := h.db.Instance.ExecContext(ctx, `SELECT delete_assessment($1)`, position)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner, assessment *model.Assessment) error {
	return row.Scan(
		&assessment.ID,
		&assessment.Position,
		&assessment.RID,
		&assessment.Name,
		&assessment.URL,
		&assessment.TestType,
		&assessment.Description,
		&assessment.Metadata,
		pq.Array(&assessment.Embedding),
		&assessment.CreatedAt,
	)
}
