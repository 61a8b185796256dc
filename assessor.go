package assessor

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/assessor/core/intent"
	"github.com/siherrmann/assessor/core/pipeline"
	"github.com/siherrmann/assessor/core/retrieval"
	"github.com/siherrmann/assessor/database"
	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
	loadSql "github.com/siherrmann/assessor/sql"
)

// Assessor recommends assessments for job descriptions. The catalog lives
// either in postgres (NewAssessor) or in memory (NewMemoryAssessor).
type Assessor struct {
	DB          *helper.Database
	Assessments *database.AssessmentsDBHandler
	Pipeline    *pipeline.Pipeline // Set by SetEmbedder or UseDefaultEmbedder in database mode
	Config      model.RecommendConfig
	Taxonomy    model.Taxonomy

	index   retrieval.Index
	catalog retrieval.Catalog
	embed   pipeline.EmbedFunc

	exemplarConfidence *float64
	// Logging
	log *slog.Logger
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithLogger sets the logger. The default logs pretty printed at info level to stdout.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assessor) {
		if logger != nil {
			a.log = logger
		}
	}
}

// WithRecommendConfig overrides the default recommendation config.
func WithRecommendConfig(config model.RecommendConfig) Option {
	return func(a *Assessor) { a.Config = config }
}

// WithTaxonomy overrides the default intent taxonomy.
func WithTaxonomy(taxonomy model.Taxonomy) Option {
	return func(a *Assessor) { a.Taxonomy = taxonomy }
}

// WithExemplarClassifier classifies intents by embedding similarity to the
// taxonomy exemplars instead of keyword matching.
func WithExemplarClassifier(minConfidence float64) Option {
	return func(a *Assessor) { a.exemplarConfidence = &minConfidence }
}

func newAssessor(opts []Option) (*Assessor, error) {
	a := &Assessor{
		Config:   model.DefaultRecommendConfig(),
		Taxonomy: model.DefaultTaxonomy(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = slog.New(helper.NewPrettyHandler(os.Stdout, helper.PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{
				Level: slog.LevelInfo,
			},
		}))
	}

	if err := a.Config.Validate(); err != nil {
		return nil, helper.NewError("recommend config", err)
	}
	if err := a.Taxonomy.Validate(); err != nil {
		return nil, helper.NewError("taxonomy", err)
	}
	return a, nil
}

// NewAssessor connects to postgres and prepares the assessment catalog table.
// Call SetEmbedder or UseDefaultEmbedder before recommending.
func NewAssessor(config *helper.DatabaseConfiguration, embeddingDim int, opts ...Option) (*Assessor, error) {
	a, err := newAssessor(opts)
	if err != nil {
		return nil, err
	}

	db := helper.NewDatabase("assessor", config, a.log)
	err = loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	assessments, err := database.NewAssessmentsDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create assessments handler", err)
	}

	a.DB = db
	a.Assessments = assessments
	a.index = assessments
	a.catalog = assessments

	return a, nil
}

// NewMemoryAssessor serves an in-memory catalog with exact cosine search.
// Assessments without embedding are embedded from their name and description.
func NewMemoryAssessor(ctx context.Context, assessments []*model.Assessment, embed pipeline.EmbedFunc, opts ...Option) (*Assessor, error) {
	a, err := newAssessor(opts)
	if err != nil {
		return nil, err
	}
	if embed == nil {
		return nil, helper.NewError("memory assessor", fmt.Errorf("%w: embedder is nil", model.ErrValidation))
	}

	err = EmbedCatalog(ctx, assessments, embed)
	if err != nil {
		return nil, err
	}

	catalog, err := retrieval.NewMemoryCatalog(assessments)
	if err != nil {
		return nil, helper.NewError("create memory catalog", err)
	}
	index, err := retrieval.NewMemoryIndex(assessments)
	if err != nil {
		return nil, helper.NewError("create memory index", err)
	}
	a.index = index
	a.catalog = catalog

	err = a.SetEmbedder(ctx, embed)
	if err != nil {
		return nil, err
	}

	a.log.Info("Loaded in-memory catalog", slog.Int("assessments", len(assessments)))

	return a, nil
}

// Close closes the database connection
func (a *Assessor) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// SetEmbedder builds the recommendation pipeline around embed.
func (a *Assessor) SetEmbedder(ctx context.Context, embed pipeline.EmbedFunc) error {
	if embed == nil {
		return helper.NewError("set embedder", fmt.Errorf("%w: embedder is nil", model.ErrValidation))
	}

	retriever, err := retrieval.NewRetriever(a.index, a.catalog)
	if err != nil {
		return helper.NewError("create retriever", err)
	}

	var classifier intent.Classifier
	if a.exemplarConfidence != nil {
		classifier, err = intent.NewExemplarClassifier(ctx, a.Taxonomy, intent.EmbedFunc(embed), a.Config.DefaultIntent, *a.exemplarConfidence, a.log)
	} else {
		classifier, err = intent.NewLexiconClassifier(a.Taxonomy, a.Config.DefaultIntent)
	}
	if err != nil {
		return helper.NewError("create classifier", err)
	}

	var reranker retrieval.Reranker = retrieval.SimilarityReranker{}
	if a.Config.IntentBoost > 0 || a.Config.MismatchPenalty > 0 {
		reranker, err = retrieval.NewIntentReranker(a.Config, a.Taxonomy)
		if err != nil {
			return helper.NewError("create reranker", err)
		}
	}

	p, err := pipeline.NewPipeline(embed, retriever, classifier, reranker, a.Config, a.log)
	if err != nil {
		return helper.NewError("create pipeline", err)
	}

	a.embed = embed
	a.Pipeline = p
	return nil
}

// UseDefaultEmbedder sets up the all-MiniLM-L6-v2 embedder (384 dimensions)
// behind an LRU cache of cacheSize queries.
func (a *Assessor) UseDefaultEmbedder(ctx context.Context, cacheSize int) error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}
	cached, err := pipeline.CachedEmbedder(embedder, cacheSize)
	if err != nil {
		return helper.NewError("create embedding cache", err)
	}
	return a.SetEmbedder(ctx, cached)
}

// InsertAssessment stores an assessment in the database catalog. A missing
// embedding is generated with the configured embedder.
func (a *Assessor) InsertAssessment(ctx context.Context, assessment *model.Assessment) error {
	if a.Assessments == nil {
		return helper.NewError("insert assessment", fmt.Errorf("catalog is read only in memory mode"))
	}
	if len(assessment.Embedding) == 0 {
		if a.embed == nil {
			return helper.NewError("insert assessment", fmt.Errorf("embedder not set, use SetEmbedder() first"))
		}
		err := EmbedCatalog(ctx, []*model.Assessment{assessment}, a.embed)
		if err != nil {
			return err
		}
	}
	return a.Assessments.InsertAssessment(ctx, assessment)
}

// Recommend returns at most topK recommendations for a job description.
func (a *Assessor) Recommend(ctx context.Context, query string, topK int) ([]model.Recommendation, error) {
	if a.Pipeline == nil {
		return nil, helper.NewError("recommend", fmt.Errorf("%w: embedder not set, use SetEmbedder() first", model.ErrRetrievalUnavailable))
	}
	return a.Pipeline.RecommendProjections(ctx, query, topK)
}

// CatalogSize returns the number of assessments available for recommendation.
func (a *Assessor) CatalogSize(ctx context.Context) (int, error) {
	if a.catalog == nil {
		return 0, nil
	}
	return a.catalog.Size(ctx)
}
