package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/siherrmann/assessor"
	"github.com/siherrmann/assessor/core/pipeline"
	"github.com/siherrmann/assessor/helper"
	"github.com/siherrmann/assessor/model"
)

var queries = []string{
	"Graduate scheme needs numerical and verbal reasoning tests",
	"Looking for someone whose personality fits a collaborative team",
	"Call center agents must speak fluent English",
	"Senior engineer, strong Python and SQL",
	"Hiring for a role",
}

func main() {
	catalogPath := flag.String("catalog", "example/catalog.json", "catalog JSON file")
	flag.Parse()

	ctx := context.Background()
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug},
	}))

	assessments, err := assessor.ReadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}

	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	cached, err := pipeline.CachedEmbedder(embedder, 128)
	if err != nil {
		log.Fatalf("Failed to create embedding cache: %v", err)
	}

	// Wider pool and a softer boost than the defaults
	config := model.DefaultRecommendConfig()
	config.PoolSize = 8
	config.IntentBoost = 0.6
	config.MismatchPenalty = 0.1
	config.Timeout = 30 * time.Second

	a, err := assessor.NewMemoryAssessor(ctx, assessments, cached,
		assessor.WithLogger(logger),
		assessor.WithRecommendConfig(config),
		assessor.WithExemplarClassifier(0.3),
	)
	if err != nil {
		log.Fatalf("Failed to create assessor: %v", err)
	}
	defer a.Close()

	for _, query := range queries {
		fmt.Printf("\n=== %s ===\n", query)

		queryIntent := a.Pipeline.Classifier.InferIntent(ctx, query)
		fmt.Printf("Intent: %s (degraded: %v)\n", queryIntent.Primary, queryIntent.Degraded)
		for label, weight := range queryIntent.Weights {
			fmt.Printf("  %-12s %.2f\n", label, weight)
		}

		candidates, err := a.Pipeline.Recommend(ctx, query, 3)
		if err != nil {
			log.Fatalf("Failed to recommend: %v", err)
		}
		for i, c := range candidates {
			fmt.Printf("%d. %-50s score=%.3f similarity_rank=%d intent_match=%v type=%s\n",
				i+1, c.Assessment.Name, c.Score, c.Rank, c.IntentMatch, c.Assessment.TestType)
		}
	}

	fmt.Println("\nAdvanced example completed successfully!")
}
