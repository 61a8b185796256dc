package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/siherrmann/assessor"
	"github.com/siherrmann/assessor/helper"
)

func main() {
	catalogPath := flag.String("catalog", "example/catalog.json", "catalog JSON file")
	flag.Parse()

	ctx := context.Background()

	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	a, err := assessor.NewAssessor(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create assessor: %v", err)
	}
	defer a.Close()

	// all-MiniLM-L6-v2 behind a query cache
	if err := a.UseDefaultEmbedder(ctx, 256); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	assessments, err := assessor.ReadCatalogFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}

	fmt.Println("Importing catalog...")
	for _, assessment := range assessments {
		if err := a.InsertAssessment(ctx, assessment); err != nil {
			log.Fatalf("Failed to insert assessment: %v", err)
		}
	}
	size, err := a.CatalogSize(ctx)
	if err != nil {
		log.Fatalf("Failed to count assessments: %v", err)
	}
	fmt.Printf("Catalog holds %d assessments\n", size)

	queryText := "We are hiring a Java developer who writes SQL every day"
	fmt.Printf("\nQuerying: %s\n", queryText)

	recs, err := a.Recommend(ctx, queryText, 3)
	if err != nil {
		log.Fatalf("Failed to recommend: %v", err)
	}

	fmt.Printf("\nFound %d recommendations:\n", len(recs))
	for i, rec := range recs {
		fmt.Printf("\n--- Recommendation %d ---\n", i+1)
		fmt.Printf("Name: %s\n", rec.AssessmentName)
		fmt.Printf("Type: %s\n", rec.TestType)
		fmt.Printf("URL: %s\n", rec.URL)
	}

	fmt.Println("\nBasic example completed successfully!")
}
