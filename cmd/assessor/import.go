package main

import (
	"fmt"
	"log/slog"

	"github.com/siherrmann/assessor"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [catalog.json]",
	Short: "Load a catalog file into postgres",
	Long: `Embed every assessment of a catalog JSON file and upsert it into
the database configured by the DB_* environment variables. Positions
follow the order of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	assessments, err := assessor.ReadCatalogFile(args[0])
	if err != nil {
		return err
	}

	// The catalog flag would switch to memory mode.
	cfg.Catalog = ""
	a, err := openAssessor(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, assessment := range assessments {
		err = a.InsertAssessment(cmd.Context(), assessment)
		if err != nil {
			return fmt.Errorf("import assessment %d: %w", assessment.Position, err)
		}
	}

	size, err := a.CatalogSize(cmd.Context())
	if err != nil {
		return err
	}
	logger.Info("Imported catalog", slog.Int("assessments", len(assessments)), slog.Int("catalog_size", size))
	return nil
}
