package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Print recommendations for a job description",
	Long: `Recommend assessments for a query and print them as JSON.

Examples:
  assessor recommend "Hiring a Java developer with strong SQL"
  assessor recommend --top-k 3 --catalog assessments.json "numerical reasoning for graduates"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().IntP("top-k", "k", 6, "number of recommendations")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	topK, _ := cmd.Flags().GetInt("top-k")
	query := strings.Join(args, " ")

	a, err := openAssessor(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.Recommend(cmd.Context(), query, topK)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(recs)
}
