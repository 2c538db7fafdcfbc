package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"reposage/internal/usecase"
)

var (
	searchQuery string
	searchRepo  string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed chunks by semantic similarity",
	Long: `Embed a query and return the most similar indexed chunks, with their
source file, chunk position, and similarity score.

Examples:
  reposage search -q "token validation"
  reposage search -q "retry logic" --repo api --limit 10 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().StringVar(&searchRepo, "repo", "", "restrict results to one repository label")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	limit := cfg.Solve.TopK
	if searchLimit > 0 {
		limit = searchLimit
	}

	searchUC := usecase.NewSearchUseCase(st, embedder, cfg.Store.Collection)
	results, err := searchUC.Search(cmd.Context(), searchQuery, searchRepo, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), searchQuery)
	for i, r := range results {
		fmt.Printf("--- [%d] %s [%s] chunk %d/%d (score: %.4f) ---\n",
			i+1, r.SourcePath, r.RepoLabel, r.ChunkIndex+1, r.TotalChunks, r.Score)
		text := r.ChunkText
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
