package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"reposage/internal/adapter/llm"
	"reposage/internal/usecase"
)

var (
	solveIssue string
	solveRepo  string
	solveTopK  int
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Generate a solution for an issue, grounded in indexed code",
	Long: `Retrieve the chunks most relevant to an issue description and ask the
model to propose a fix based on them. The chunks used as grounding are
listed after the answer.

Examples:
  reposage solve -q "login endpoint returns 500 on empty password"
  reposage solve -q "walker skips symlinked dirs" --repo api --top-k 8`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVarP(&solveIssue, "issue", "q", "", "issue description (required)")
	solveCmd.Flags().StringVar(&solveRepo, "repo", "", "restrict context to one repository label")
	solveCmd.Flags().IntVarP(&solveTopK, "top-k", "k", 0, "number of context chunks (default from config)")
	solveCmd.MarkFlagRequired("issue")
}

func runSolve(cmd *cobra.Command, args []string) error {
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

	model, err := llm.NewClient(cfg.LLM.APIKeyEnv, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.MaxTokens)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	topK := cfg.Solve.TopK
	if solveTopK > 0 {
		topK = solveTopK
	}

	searchUC := usecase.NewSearchUseCase(st, embedder, cfg.Store.Collection)
	solveUC := usecase.NewSolveUseCase(searchUC, model, topK)

	solution, err := solveUC.Solve(cmd.Context(), solveIssue, solveRepo)
	if errors.Is(err, usecase.ErrNoContext) {
		fmt.Println("No relevant context found. Ingest the repository first, or broaden the issue description.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}

	fmt.Println(solution.Text)
	fmt.Printf("\nGrounded on %d chunks:\n", len(solution.Grounding))
	for i, g := range solution.Grounding {
		fmt.Printf("  [%d] %s (score: %.4f)\n", i+1, g.SourcePath, g.Score)
	}

	return nil
}
