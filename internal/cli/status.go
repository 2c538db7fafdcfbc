package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection and configuration status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Store:      %s", cfg.Store.Backend)
	if cfg.Store.Backend == "qdrant" {
		fmt.Printf(" (%s)", cfg.Store.URL)
	} else {
		fmt.Printf(" (%s)", cfg.Store.Path)
	}
	fmt.Println()
	fmt.Printf("Collection: %s\n", cfg.Store.Collection)
	fmt.Printf("Embedding:  %s (%d dimensions)\n", embedder.ModelName(), embedder.Dimension())
	fmt.Printf("Model:      %s\n", cfg.LLM.Model)

	count, err := st.Count(cmd.Context(), cfg.Store.Collection)
	if err != nil {
		fmt.Printf("Chunks:     unavailable (%v)\n", err)
		return nil
	}
	fmt.Printf("Chunks:     %d\n", count)

	return nil
}
