package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"reposage/internal/adapter/chunker"
	"reposage/internal/adapter/fs"
	"reposage/internal/usecase"
)

var ingestRepo string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index a repository into the vector store",
	Long: `Walk a directory, chunk every eligible text file, embed the chunks,
and upsert them into the vector store. Re-running over the same tree
overwrites the existing points instead of duplicating them.

Examples:
  reposage ingest .                         # Index current directory
  reposage ingest /path/to/repo --repo api  # Index under the label "api"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestRepo, "repo", "", "repository label for the indexed chunks (required)")
	ingestCmd.MarkFlagRequired("repo")
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

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

	walker := fs.NewWalker(cfg.Selector.Excludes)
	chk := chunker.NewBoundaryChunker(cfg.Chunker.MaxChunkSize, cfg.Chunker.MinChunkSize, cfg.Chunker.OverlapSize)
	throttle := time.Duration(cfg.Embedding.ThrottleMS) * time.Millisecond

	ingestUC := usecase.NewIngestUseCase(st, embedder, walker, chk, cfg.Store.Collection, throttle)

	fmt.Printf("Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	progressCallback := func(processed, total int, currentFile string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	stats, err := ingestUC.Ingest(cmd.Context(), ingestRepo, path, progressCallback)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Files seen:       %d\n", stats.FilesSeen)
	fmt.Printf("  Chunks produced:  %d\n", stats.ChunksProduced)
	fmt.Printf("  Chunks indexed:   %d\n", stats.ChunksSucceeded)
	fmt.Printf("  Chunks failed:    %d\n", stats.ChunksFailed)
	fmt.Printf("  Chunks dropped:   %d (below minimum size)\n", stats.ChunksDropped)
	fmt.Printf("\nCollection: %s (%s)\n", cfg.Store.Collection, cfg.Store.Backend)
	return nil
}
