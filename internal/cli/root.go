package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"reposage/config"
	"reposage/internal/adapter/embedding"
	"reposage/internal/adapter/store"
	"reposage/internal/port"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reposage",
	Short: "Repository indexing and retrieval for issue solving",
	Long: `reposage indexes the text of a repository into a vector store and
answers questions about it: chunks are embedded, stored with their
provenance, retrieved by semantic similarity, and fed to a model as
grounding context.

Example usage:
  reposage ingest . --repo myproject     # Index current directory
  reposage search -q "token validation"  # Find relevant chunks
  reposage solve -q "login 500s"         # Generate a grounded solution`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; keys may come from the environment.
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file: %w", err)
			}
		} else {
			_ = godotenv.Load()
		}

		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./reposage.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default is ./.env)")
}

func GetConfig() *config.Config {
	return cfg
}

// buildEmbedder constructs the embedding provider named in the config.
func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "gemini":
		return embedding.NewGeminiEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// buildStore constructs the vector store backend named in the config.
// The returned closer is a no-op for remote backends.
func buildStore(cfg *config.Config) (port.VectorStore, func() error, error) {
	switch cfg.Store.Backend {
	case "qdrant":
		st := store.NewQdrantStore(store.QdrantConfig{
			URL:     cfg.Store.URL,
			APIKey:  os.Getenv(cfg.Store.APIKeyEnv),
			Timeout: time.Duration(cfg.Store.TimeoutSecs) * time.Second,
		})
		return st, func() error { return nil }, nil
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		st, err := store.NewBoltStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open vector store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
