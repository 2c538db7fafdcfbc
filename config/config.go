package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the reposage tool.
type Config struct {
	Selector  SelectorConfig  `yaml:"selector"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	LLM       LLMConfig       `yaml:"llm"`
	Solve     SolveConfig     `yaml:"solve"`
}

// SelectorConfig holds file selection configuration. Excludes are extra
// glob patterns applied on top of the built-in directory and extension
// denylists.
type SelectorConfig struct {
	Excludes []string `yaml:"excludes"`
}

// ChunkerConfig holds text chunking parameters, in characters.
type ChunkerConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size"`
	MinChunkSize int `yaml:"min_chunk_size"`
	OverlapSize  int `yaml:"overlap_size"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`    // "gemini", "mock"
	Model      string `yaml:"model"`       // e.g. "text-embedding-004"
	APIKeyEnv  string `yaml:"api_key_env"` // Environment variable for the API key
	BaseURL    string `yaml:"base_url"`
	Dimension  int    `yaml:"dimension"`
	ThrottleMS int    `yaml:"throttle_ms"` // Delay before every embedding call
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	Backend     string `yaml:"backend"` // "qdrant", "bolt"
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	Path        string `yaml:"path"` // bolt database file
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// LLMConfig holds generative model configuration. The default base URL
// targets Groq's OpenAI-compatible API.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// SolveConfig holds defaults for the solve operation.
type SolveConfig struct {
	TopK int `yaml:"top_k"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Selector: SelectorConfig{
			Excludes: nil,
		},
		Chunker: ChunkerConfig{
			MaxChunkSize: 1000,
			MinChunkSize: 50,
			OverlapSize:  100,
		},
		Embedding: EmbeddingConfig{
			Provider:   "gemini",
			Model:      "text-embedding-004",
			APIKeyEnv:  "GEMINI_API_KEY",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Dimension:  768,
			ThrottleMS: 100,
		},
		Store: StoreConfig{
			Backend:     "qdrant",
			URL:         "http://localhost:6333",
			APIKeyEnv:   "QDRANT_API_KEY",
			Collection:  "repo_chunks",
			Path:        filepath.Join(".reposage", "vectors.db"),
			TimeoutSecs: 15,
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama3-8b-8192",
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: 0.1,
			MaxTokens:   1024,
		},
		Solve: SolveConfig{
			TopK: 5,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// reposage.yaml, then .reposage/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "reposage.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".reposage", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
