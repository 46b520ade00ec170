package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DatasetConfig locates the movie records.
type DatasetConfig struct {
	Path            string `yaml:"path"`
	IdentifierField string `yaml:"identifier_field"`
}

// OpenAIConfig holds configuration for an OpenAI-compatible HTTP endpoint.
// Ollama is addressed the same way through its /v1 API.
type OpenAIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	BatchSize         int     `yaml:"batch_size,omitempty"`
	Parallelism       int     `yaml:"parallelism,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	MaxRetries        int     `yaml:"max_retries,omitempty"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type         string        `yaml:"type"`
	OpenAI       *OpenAIConfig `yaml:"openai,omitempty"`
	CacheTTLSecs int           `yaml:"cache_ttl_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// RetrievalConfig controls how many records back each answer.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// GateConfig tunes the grounding gate.
type GateConfig struct {
	// Keywords replaces the built-in attribute keyword list when non-empty.
	Keywords            []string `yaml:"keywords,omitempty"`
	DisableKeywordCheck bool     `yaml:"disable_keyword_check"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type        string        `yaml:"type"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty"`
}

// ServiceConfig controls the question answering service.
type ServiceConfig struct {
	QueryTimeoutSecs int `yaml:"query_timeout_secs"`
	// WaitForReady defaults to true when unset.
	WaitForReady *bool `yaml:"wait_for_ready,omitempty"`
}

// WaitsForReady reports whether questions asked during indexing should block.
func (c ServiceConfig) WaitsForReady() bool {
	return c.WaitForReady == nil || *c.WaitForReady
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File receives logs while the terminal UI owns the screen; empty discards them.
	File string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Dataset     DatasetConfig     `yaml:"dataset"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Gate        GateConfig        `yaml:"gate"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Service     ServiceConfig     `yaml:"service"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/chitravaani/config.yaml.
// If neither exists, it writes defaults to ~/.config/chitravaani/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects unknown backend names and incomplete backend sections.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf":
	case "openai", "ollama":
		if c.Embedder.OpenAI == nil {
			return fmt.Errorf("embedder %q needs an openai section", c.Embedder.Type)
		}
	default:
		return fmt.Errorf("unknown embedder: %q", c.Embedder.Type)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil || c.VectorStore.Qdrant.URL == "" {
			return errors.New("qdrant vector store needs a url")
		}
	default:
		return fmt.Errorf("unknown vector store: %q", c.VectorStore.Type)
	}
	switch c.Generator.Type {
	case "extractive":
	case "openai", "ollama":
		if c.Generator.OpenAI == nil {
			return fmt.Errorf("generator %q needs an openai section", c.Generator.Type)
		}
	default:
		return fmt.Errorf("unknown generator: %q", c.Generator.Type)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chitravaani", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Dataset:     DatasetConfig{Path: "data/movies.json", IdentifierField: "movie_name"},
		Embedder:    EmbedderConfig{Type: "tfidf", CacheTTLSecs: 600},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Retrieval:   RetrievalConfig{TopK: 3},
		Generator:   GeneratorConfig{Type: "extractive", MaxTokens: 256},
		Service:     ServiceConfig{QueryTimeoutSecs: 120, WaitForReady: boolPtr(true)},
		Log:         LogConfig{Level: "info", Format: "text"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Dataset.IdentifierField == "" {
		cfg.Dataset.IdentifierField = "movie_name"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.CacheTTLSecs == 0 {
		cfg.Embedder.CacheTTLSecs = 600
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "extractive"
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 256
	}
	if cfg.Service.QueryTimeoutSecs == 0 {
		cfg.Service.QueryTimeoutSecs = 120
	}
	if cfg.Service.WaitForReady == nil {
		cfg.Service.WaitForReady = boolPtr(true)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	applyEndpointDefaults(cfg.Embedder.Type, cfg.Embedder.OpenAI, "text-embedding-3-small", "nomic-embed-text", 30)
	if cfg.Embedder.OpenAI != nil && cfg.Embedder.OpenAI.BatchSize == 0 {
		cfg.Embedder.OpenAI.BatchSize = 32
	}
	applyEndpointDefaults(cfg.Generator.Type, cfg.Generator.OpenAI, "gpt-4o-mini", "llama3.2", 120)
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.Collection == "" {
			q.Collection = "movies"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 30
		}
	}
}

func boolPtr(b bool) *bool { return &b }

// applyEndpointDefaults fills an OpenAI-compatible section. Ollama runs locally
// without an API key.
func applyEndpointDefaults(kind string, c *OpenAIConfig, openaiModel, ollamaModel string, timeoutSecs int) {
	if c == nil {
		return
	}
	switch kind {
	case "openai":
		if c.BaseURL == "" {
			c.BaseURL = "https://api.openai.com/v1"
		}
		if c.APIKeyEnv == "" {
			c.APIKeyEnv = "OPENAI_API_KEY"
		}
		if c.Model == "" {
			c.Model = openaiModel
		}
	case "ollama":
		if c.BaseURL == "" {
			c.BaseURL = "http://localhost:11434/v1"
		}
		if c.Model == "" {
			c.Model = ollamaModel
		}
	}
	if c.TimeoutSecs == 0 {
		c.TimeoutSecs = timeoutSecs
	}
}
