// Package config loads pipeline configuration from YAML with defaults that
// work out of the box.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Agent configures the research agent.
type Agent struct {
	Model            string `yaml:"model"`
	Instructions     string `yaml:"instructions,omitempty"`
	MaxSearchResults int    `yaml:"max_search_results"`
}

// Embedding configures the embedding client.
type Embedding struct {
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions,omitempty"`
	BatchSize  int    `yaml:"batch_size,omitempty"`
}

// Store configures the local vector store.
type Store struct {
	Path      string `yaml:"path"`
	Dimension int    `yaml:"dimension"`
	TopK      int    `yaml:"top_k"`
	Codec     string `yaml:"codec,omitempty"` // "json" or "go-json"
}

// Summary configures the summarizer. An empty model disables LLM
// summarization; the pipeline then falls back to a bullet list.
type Summary struct {
	Model string `yaml:"model"`
}

// API configures how the external API is reached. The key itself stays in
// the environment.
type API struct {
	BaseURL string `yaml:"base_url,omitempty"`
	KeyEnv  string `yaml:"key_env,omitempty"`
}

// Config is the top-level pipeline configuration.
type Config struct {
	Agent     Agent     `yaml:"agent"`
	Embedding Embedding `yaml:"embedding"`
	Store     Store     `yaml:"store"`
	Summary   Summary   `yaml:"summary"`
	API       API       `yaml:"api"`
}

// Default returns the configuration used when no config file is given.
func Default() Config {
	return Config{
		Agent: Agent{
			Model:            "gpt-4.1-mini",
			MaxSearchResults: 5,
		},
		Embedding: Embedding{
			Model: "text-embedding-3-large",
		},
		Store: Store{
			Path:      ".artifacts/vector_store.json",
			Dimension: 3072,
			TopK:      5,
		},
		Summary: Summary{
			Model: "gpt-4.1-mini",
		},
		API: API{
			KeyEnv: "OPENAI_API_KEY",
		},
	}
}

// Load reads a YAML config file, layered over Default. An empty path returns
// Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// APIKey resolves the API key from the configured environment variable.
func (c Config) APIKey() string {
	keyEnv := c.API.KeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	return os.Getenv(keyEnv)
}
