package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "gpt-4.1-mini", cfg.Agent.Model)
	assert.Equal(t, 5, cfg.Agent.MaxSearchResults)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, ".artifacts/vector_store.json", cfg.Store.Path)
	assert.Equal(t, 3072, cfg.Store.Dimension)
	assert.Equal(t, 5, cfg.Store.TopK)
	assert.Equal(t, "gpt-4.1-mini", cfg.Summary.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.API.KeyEnv)
}

func TestLoad(t *testing.T) {
	t.Run("EmptyPathReturnsDefault", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("OverridesLayerOverDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
store:
  path: /tmp/research/store.json
  dimension: 1536
  top_k: 3
summary:
  model: ""
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/research/store.json", cfg.Store.Path)
		assert.Equal(t, 1536, cfg.Store.Dimension)
		assert.Equal(t, 3, cfg.Store.TopK)
		assert.Empty(t, cfg.Summary.Model)

		// Untouched sections keep their defaults.
		assert.Equal(t, "gpt-4.1-mini", cfg.Agent.Model)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("store: [broken"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-default-env")
	t.Setenv("CUSTOM_KEY", "from-custom-env")

	cfg := Default()
	assert.Equal(t, "from-default-env", cfg.APIKey())

	cfg.API.KeyEnv = "CUSTOM_KEY"
	assert.Equal(t, "from-custom-env", cfg.APIKey())

	cfg.API.KeyEnv = ""
	assert.Equal(t, "from-default-env", cfg.APIKey())
}
