package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorque/Extension-Free-backend/internal/embedding"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"skills_csv": "data/skills.csv",
		"embedding": {"provider": "openai", "base_url": "http://localhost:11434/v1"},
		"classifier": {"batch_size": 250, "cache_dir": "/tmp/cache"},
		"thresholds": {"semantic_match": 0.8},
		"port": 9000
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/skills.csv", cfg.SkillsCSV)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 250, cfg.Classifier.BatchSize)
	assert.Equal(t, 0.8, cfg.Thresholds.SemanticMatch)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
skills_csv: skills.csv
ontology_path: ontology.json
embedding:
  provider: ngram
  dimension: 256
classifier:
  workers: 8
  require_cache: true
  cache_dir: cache
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ontology.json", cfg.OntologyPath)
	assert.Equal(t, 256, cfg.Embedding.Dimension)
	assert.Equal(t, 8, cfg.Classifier.Workers)
	assert.True(t, cfg.Classifier.RequireCache)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "bad.json", `{"port": "eighty"}`))
	assert.ErrorContains(t, err, "parse config JSON")

	_, err = LoadConfig(writeFile(t, "bad.yml", "port: [1, 2"))
	assert.ErrorContains(t, err, "parse config YAML")
}

func TestValidate(t *testing.T) {
	ontology := writeFile(t, "ontology.json", `{"skills": []}`)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "existing ontology", mutate: func(c *Config) { c.OntologyPath = ontology }},
		{name: "threshold above one", mutate: func(c *Config) { c.Thresholds.Extraction = 1.5 }, wantErr: "Extraction"},
		{name: "negative batch", mutate: func(c *Config) { c.Classifier.BatchSize = -1 }, wantErr: "BatchSize"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "Port"},
		{name: "unknown provider", mutate: func(c *Config) { c.Embedding.Provider = "bert" }, wantErr: "Provider"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "LogLevel"},
		{name: "require cache without dir", mutate: func(c *Config) { c.Classifier.RequireCache = true }, wantErr: "cache_dir"},
		{name: "gemini without key", mutate: func(c *Config) { c.Embedding.Provider = "gemini" }, wantErr: "GEMINI_API_KEY"},
		{name: "openai without key or url", mutate: func(c *Config) { c.Embedding.Provider = "openai" }, wantErr: "openai"},
		{name: "missing overrides file", mutate: func(c *Config) { c.OverridesPath = "/nonexistent/custom.json" }, wantErr: "overrides_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		SkillsCSV:  "mine.csv",
		Classifier: Classifier{Workers: 2},
		Thresholds: Thresholds{SemanticMatch: 0.9},
	}

	merged := cfg.MergeWithDefaults(Default())
	assert.Equal(t, "mine.csv", merged.SkillsCSV)
	assert.Equal(t, "name", merged.SkillsColumn)
	assert.Equal(t, 2, merged.Classifier.Workers)
	assert.Equal(t, 500, merged.Classifier.BatchSize)
	assert.Equal(t, 0.9, merged.Thresholds.SemanticMatch)
	assert.Equal(t, 0.10, merged.Thresholds.Extraction)
	assert.Equal(t, 8000, merged.Port)
	assert.Equal(t, "ngram", merged.Embedding.Provider)

	assert.Empty(t, cfg.SkillsColumn, "receiver is not modified")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SKILLS_CSV", "/data/skills.csv")
	t.Setenv("SKILL_ONTOLOGY", "/data/ontology.json")
	t.Setenv("CUSTOM_KEYWORDS", "/data/custom.json")
	t.Setenv("EMBEDDING_PROVIDER", "openai")
	t.Setenv("EMBEDDING_MODEL", "nomic-embed-text")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("EMBEDDINGS_CACHE_DIR", "/var/cache/skills")
	t.Setenv("EMBEDDINGS_REQUIRE_CACHE", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/skills")
	t.Setenv("PORT", "9090")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/data/skills.csv", cfg.SkillsCSV)
	assert.Equal(t, "/data/ontology.json", cfg.OntologyPath)
	assert.Equal(t, "/data/custom.json", cfg.OverridesPath)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "/var/cache/skills", cfg.Classifier.CacheDir)
	assert.True(t, cfg.Classifier.RequireCache)
	assert.Equal(t, "postgres://localhost/skills", cfg.DatabaseURL)
	assert.Equal(t, 9090, cfg.Port)
}

func TestApplyEnv_InvalidNumbers(t *testing.T) {
	t.Setenv("PORT", "eighty")
	cfg := Default()
	assert.ErrorContains(t, cfg.ApplyEnv(), "PORT")

	t.Setenv("PORT", "")
	t.Setenv("EMBEDDINGS_REQUIRE_CACHE", "maybe")
	assert.ErrorContains(t, cfg.ApplyEnv(), "EMBEDDINGS_REQUIRE_CACHE")
}

func TestEmbeddingConfig(t *testing.T) {
	cfg := Default()
	ec, err := cfg.EmbeddingConfig()
	require.NoError(t, err)
	assert.Equal(t, embedding.ProviderNGram, ec.Provider)
	assert.Equal(t, embedding.DefaultNGramDimension, ec.Dimension)

	cfg.Embedding = Embedding{Provider: "openai", Model: "custom", BaseURL: "http://localhost:8080/v1", APIKey: "k"}
	ec, err = cfg.EmbeddingConfig()
	require.NoError(t, err)
	assert.Equal(t, "custom", ec.Model)
	assert.Equal(t, "http://localhost:8080/v1", ec.BaseURL)
	assert.Equal(t, "k", ec.APIKey)

	cfg.Embedding.Provider = "bert"
	_, err = cfg.EmbeddingConfig()
	assert.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	} {
		cfg := Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
