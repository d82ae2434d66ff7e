// Package config provides configuration loading and validation for the
// skill extractor service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mentorque/Extension-Free-backend/internal/embedding"
)

// Config is the service configuration. It can be loaded from a JSON or YAML
// file and overridden from the environment; zero values fall back to
// Default().
type Config struct {
	// Vocabulary sources
	SkillsCSV     string `json:"skills_csv,omitempty" yaml:"skills_csv,omitempty"`
	SkillsColumn  string `json:"skills_column,omitempty" yaml:"skills_column,omitempty"`
	OntologyPath  string `json:"ontology_path,omitempty" yaml:"ontology_path,omitempty"`
	OverridesPath string `json:"overrides_path,omitempty" yaml:"overrides_path,omitempty"`

	Embedding  Embedding  `json:"embedding" yaml:"embedding"`
	Classifier Classifier `json:"classifier" yaml:"classifier"`
	Thresholds Thresholds `json:"thresholds" yaml:"thresholds"`

	Port        int    `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	LogLevel    string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	UseBrowser  bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`
}

// Embedding selects the embedding provider used by the classifier.
type Embedding struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini openai ngram"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey    string `json:"-" yaml:"-"` // environment only
	Dimension int    `json:"dimension,omitempty" yaml:"dimension,omitempty" validate:"gte=0"`
}

// Classifier tunes exemplar loading and batch encoding.
type Classifier struct {
	BatchSize    int    `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"gte=0"`
	Workers      int    `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0,lte=256"`
	CacheDir     string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	RequireCache bool   `json:"require_cache,omitempty" yaml:"require_cache,omitempty"`
	Disabled     bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Thresholds are the similarity cut-offs used during extraction.
type Thresholds struct {
	Extraction        float64 `json:"extraction,omitempty" yaml:"extraction,omitempty" validate:"gte=0,lte=1"`
	SemanticMatch     float64 `json:"semantic_match,omitempty" yaml:"semantic_match,omitempty" validate:"gte=0,lte=1"`
	Prefilter         float64 `json:"prefilter,omitempty" yaml:"prefilter,omitempty" validate:"gte=0,lte=1"`
	MinTechSimilarity float64 `json:"min_tech_similarity,omitempty" yaml:"min_tech_similarity,omitempty" validate:"gte=0,lte=1"`
	Relevance         float64 `json:"relevance,omitempty" yaml:"relevance,omitempty" validate:"gte=0,lte=1"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SkillsCSV:    "skills.csv",
		SkillsColumn: "name",
		Embedding: Embedding{
			Provider: string(embedding.ProviderNGram),
		},
		Classifier: Classifier{
			BatchSize: 500,
			Workers:   4,
		},
		Thresholds: Thresholds{
			Extraction:        0.10,
			SemanticMatch:     0.75,
			Prefilter:         0.15,
			MinTechSimilarity: 0.30,
			Relevance:         0.10,
		},
		Port:     8000,
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a file. Files ending in .yaml or .yml
// are parsed as YAML; anything else as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and the combinations that cannot work
// together.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Classifier.RequireCache && c.Classifier.CacheDir == "" {
		return fmt.Errorf("config error: 'require_cache' needs 'cache_dir'")
	}
	if c.Embedding.Provider == string(embedding.ProviderOpenAI) && c.Embedding.BaseURL == "" && c.Embedding.APIKey == "" {
		return fmt.Errorf("config error: openai provider needs an API key or a base URL")
	}
	if c.Embedding.Provider == string(embedding.ProviderGemini) && c.Embedding.APIKey == "" {
		return fmt.Errorf("config error: gemini provider needs GEMINI_API_KEY")
	}
	for name, path := range map[string]string{"ontology_path": c.OntologyPath, "overrides_path": c.OverridesPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s not found: %s", name, path)
		}
	}
	return nil
}

// MergeWithDefaults returns a copy of c with zero fields taken from
// defaults. Booleans cannot be told apart from unset and are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.SkillsCSV, defaults.SkillsCSV)
	mergeString(&result.SkillsColumn, defaults.SkillsColumn)
	mergeString(&result.OntologyPath, defaults.OntologyPath)
	mergeString(&result.OverridesPath, defaults.OverridesPath)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.LogLevel, defaults.LogLevel)

	mergeString(&result.Embedding.Provider, defaults.Embedding.Provider)
	mergeString(&result.Embedding.Model, defaults.Embedding.Model)
	mergeString(&result.Embedding.BaseURL, defaults.Embedding.BaseURL)
	mergeString(&result.Embedding.APIKey, defaults.Embedding.APIKey)
	mergeInt(&result.Embedding.Dimension, defaults.Embedding.Dimension)

	mergeInt(&result.Classifier.BatchSize, defaults.Classifier.BatchSize)
	mergeInt(&result.Classifier.Workers, defaults.Classifier.Workers)
	mergeString(&result.Classifier.CacheDir, defaults.Classifier.CacheDir)

	mergeFloat(&result.Thresholds.Extraction, defaults.Thresholds.Extraction)
	mergeFloat(&result.Thresholds.SemanticMatch, defaults.Thresholds.SemanticMatch)
	mergeFloat(&result.Thresholds.Prefilter, defaults.Thresholds.Prefilter)
	mergeFloat(&result.Thresholds.MinTechSimilarity, defaults.Thresholds.MinTechSimilarity)
	mergeFloat(&result.Thresholds.Relevance, defaults.Thresholds.Relevance)

	mergeInt(&result.Port, defaults.Port)
	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func mergeFloat(dst *float64, def float64) {
	if *dst == 0 {
		*dst = def
	}
}

// ApplyEnv overrides fields from environment variables. Unparseable numbers
// are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	envString(&c.SkillsCSV, "SKILLS_CSV")
	envString(&c.OntologyPath, "SKILL_ONTOLOGY")
	envString(&c.OverridesPath, "CUSTOM_KEYWORDS")
	envString(&c.Embedding.Provider, "EMBEDDING_PROVIDER")
	envString(&c.Embedding.Model, "EMBEDDING_MODEL")
	envString(&c.Embedding.BaseURL, "EMBEDDING_BASE_URL")
	envString(&c.Classifier.CacheDir, "EMBEDDINGS_CACHE_DIR")
	envString(&c.DatabaseURL, "DATABASE_URL")
	envString(&c.LogLevel, "LOG_LEVEL")

	switch c.Embedding.Provider {
	case string(embedding.ProviderGemini):
		envString(&c.Embedding.APIKey, "GEMINI_API_KEY")
	case string(embedding.ProviderOpenAI):
		envString(&c.Embedding.APIKey, "OPENAI_API_KEY")
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("EMBEDDINGS_REQUIRE_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EMBEDDINGS_REQUIRE_CACHE %q: %w", v, err)
		}
		c.Classifier.RequireCache = b
	}
	return nil
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// EmbeddingConfig converts the embedding section for embedding.New.
func (c *Config) EmbeddingConfig() (*embedding.Config, error) {
	provider, err := embedding.ParseProvider(c.Embedding.Provider)
	if err != nil {
		return nil, err
	}
	cfg := embedding.DefaultFor(provider)
	if c.Embedding.Model != "" {
		cfg = cfg.WithModel(c.Embedding.Model)
	}
	cfg.BaseURL = c.Embedding.BaseURL
	cfg.APIKey = c.Embedding.APIKey
	if c.Embedding.Dimension > 0 {
		cfg.Dimension = c.Embedding.Dimension
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
