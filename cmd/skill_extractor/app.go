package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mentorque/Extension-Free-backend/internal/classifier"
	"github.com/mentorque/Extension-Free-backend/internal/config"
	"github.com/mentorque/Extension-Free-backend/internal/db"
	"github.com/mentorque/Extension-Free-backend/internal/embedding"
	"github.com/mentorque/Extension-Free-backend/internal/overrides"
	"github.com/mentorque/Extension-Free-backend/internal/skills"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

// loadConfig layers the environment over the --config file over the
// built-in defaults, then validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(config.Default())
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// app holds the collaborators shared by the commands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	embedder   embedding.Embedder
	cache      *classifier.BadgerCache
	classifier *classifier.Classifier
	db         *db.DB
	engine     *skills.Engine
}

type appOptions struct {
	// needDB fails instead of running without history when no database is configured.
	needDB bool
}

// newApp builds the engine and everything it depends on. Nothing is loaded
// yet; callers decide when to call EnsureLoaded.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: newLogger(cfg)}
	slog.SetDefault(a.logger)

	if cfg.DatabaseURL != "" {
		a.db, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := a.db.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
	} else if opts.needDB {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := a.buildClassifier(ctx); err != nil {
		a.Close()
		return nil, err
	}

	registry, err := a.loadOverrides(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	storeOpts := vocabulary.Options{
		Source:             a.vocabularySource(),
		OntologyPath:       cfg.OntologyPath,
		Overrides:          registry,
		PrefilterThreshold: cfg.Thresholds.Prefilter,
		Logger:             a.logger,
	}
	engineCfg := skills.Config{
		Overrides:  registry,
		Embedder:   a.embedder,
		Thresholds: skills.Thresholds{
			Extraction:    cfg.Thresholds.Extraction,
			SemanticMatch: cfg.Thresholds.SemanticMatch,
		},
		Logger: a.logger,
	}
	if a.classifier != nil {
		storeOpts.Prefilter = a.classifier
		engineCfg.Classifier = a.classifier
	}
	engineCfg.Vocabulary = vocabulary.New(storeOpts)

	a.engine, err = skills.New(engineCfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) buildClassifier(ctx context.Context) error {
	embCfg, err := a.cfg.EmbeddingConfig()
	if err != nil {
		return err
	}
	a.embedder, err = embedding.New(ctx, embCfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	if a.cfg.Classifier.Disabled {
		return nil
	}

	opts := []classifier.Option{
		classifier.WithBatchSize(a.cfg.Classifier.BatchSize),
		classifier.WithWorkers(a.cfg.Classifier.Workers),
		classifier.WithMinTechSimilarity(a.cfg.Thresholds.MinTechSimilarity),
		classifier.WithRelevanceThreshold(a.cfg.Thresholds.Relevance),
		classifier.WithRequireCache(a.cfg.Classifier.RequireCache),
		classifier.WithLogger(a.logger),
	}
	if dir := a.cfg.Classifier.CacheDir; dir != "" {
		a.cache, err = classifier.OpenBadgerCache(dir, false)
		if err != nil {
			return err
		}
		opts = append(opts, classifier.WithCache(a.cache))
	}
	a.classifier, err = classifier.New(a.embedder, opts...)
	return err
}

// vocabularySource reads the skills table when a database is configured and
// the CSV otherwise.
func (a *app) vocabularySource() vocabulary.Source {
	if a.db != nil {
		return a.db.VocabularySource()
	}
	return &vocabulary.CSVSource{Path: a.cfg.SkillsCSV, Column: a.cfg.SkillsColumn}
}

// loadOverrides merges the overrides file with rows from the database.
func (a *app) loadOverrides(ctx context.Context) (*overrides.Registry, error) {
	registry := overrides.New(nil)
	if a.cfg.OverridesPath != "" {
		var err error
		if registry, err = overrides.Load(a.cfg.OverridesPath); err != nil {
			return nil, err
		}
	}
	if a.db == nil {
		return registry, nil
	}
	stored, err := a.db.LoadOverrides(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return registry, nil
	}
	return overrides.New(append(registry.Entries(), stored...)), nil
}

// Close releases everything newApp opened.
func (a *app) Close() {
	if a.classifier != nil {
		a.classifier.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("closing vector cache", "error", err)
		}
	}
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
