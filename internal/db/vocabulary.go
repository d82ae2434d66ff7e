package db

import (
	"context"
	"fmt"

	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

// VocabularySource reads vocabulary phrases from the skills table.
type VocabularySource struct {
	db *DB
}

// VocabularySource returns a vocabulary.Source backed by the skills table.
func (db *DB) VocabularySource() *VocabularySource {
	return &VocabularySource{db: db}
}

// Name implements vocabulary.Source.
func (s *VocabularySource) Name() string { return "postgres:skills" }

// Phrases implements vocabulary.Source. Rows that clean to nothing are skipped.
func (s *VocabularySource) Phrases(ctx context.Context) ([]string, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT name FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer rows.Close()

	var phrases []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		if cleaned, ok := vocabulary.CleanPhrase(name); ok {
			phrases = append(phrases, cleaned)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}
	return phrases, nil
}

// UpsertSkills inserts vocabulary phrases, ignoring ones already present.
func (db *DB) UpsertSkills(ctx context.Context, names []string) (int, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO skills (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`,
		names,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert skills: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// LoadOverrides returns the custom keywords stored in the database.
func (db *DB) LoadOverrides(ctx context.Context) ([]types.CustomOverrideEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT base, description, variations FROM custom_keywords ORDER BY base`)
	if err != nil {
		return nil, fmt.Errorf("failed to query custom keywords: %w", err)
	}
	defer rows.Close()

	var entries []types.CustomOverrideEntry
	for rows.Next() {
		var e types.CustomOverrideEntry
		if err := rows.Scan(&e.Base, &e.Description, &e.Variations); err != nil {
			return nil, fmt.Errorf("failed to scan custom keyword: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read custom keywords: %w", err)
	}
	return entries, nil
}

// SaveOverride inserts or replaces a custom keyword.
func (db *DB) SaveOverride(ctx context.Context, e types.CustomOverrideEntry) error {
	variations := e.Variations
	if variations == nil {
		variations = []string{}
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO custom_keywords (base, description, variations)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (base) DO UPDATE SET description = $2, variations = $3`,
		e.Base, e.Description, variations,
	)
	if err != nil {
		return fmt.Errorf("failed to save custom keyword %s: %w", e.Base, err)
	}
	return nil
}
