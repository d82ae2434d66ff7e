package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// ErrRunNotFound is returned when an extraction run does not exist.
var ErrRunNotFound = errors.New("extraction run not found")

// ExtractionRun is one recorded extraction.
type ExtractionRun struct {
	ID                  uuid.UUID              `json:"id"`
	Source              string                 `json:"source"`
	TextHash            string                 `json:"text_hash"`
	SkillCount          int                    `json:"skill_count"`
	Important           []string               `json:"important_skills"`
	LessImportant       []string               `json:"less_important_skills"`
	NonTechnical        []string               `json:"non_technical_skills"`
	Result              types.ExtractionResult `json:"result"`
	ClassifierAvailable bool                   `json:"classifier_available"`
	Duration            time.Duration          `json:"duration"`
	CreatedAt           time.Time              `json:"created_at"`
}

// NewExtractionRun summarizes an extraction of text. Source names where the
// text came from: "api", "cli", or a posting URL.
func NewExtractionRun(source, text string, result *types.ExtractionResult, took time.Duration) *ExtractionRun {
	sum := sha256.Sum256([]byte(text))
	return &ExtractionRun{
		ID:                  uuid.New(),
		Source:              source,
		TextHash:            hex.EncodeToString(sum[:]),
		SkillCount:          len(result.Skills),
		Important:           nonNil(result.Important),
		LessImportant:       nonNil(result.LessImportant),
		NonTechnical:        nonNil(result.NonTechnical),
		Result:              *result,
		ClassifierAvailable: result.Stats.ClassifierAvailable,
		Duration:            took,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RecordExtraction stores run and sets its creation time.
func (db *DB) RecordExtraction(ctx context.Context, run *ExtractionRun) error {
	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction result: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO extraction_runs
		   (id, source, text_hash, skill_count, important, less_important, non_technical,
		    result, classifier_available, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		run.ID, run.Source, run.TextHash, run.SkillCount,
		run.Important, run.LessImportant, run.NonTechnical,
		resultJSON, run.ClassifierAvailable, run.Duration.Milliseconds(),
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record extraction: %w", err)
	}
	return nil
}

const runColumns = `id, source, text_hash, skill_count, important, less_important, non_technical,
	result, classifier_available, duration_ms, created_at`

// GetExtraction returns a recorded run.
func (db *DB) GetExtraction(ctx context.Context, id uuid.UUID) (*ExtractionRun, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM extraction_runs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get extraction %s: %w", id, err)
	}
	return run, nil
}

// ListExtractions returns the most recent runs, newest first.
func (db *DB) ListExtractions(ctx context.Context, limit int) ([]*ExtractionRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM extraction_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	var runs []*ExtractionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*ExtractionRun, error) {
	var (
		run        ExtractionRun
		resultJSON []byte
		durationMS int64
	)
	err := row.Scan(&run.ID, &run.Source, &run.TextHash, &run.SkillCount,
		&run.Important, &run.LessImportant, &run.NonTechnical,
		&resultJSON, &run.ClassifierAvailable, &durationMS, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultJSON, &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extraction result: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
