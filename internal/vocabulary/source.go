package vocabulary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Source supplies raw vocabulary phrases.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Phrases returns every usable phrase. Malformed rows are skipped, not fatal.
	Phrases(ctx context.Context) ([]string, error)
}

// StaticSource is an in-memory Source.
type StaticSource []string

// Name implements Source.
func (StaticSource) Name() string { return "static" }

// Phrases implements Source.
func (s StaticSource) Phrases(context.Context) ([]string, error) {
	out := make([]string, 0, len(s))
	for _, p := range s {
		if cleaned, ok := CleanPhrase(p); ok {
			out = append(out, cleaned)
		}
	}
	return out, nil
}

// CSVSource reads phrases from the "Skill" column of a CSV file.
type CSVSource struct {
	Path   string
	Column string
}

// NewCSVSource returns a CSVSource reading the "Skill" column of path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path, Column: "Skill"}
}

// Name implements Source.
func (s *CSVSource) Name() string { return s.Path }

// Phrases implements Source.
func (s *CSVSource) Phrases(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Message: "skills CSV not found", Cause: err}
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f, s.Column)
}

// ReadCSV reads phrases from the named column of r.
func ReadCSV(ctx context.Context, r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = "Skill"
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Source: "csv", Message: "missing header row", Cause: err}
	}
	idx := -1
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &LoadError{Source: "csv", Message: fmt.Sprintf("column %q not found", column)}
	}

	log := slog.Default().With("component", "vocabulary")
	var phrases []string
	skipped := 0
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			log.Debug("skipping malformed CSV row", "line", line, "error", err)
			continue
		}
		if idx >= len(record) {
			skipped++
			continue
		}
		if cleaned, ok := CleanPhrase(record[idx]); ok {
			phrases = append(phrases, cleaned)
		} else {
			skipped++
		}
	}
	if skipped > 0 {
		log.Debug("skipped CSV rows", "count", skipped)
	}
	return phrases, nil
}

// CleanPhrase strips quotes and newlines. Empty and single-character phrases
// are rejected.
func CleanPhrase(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= 1 {
		return "", false
	}
	return s, true
}
