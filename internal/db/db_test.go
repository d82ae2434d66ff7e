package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

func TestNewExtractionRun(t *testing.T) {
	result := &types.ExtractionResult{
		Skills: []types.ExtractedSkill{
			{SkillName: "Go", CanonicalForm: "go", Weight: 3, Tier: types.TierImportant},
			{SkillName: "Jira", CanonicalForm: "jira", Weight: 1, Tier: types.TierLessImportant},
		},
		Important:     []string{"Go"},
		LessImportant: []string{"Jira"},
		Stats:         types.ExtractionStats{ClassifierAvailable: true},
	}

	run := NewExtractionRun("api", "Go and Jira", result, 150*time.Millisecond)
	assert.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, "api", run.Source)
	assert.Len(t, run.TextHash, 64)
	assert.Equal(t, 2, run.SkillCount)
	assert.Equal(t, []string{"Go"}, run.Important)
	assert.Equal(t, []string{}, run.NonTechnical)
	assert.True(t, run.ClassifierAvailable)
	assert.Equal(t, 150*time.Millisecond, run.Duration)

	other := NewExtractionRun("api", "Go and Jira", result, 0)
	assert.Equal(t, run.TextHash, other.TextHash)
	assert.NotEqual(t, run.ID, other.ID)
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"skills", "custom_keywords", "extraction_runs"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
