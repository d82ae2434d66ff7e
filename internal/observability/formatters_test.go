package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mentorque/Extension-Free-backend/internal/classifier"
	"github.com/mentorque/Extension-Free-backend/internal/ingestion"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

func TestPrintExtraction(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.ExtractionResult{
		Skills: []types.ExtractedSkill{
			{SkillName: "Kubernetes", Tier: types.TierImportant},
			{SkillName: "Jira", Tier: types.TierLessImportant},
		},
		Important:     []string{"Kubernetes"},
		LessImportant: []string{"Jira"},
		Stats:         types.ExtractionStats{TotalMatches: 3, UniqueSkills: 2, ContextFiltered: 1, ClassifierAvailable: true},
	}
	p.PrintExtraction(result)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED SKILLS")
	assert.Contains(t, output, "Found 2 skills")
	assert.Contains(t, output, "Important (1):")
	assert.Contains(t, output, "• Kubernetes")
	assert.Contains(t, output, "Less important (1):")
	assert.NotContains(t, output, "Non-technical")
	assert.Contains(t, output, "Mode: semantic")
	assert.Contains(t, output, "1 out of context")
}

func TestPrintExtraction_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtraction(&types.ExtractionResult{})

	assert.Contains(t, buf.String(), "No skills found")
	assert.Contains(t, buf.String(), "Mode: rule-based")
}

func TestPrintExtraction_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExtraction(nil)
	assert.Empty(t, buf.String())
}

func TestPrintExtraction_TruncatesLongTiers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var names []string
	var matches []types.ExtractedSkill
	for i := 0; i < maxItemsToShow+4; i++ {
		name := "Skill" + strings.Repeat("x", i)
		names = append(names, name)
		matches = append(matches, types.ExtractedSkill{SkillName: name})
	}
	p.PrintExtraction(&types.ExtractionResult{Skills: matches, Important: names})

	assert.Contains(t, buf.String(), "... and 4 more")
}

func TestPrintVerdict(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVerdict(types.ClassificationVerdict{
		Phrase:       "Kubernetes",
		Tier:         types.TierImportant,
		IsTechnical:  true,
		Confidence:   0.42,
		Similarities: types.Similarities{Important: 1, LessImportant: 0.31, NonTech: 0.12},
	}, true)

	output := buf.String()
	assert.Contains(t, output, "KUBERNETES")
	assert.Contains(t, output, "important")
	assert.Contains(t, output, "0.420")
	assert.Contains(t, output, "less 0.310")

	buf.Reset()
	p.PrintVerdict(types.ClassificationVerdict{Phrase: "Python", Tier: types.TierImportant, IsTechnical: true}, false)
	assert.Contains(t, buf.String(), "rule-based")
}

func TestPrintVocabularyReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVocabularyReport(map[types.Tier]int{
		types.TierImportant:     3,
		types.TierLessImportant: 1,
	}, "report.csv")

	output := buf.String()
	assert.Contains(t, output, "Classified 4 phrases")
	assert.Contains(t, output, "75.0%")
	assert.Contains(t, output, "non_technical")
	assert.Contains(t, output, "report.csv")
}

func TestPrintSource(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSource(&ingestion.Metadata{URL: "https://jobs.lever.co/acme/1", Platform: "lever", Hash: "abcdef0123456789abcdef", Rendered: true})
	output := buf.String()
	assert.Contains(t, output, "lever")
	assert.Contains(t, output, "headless browser")
	assert.Contains(t, output, "abcdef0123456...")

	buf.Reset()
	p.PrintSource(nil)
	assert.Empty(t, buf.String())
}

func TestPrintClassifierStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintClassifierStats(classifier.Stats{
		Available:       true,
		Embedder:        "ngram/512",
		Classifications: 10,
		Kept:            8,
		Filtered:        2,
		FilterRate:      0.2,
		AvgTime:         time.Millisecond,
	})

	output := buf.String()
	assert.Contains(t, output, "ngram/512")
	assert.Contains(t, output, "8 / 2 (20.0% filtered)")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("a", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}
