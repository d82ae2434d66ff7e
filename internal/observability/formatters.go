// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/classifier"
	"github.com/mentorque/Extension-Free-backend/internal/ingestion"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintSource outputs where a fetched posting came from.
func (p *Printer) PrintSource(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	var sb strings.Builder
	if meta.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", meta.URL))
	}
	if meta.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", meta.Platform))
	}
	if meta.Rendered {
		sb.WriteString("Rendered: headless browser\n")
	}
	sb.WriteString(fmt.Sprintf("Hash:     %s", truncate(meta.Hash, 16)))
	p.printBox("SOURCE", sb.String())
}

// PrintExtraction outputs the extracted skills grouped by tier, followed by
// the pass statistics.
func (p *Printer) PrintExtraction(result *types.ExtractionResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if len(result.Skills) == 0 {
		sb.WriteString("No skills found\n")
	} else {
		sb.WriteString(fmt.Sprintf("Found %d skills\n\n", len(result.Skills)))
		writeTier(&sb, "Important", result.Important)
		writeTier(&sb, "Less important", result.LessImportant)
		writeTier(&sb, "Non-technical", result.NonTechnical)
	}

	st := result.Stats
	mode := "semantic"
	if !st.ClassifierAvailable {
		mode = "rule-based"
	}
	sb.WriteString(fmt.Sprintf("Mode: %s\n", mode))
	sb.WriteString(fmt.Sprintf("Matches: %d  Unique: %d  Discovered: %d\n", st.TotalMatches, st.UniqueSkills, st.Discovered))
	sb.WriteString(fmt.Sprintf("Filtered: %d garbage, %d low priority, %d out of context",
		st.Filtered, st.LowPriority, st.ContextFiltered))

	p.printBox("EXTRACTED SKILLS", sb.String())
}

func writeTier(sb *strings.Builder, label string, skills []string) {
	if len(skills) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("%s (%d):\n", label, len(skills)))
	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// PrintVerdict outputs the tier of a single skill with its similarity scores.
func (p *Printer) PrintVerdict(v types.ClassificationVerdict, classifierAvailable bool) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tier:       %s\n", v.Tier))
	sb.WriteString(fmt.Sprintf("Technical:  %t\n", v.IsTechnical))
	if classifierAvailable {
		sb.WriteString(fmt.Sprintf("Confidence: %.3f\n", v.Confidence))
		sb.WriteString(fmt.Sprintf("Scores:     important %.3f, less %.3f, non-tech %.3f",
			v.Similarities.Important, v.Similarities.LessImportant, v.Similarities.NonTech))
	} else {
		sb.WriteString("Scores:     n/a (rule-based)")
	}
	p.printBox(strings.ToUpper(v.Phrase), sb.String())
}

// PrintVocabularyReport outputs how many vocabulary phrases fell in each tier.
func (p *Printer) PrintVocabularyReport(summary map[types.Tier]int, out string) {
	total := 0
	for _, n := range summary {
		total += n
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Classified %d phrases\n\n", total))
	for _, tier := range []types.Tier{types.TierImportant, types.TierLessImportant, types.TierNonTechnical} {
		pct := 0.0
		if total > 0 {
			pct = float64(summary[tier]) / float64(total) * 100
		}
		sb.WriteString(fmt.Sprintf("  %-15s %6d (%5.1f%%)\n", tier, summary[tier], pct))
	}
	if out != "" {
		sb.WriteString(fmt.Sprintf("\nReport: %s", out))
	}
	p.printBox("VOCABULARY CLASSIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintClassifierStats outputs the classifier's counters.
func (p *Printer) PrintClassifierStats(st classifier.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Embedder:        %s\n", st.Embedder))
	sb.WriteString(fmt.Sprintf("Available:       %t\n", st.Available))
	sb.WriteString(fmt.Sprintf("Classifications: %d\n", st.Classifications))
	sb.WriteString(fmt.Sprintf("Kept / filtered: %d / %d (%.1f%% filtered)\n", st.Kept, st.Filtered, st.FilterRate*100))
	sb.WriteString(fmt.Sprintf("Avg time:        %s", st.AvgTime))
	p.printBox("CLASSIFIER", sb.String())
}
