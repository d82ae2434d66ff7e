package skills

import (
	"sort"
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// Relations answers direct parent/child questions about skill names.
type Relations interface {
	Related(a, b string) bool
}

// Candidate is a validated, weighted skill awaiting overlap resolution.
type Candidate struct {
	Name      string
	Canonical string
	Weight    float64
	Frequency int
	Override  bool
	Verdict   *types.ClassificationVerdict
}

func (c Candidate) wordCount() int {
	return len(strings.Fields(c.Name))
}

// Resolve drops candidates that are a direct parent or child of a
// higher-ranked candidate. Rank is weight descending, then word count
// descending, then lower-case name, so the kept set does not depend on the
// input order. The result is in rank order.
func Resolve(cands []Candidate, rel Relations) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if wa, wb := a.wordCount(), b.wordCount(); wa != wb {
			return wa > wb
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	kept := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		if !relatedToAny(c, kept, rel) {
			kept = append(kept, c)
		}
	}
	return kept
}

func relatedToAny(c Candidate, kept []Candidate, rel Relations) bool {
	if rel == nil {
		return false
	}
	for _, k := range kept {
		if rel.Related(c.Name, k.Name) || rel.Related(c.Canonical, k.Canonical) {
			return true
		}
	}
	return false
}
