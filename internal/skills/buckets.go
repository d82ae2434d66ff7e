package skills

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// bucketMinSimilarity is the similarity a phrase needs before its closest
// exemplar set decides its bucket; below it the weight decides.
const bucketMinSimilarity = 0.3

// importantBlacklist holds generic terms that are never Important.
var importantBlacklist = [][]string{
	{"computer", "science"}, {"cs"}, {"information", "technology"}, {"it"},
	{"software", "development"}, {"web", "development"}, {"application", "development"},
	{"programming"}, {"coding"}, {"code"}, {"codes"}, {"coded"}, {"coder"}, {"coders"},
	{"software", "engineering"}, {"code", "review"}, {"code", "reviews"},
	{"technical", "skills"}, {"technical", "knowledge"}, {"technical", "writing"},
}

// alwaysNonTechnical are blacklisted degrees and fields rather than skills.
var alwaysNonTechnical = map[string]bool{
	"computer science": true, "cs": true, "information technology": true, "it": true,
}

// IsBlacklisted reports whether name contains a blacklisted term, or is part
// of one, on word boundaries. "IT" is blacklisted; "Git" is not.
func IsBlacklisted(name string) bool {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return false
	}
	for _, term := range importantBlacklist {
		if hasRun(words, term) || hasRun(term, words) {
			return true
		}
	}
	return false
}

// hasRun reports whether needle occurs as a contiguous run inside haystack.
func hasRun(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if haystack[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Bucket assigns an output tier. With a usable verdict the closest exemplar
// set decides; otherwise the weight does. Blacklisted names never land in
// Important.
func Bucket(name string, weight float64, v *types.ClassificationVerdict) types.Tier {
	scored := v != nil && !v.FailedOpen

	if IsBlacklisted(name) {
		if scored {
			s := v.Similarities
			if s.LessImportant > s.NonTech && s.LessImportant > bucketMinSimilarity {
				return types.TierLessImportant
			}
			return types.TierNonTechnical
		}
		if alwaysNonTechnical[strings.ToLower(strings.TrimSpace(name))] {
			return types.TierNonTechnical
		}
		return types.TierLessImportant
	}

	if scored {
		s := v.Similarities
		best := s.Max()
		if best > bucketMinSimilarity {
			switch best {
			case s.Important:
				return types.TierImportant
			case s.LessImportant:
				return types.TierLessImportant
			default:
				return types.TierNonTechnical
			}
		}
	}
	return weightTier(weight)
}

func weightTier(weight float64) types.Tier {
	switch {
	case weight >= 2:
		return types.TierImportant
	case weight >= 1:
		return types.TierLessImportant
	default:
		return types.TierNonTechnical
	}
}
