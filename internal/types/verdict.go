package types

import "fmt"

// Tier is the importance category assigned by the semantic classifier.
type Tier string

// Tier values
const (
	TierImportant     Tier = "important"
	TierLessImportant Tier = "less_important"
	TierNonTechnical  Tier = "non_technical"
)

// ParseTier converts a string into a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierImportant, TierLessImportant, TierNonTechnical:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// IsTechnical reports whether the tier is one of the two technical tiers.
func (t Tier) IsTechnical() bool {
	return t == TierImportant || t == TierLessImportant
}

// Similarities holds the maximum cosine similarity against each exemplar set.
type Similarities struct {
	Important     float64 `json:"important"`
	LessImportant float64 `json:"less_important"`
	NonTech       float64 `json:"non_technical"`
}

// Tech returns max(Important, LessImportant).
func (s Similarities) Tech() float64 {
	return max(s.Important, s.LessImportant)
}

// Max returns the highest similarity across all three sets.
func (s Similarities) Max() float64 {
	return max(s.Important, s.LessImportant, s.NonTech)
}

// ClassificationVerdict is the per-phrase output of the semantic classifier.
type ClassificationVerdict struct {
	Phrase       string       `json:"phrase"`
	Tier         Tier         `json:"tier"`
	Similarities Similarities `json:"scores"`
	Confidence   float64      `json:"confidence"`
	IsTechnical  bool         `json:"is_technical"`
	IsRelevant   bool         `json:"is_relevant"`
	// FailedOpen is set when encoding failed and the phrase was let through.
	FailedOpen bool `json:"failed_open,omitempty"`
}
