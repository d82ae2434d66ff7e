package types

// Span is a half-open range of token indices [Start, End).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one token.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// MatchCandidate is a text span matched against the vocabulary, pending validation.
// Frequency and Spans are filled during the matching pass; the candidate is
// read-only once handed to resolution.
type MatchCandidate struct {
	SurfaceText    string  `json:"surface_text"`
	NormalizedText string  `json:"normalized_text"`
	CanonicalForm  *string `json:"canonical_form,omitempty"` // nil: not in vocabulary
	Frequency      int     `json:"frequency"`
	Spans          []Span  `json:"spans"`
	Weight         float64 `json:"weight"`
}

// InVocabulary reports whether the candidate resolved to a vocabulary entry.
func (c *MatchCandidate) InVocabulary() bool {
	return c.CanonicalForm != nil
}

// FirstSpan returns the earliest occurrence of the candidate.
func (c *MatchCandidate) FirstSpan() Span {
	if len(c.Spans) == 0 {
		return Span{}
	}
	return c.Spans[0]
}
