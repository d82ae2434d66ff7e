package skills

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/tokenize"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

// maxDiscoveredWords bounds the length of phrases found outside the vocabulary.
const maxDiscoveredWords = 4

// discover proposes phrases the vocabulary did not match: noun chunks that
// share no token with a vocabulary match, and proper nouns left uncovered
// inside partially matched chunks. The results have no canonical form and
// must be confirmed by the classifier.
func discover(doc *tokenize.Doc, matched []types.MatchCandidate) []types.MatchCandidate {
	covered := make([]bool, doc.Len())
	for _, c := range matched {
		for _, s := range c.Spans {
			for i := s.Start; i < s.End; i++ {
				covered[i] = true
			}
		}
	}

	var spans []types.Span
	for _, chunk := range doc.NounChunks() {
		free := true
		for i := chunk.Start; i < chunk.End; i++ {
			if covered[i] {
				free = false
				break
			}
		}
		if free {
			if chunk.Len() <= maxDiscoveredWords {
				spans = append(spans, chunk)
			}
			continue
		}
		for i := chunk.Start; i < chunk.End; i++ {
			if !covered[i] && doc.Tokens[i].POS == tokenize.ProperNoun {
				spans = append(spans, types.Span{Start: i, End: i + 1})
			}
		}
	}

	byKey := make(map[string]int)
	var out []types.MatchCandidate
	for _, span := range spans {
		surface := doc.SpanText(span)
		if len(vocabulary.Normalize(surface)) < 2 {
			continue
		}
		key := strings.ToLower(surface)
		if idx, ok := byKey[key]; ok {
			out[idx].Frequency++
			out[idx].Spans = append(out[idx].Spans, span)
			continue
		}
		byKey[key] = len(out)
		out = append(out, types.MatchCandidate{
			SurfaceText:    surface,
			NormalizedText: vocabulary.Normalize(surface),
			Frequency:      1,
			Spans:          []types.Span{span},
		})
	}
	return out
}
