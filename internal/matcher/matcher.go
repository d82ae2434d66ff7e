// Package matcher finds vocabulary phrases in tokenized text. Phrases are
// compiled into a trie over token keys so that matching is linear in the
// number of tokens times the longest phrase.
package matcher

import (
	"sort"
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/tokenize"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

type node struct {
	children map[string]*node
	terminal bool
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Matcher is an immutable phrase matcher, safe for concurrent use.
type Matcher struct {
	root    *node
	phrases int
}

// New compiles phrases. Phrases without any token key are ignored.
func New(phrases []string) *Matcher {
	m := &Matcher{root: newNode()}
	for _, phrase := range phrases {
		keys := tokenize.Keys(phrase)
		if len(keys) == 0 {
			continue
		}
		n := m.root
		for _, k := range keys {
			child, ok := n.children[k]
			if !ok {
				child = newNode()
				n.children[k] = child
			}
			n = child
		}
		if !n.terminal {
			n.terminal = true
			m.phrases++
		}
	}
	return m
}

// Len returns the number of distinct compiled phrases.
func (m *Matcher) Len() int {
	return m.phrases
}

// Match returns one candidate per distinct matched phrase. Matches strictly
// contained in a longer match are dropped; partially overlapping matches are
// both kept. Candidates are ordered by first occurrence.
func (m *Matcher) Match(doc *tokenize.Doc) []types.MatchCandidate {
	spans := m.spans(doc)

	byKey := make(map[string]*types.MatchCandidate)
	var order []string
	for _, span := range spans {
		key := spanKey(doc, span)
		if c, ok := byKey[key]; ok {
			c.Frequency++
			c.Spans = append(c.Spans, span)
			continue
		}
		surface := doc.SpanText(span)
		byKey[key] = &types.MatchCandidate{
			SurfaceText:    surface,
			NormalizedText: vocabulary.Normalize(surface),
			Frequency:      1,
			Spans:          []types.Span{span},
		}
		order = append(order, key)
	}

	out := make([]types.MatchCandidate, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].FirstSpan(), out[j].FirstSpan()
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})
	return out
}

// spans returns the longest match at every start position, minus those
// strictly inside another match, ordered by start.
func (m *Matcher) spans(doc *tokenize.Doc) []types.Span {
	var found []types.Span
	for i := range doc.Tokens {
		n := m.root
		end := -1
		for j := i; j < len(doc.Tokens); j++ {
			key := doc.Tokens[j].Key
			if key == "" || doc.Tokens[j].IsSpace {
				break
			}
			child, ok := n.children[key]
			if !ok {
				break
			}
			n = child
			if n.terminal {
				end = j + 1
			}
		}
		if end > 0 {
			found = append(found, types.Span{Start: i, End: end})
		}
	}

	out := found[:0:0]
	for i, s := range found {
		contained := false
		for j, other := range found {
			if i != j && other.Contains(s) && other != s {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, s)
		}
	}
	return out
}

func spanKey(doc *tokenize.Doc, span types.Span) string {
	keys := make([]string, 0, span.Len())
	for _, tok := range doc.Tokens[span.Start:span.End] {
		keys = append(keys, tok.Key)
	}
	return strings.Join(keys, " ")
}
