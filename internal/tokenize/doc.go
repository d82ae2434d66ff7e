// Package tokenize splits job-description text into tokens, tags them with
// coarse parts of speech and derives noun chunks and named entities. It keeps
// technical tokens such as "c++", "node.js", "ci/cd" and "R.A.G." whole.
package tokenize

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// POS is a coarse part-of-speech tag.
type POS string

// Universal part-of-speech tags used by the tagger.
const (
	Noun        POS = "NOUN"
	ProperNoun  POS = "PROPN"
	Verb        POS = "VERB"
	Adjective   POS = "ADJ"
	Adverb      POS = "ADV"
	Determiner  POS = "DET"
	Adposition  POS = "ADP"
	Auxiliary   POS = "AUX"
	Pronoun     POS = "PRON"
	Conjunction POS = "CCONJ"
	Number      POS = "NUM"
	Punctuation POS = "PUNCT"
	Space       POS = "SPACE"
	Other       POS = "X"
)

// IsNominal reports NOUN and PROPN.
func (p POS) IsNominal() bool {
	return p == Noun || p == ProperNoun
}

// Entity labels.
const (
	LabelProduct  = "PRODUCT"
	LabelLanguage = "LANGUAGE"
	LabelOrg      = "ORG"
)

// Token is one token of a Doc. Start and End are byte offsets into Doc.Text.
type Token struct {
	Text    string
	Lower   string
	Key     string // matcher key: lower-case, only [a-z0-9+#]
	Lemma   string
	POS     POS
	IsPunct bool
	IsSpace bool
	LikeNum bool
	Start   int
	End     int
}

// Entity is a named-entity span over token indices.
type Entity struct {
	types.Span
	Label string
	Text  string
}

// Doc is a tokenized and tagged text.
type Doc struct {
	Text     string
	Tokens   []Token
	entities []Entity
}

// Len returns the number of tokens.
func (d *Doc) Len() int {
	return len(d.Tokens)
}

// SpanText returns the original text covered by a token span.
func (d *Doc) SpanText(s types.Span) string {
	if s.Start < 0 || s.End > len(d.Tokens) || s.Start >= s.End {
		return ""
	}
	return d.Text[d.Tokens[s.Start].Start:d.Tokens[s.End-1].End]
}

// Entities returns the named entities found in the text.
func (d *Doc) Entities() []Entity {
	return d.entities
}

// NounChunks returns maximal runs of adjectives, numbers and nouns that end in
// a noun. Leading determiners and trailing modifiers are not included.
func (d *Doc) NounChunks() []types.Span {
	var chunks []types.Span
	i := 0
	for i < len(d.Tokens) {
		if !chunkable(d.Tokens[i].POS) {
			i++
			continue
		}
		start := i
		lastNoun := -1
		for i < len(d.Tokens) && chunkable(d.Tokens[i].POS) {
			if d.Tokens[i].POS.IsNominal() {
				lastNoun = i
			}
			i++
		}
		if lastNoun >= 0 {
			chunks = append(chunks, types.Span{Start: start, End: lastNoun + 1})
		}
	}
	return chunks
}

func chunkable(p POS) bool {
	return p == Noun || p == ProperNoun || p == Adjective || p == Number
}

// languages labels single-token entities as LANGUAGE.
var languages = map[string]bool{
	"python": true, "java": true, "javascript": true, "typescript": true, "go": true,
	"golang": true, "rust": true, "ruby": true, "php": true, "scala": true, "kotlin": true,
	"swift": true, "c": true, "c++": true, "c#": true, "r": true, "matlab": true, "perl": true,
	"sql": true, "html": true, "css": true, "bash": true, "elixir": true, "haskell": true,
	"dart": true, "lua": true, "julia": true, "groovy": true, "clojure": true, "f#": true,
}

// products labels entities as PRODUCT even without technical punctuation.
var products = map[string]bool{
	"docker": true, "kubernetes": true, "react": true, "angular": true, "vue": true,
	"django": true, "flask": true, "spring": true, "terraform": true, "ansible": true,
	"jenkins": true, "git": true, "github": true, "gitlab": true, "jira": true,
	"aws": true, "azure": true, "gcp": true, "mysql": true, "postgresql": true,
	"postgres": true, "mongodb": true, "redis": true, "kafka": true, "spark": true,
	"hadoop": true, "tensorflow": true, "pytorch": true, "pandas": true, "numpy": true,
	"linux": true, "excel": true, "tableau": true, "salesforce": true, "figma": true,
	"elasticsearch": true, "graphql": true, "rabbitmq": true, "airflow": true,
	"snowflake": true, "databricks": true, "langchain": true, "openai": true,
}

// labelEntities groups consecutive proper nouns into entities.
func labelEntities(doc *Doc) []Entity {
	var out []Entity
	i := 0
	for i < len(doc.Tokens) {
		if doc.Tokens[i].POS != ProperNoun {
			i++
			continue
		}
		start := i
		for i < len(doc.Tokens) && doc.Tokens[i].POS == ProperNoun {
			i++
		}
		span := types.Span{Start: start, End: i}
		out = append(out, Entity{Span: span, Label: entityLabel(doc.Tokens[start:i]), Text: doc.SpanText(span)})
	}
	return out
}

func entityLabel(tokens []Token) string {
	if len(tokens) == 1 && languages[tokens[0].Lower] {
		return LabelLanguage
	}
	for _, tok := range tokens {
		if products[tok.Lower] || looksTechnical(tok.Text) {
			return LabelProduct
		}
	}
	return LabelOrg
}

// looksTechnical reports tokens with technical punctuation or mixed digits,
// such as "node.js", "c++", "ec2" or "k8s".
func looksTechnical(text string) bool {
	hasLetter, hasDigit := false, false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		}
	}
	if !hasLetter {
		return false
	}
	return hasDigit || strings.ContainsAny(text, ".+#/")
}
