package tokenize

import (
	"testing"

	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(doc *Doc) []string {
	out := make([]string, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenize_TechnicalTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "skill list",
			input:    "Must have skills: Java, Spring Boot, C++ and Node.js.",
			expected: []string{"Must", "have", "skills", ":", "Java", ",", "Spring", "Boot", ",", "C++", "and", "Node.js", "."},
		},
		{
			name:     "dotted acronym keeps its dot",
			input:    "Experience with R.A.G. pipelines",
			expected: []string{"Experience", "with", "R.A.G.", "pipelines"},
		},
		{
			name:     "slash compounds",
			input:    "CI/CD and Java/Python (AWS)",
			expected: []string{"CI/CD", "and", "Java", "/", "Python", "(", "AWS", ")"},
		},
		{
			name:     "leading dot and possessive",
			input:    ".NET developer's C#",
			expected: []string{".NET", "developer", "'s", "C#"},
		},
		{
			name:     "hyphenated",
			input:    "scikit-learn, front-end",
			expected: []string{"scikit-learn", ",", "front-end"},
		},
		{
			name:     "empty",
			input:    "   ",
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, texts(Tokenize(tt.input)))
		})
	}
}

func TestTokenize_Offsets(t *testing.T) {
	text := "Go and C++"
	doc := Tokenize(text)
	for _, tok := range doc.Tokens {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
	assert.Equal(t, "and C++", doc.SpanText(types.Span{Start: 1, End: 3}))
	assert.Equal(t, "", doc.SpanText(types.Span{Start: 2, End: 9}))
}

func TestTokenize_Newlines(t *testing.T) {
	doc := Tokenize("Python\n\nDocker")
	require.Len(t, doc.Tokens, 3)
	assert.True(t, doc.Tokens[1].IsSpace)
	assert.Equal(t, Space, doc.Tokens[1].POS)
	assert.Empty(t, doc.Tokens[1].Key)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"rag"}, Keys("R.A.G."))
	assert.Equal(t, []string{"rag"}, Keys("R.A.G"))
	assert.Equal(t, []string{"c++"}, Keys("C++"))
	assert.Equal(t, []string{"c#"}, Keys("c#"))
	assert.Equal(t, []string{"spring", "boot"}, Keys("Spring Boot"))
	assert.Equal(t, []string{"nodejs"}, Keys("node.js"))
	assert.Equal(t, []string{"cicd", "pipeline"}, Keys("CI/CD pipeline"))
	assert.Empty(t, Keys("..."))
}

func TestTag(t *testing.T) {
	doc := Tokenize("We use Python and Docker daily")
	pos := make([]POS, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		pos = append(pos, tok.POS)
	}
	assert.Equal(t, []POS{Pronoun, Verb, ProperNoun, Conjunction, ProperNoun, Adverb}, pos)
}

func TestTag_ContextCorrections(t *testing.T) {
	doc := Tokenize("the build will design")
	assert.Equal(t, Noun, doc.Tokens[1].POS)
	assert.Equal(t, Verb, doc.Tokens[3].POS)
}

func TestTag_TechnicalTokensAreProperNouns(t *testing.T) {
	doc := Tokenize("experience with node.js and k8s and SQL")
	assert.Equal(t, ProperNoun, doc.Tokens[2].POS)
	assert.Equal(t, ProperNoun, doc.Tokens[4].POS)
	assert.Equal(t, ProperNoun, doc.Tokens[6].POS)
}

func TestLemmas(t *testing.T) {
	doc := Tokenize("using skills pipelines programming")
	lemmas := make([]string, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		lemmas = append(lemmas, tok.Lemma)
	}
	assert.Equal(t, []string{"use", "skill", "pipeline", "program"}, lemmas)
}

func TestEntities(t *testing.T) {
	doc := Tokenize("Experience with Python and Docker at Acme Corp")
	ents := doc.Entities()
	require.Len(t, ents, 3)
	assert.Equal(t, "Python", ents[0].Text)
	assert.Equal(t, LabelLanguage, ents[0].Label)
	assert.Equal(t, "Docker", ents[1].Text)
	assert.Equal(t, LabelProduct, ents[1].Label)
	assert.Equal(t, "Acme Corp", ents[2].Text)
	assert.Equal(t, LabelOrg, ents[2].Label)
}

func TestNounChunks(t *testing.T) {
	doc := Tokenize("strong experience with distributed systems")
	assert.Equal(t, []types.Span{{Start: 0, End: 2}, {Start: 3, End: 5}}, doc.NounChunks())
}
