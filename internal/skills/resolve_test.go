package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentorque/Extension-Free-backend/internal/tokenize"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

func names(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Name)
	}
	return out
}

func TestResolve_KeepsExactlyOneOfRelatedPair(t *testing.T) {
	h := vocabulary.NewHierarchy(map[string][]string{"spring boot": {"spring"}})

	tests := []struct {
		name  string
		input []Candidate
		want  []string
	}{
		{
			name: "equal weight prefers more words",
			input: []Candidate{
				{Name: "Spring", Canonical: "spring", Weight: 2},
				{Name: "Spring Boot", Canonical: "springboot", Weight: 2},
			},
			want: []string{"Spring Boot"},
		},
		{
			name: "heavier parent wins",
			input: []Candidate{
				{Name: "Spring Boot", Canonical: "springboot", Weight: 2},
				{Name: "Spring", Canonical: "spring", Weight: 3},
			},
			want: []string{"Spring"},
		},
		{
			name: "unrelated skills are all kept",
			input: []Candidate{
				{Name: "SQL", Canonical: "sql", Weight: 3},
				{Name: "Java", Canonical: "java", Weight: 3},
				{Name: "Docker", Canonical: "docker", Weight: 1},
			},
			want: []string{"Java", "SQL", "Docker"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Resolve(tt.input, h)))

			reversed := make([]Candidate, len(tt.input))
			for i, c := range tt.input {
				reversed[len(tt.input)-1-i] = c
			}
			assert.Equal(t, tt.want, names(Resolve(reversed, h)), "order independent")
		})
	}
}

func TestResolve_NilRelations(t *testing.T) {
	in := []Candidate{{Name: "b", Weight: 1}, {Name: "a", Weight: 1}}
	assert.Equal(t, []string{"a", "b"}, names(Resolve(in, nil)))
	assert.Empty(t, Resolve(nil, nil))
}

func TestFrequencyBoost(t *testing.T) {
	assert.Equal(t, 3.0, FrequencyBoost(3, 1))
	assert.Equal(t, 3.0, FrequencyBoost(3, 0))
	assert.Equal(t, 4.0, FrequencyBoost(3, 3))
	assert.Equal(t, 5.0, FrequencyBoost(3, 5))
	assert.Equal(t, 5.0, FrequencyBoost(3, 50))

	for _, w := range []float64{0, 1, 2, 3} {
		prev := FrequencyBoost(w, 1)
		for f := 2; f <= 20; f++ {
			got := FrequencyBoost(w, f)
			assert.GreaterOrEqual(t, got, prev)
			assert.LessOrEqual(t, got-w, 2.0)
			prev = got
		}
	}
}

func TestFallbackWeight(t *testing.T) {
	assert.Equal(t, 2.0, FallbackWeight(types.TierImportant, true))
	assert.Equal(t, 1.0, FallbackWeight(types.TierLessImportant, true))
	assert.Equal(t, 1.0, FallbackWeight(types.TierImportant, false))
}

func TestIsBlacklisted(t *testing.T) {
	tests := map[string]bool{
		"IT":                             true,
		"Computer Science":               true,
		"code review":                    true,
		"Software Development Lifecycle": true,
		"science":                        true,
		"Git":                            false,
		"Python":                         false,
		"Kubernetes":                     false,
		"":                               false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsBlacklisted(in), in)
	}
}

func TestBucket(t *testing.T) {
	imp := important()
	less := lessImportant()
	non := nonTechnical()
	weak := types.ClassificationVerdict{Similarities: types.Similarities{Important: 0.2, LessImportant: 0.1, NonTech: 0.1}}
	failed := types.ClassificationVerdict{FailedOpen: true, IsTechnical: true}

	tests := []struct {
		name    string
		skill   string
		weight  float64
		verdict *types.ClassificationVerdict
		want    types.Tier
	}{
		{"closest set important", "Kafka", 1, &imp, types.TierImportant},
		{"closest set less important", "Jira", 3, &less, types.TierLessImportant},
		{"closest set non-technical", "Lunch", 3, &non, types.TierNonTechnical},
		{"weak similarity uses weight", "Zig", 2, &weak, types.TierImportant},
		{"failed open uses weight", "Zig", 1, &failed, types.TierLessImportant},
		{"no verdict uses weight", "Zig", 0.5, nil, types.TierNonTechnical},
		{"blacklisted never important", "Programming", 3, &imp, types.TierLessImportant},
		{"blacklisted closer to non-tech", "Coding", 3, &non, types.TierNonTechnical},
		{"blacklisted field without verdict", "Computer Science", 3, nil, types.TierNonTechnical},
		{"blacklisted term without verdict", "Programming", 3, nil, types.TierLessImportant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bucket(tt.skill, tt.weight, tt.verdict))
		})
	}
}

func TestHasSkillContext(t *testing.T) {
	tests := []struct {
		name string
		text string
		span types.Span
		want bool
	}{
		{"preceded by skill verb", "Experience with Kafka", types.Span{Start: 2, End: 3}, true},
		{"preceded by list heading", "Required skills : kafka", types.Span{Start: 3, End: 4}, true},
		{"proper noun", "They adopted Kafka", types.Span{Start: 2, End: 3}, true},
		{"verb without context", "they will scale quickly", types.Span{Start: 2, End: 3}, false},
		{"empty span", "Kafka", types.Span{Start: 0, End: 0}, false},
		{"out of range", "Kafka", types.Span{Start: 0, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tokenize.Tokenize(tt.text)
			assert.Equal(t, tt.want, HasSkillContext(doc, tt.span))
		})
	}
}

func TestDiscover(t *testing.T) {
	doc := tokenize.Tokenize("Experience with Zorblax and Python")
	matched := []types.MatchCandidate{{SurfaceText: "Python", Frequency: 1, Spans: []types.Span{{Start: 4, End: 5}}}}

	found := discover(doc, matched)
	var surfaces []string
	for _, c := range found {
		surfaces = append(surfaces, c.SurfaceText)
		assert.False(t, c.InVocabulary())
	}
	assert.Contains(t, surfaces, "Zorblax")
	assert.NotContains(t, surfaces, "Python")
}
