package vocabulary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrefilter struct {
	available bool
	drop      map[string]bool
	err       error
	calls     int
}

func (p *stubPrefilter) Available() bool { return p.available }

func (p *stubPrefilter) FilterTechnical(_ context.Context, phrases []string, _ float64) ([]string, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	var out []string
	for _, ph := range phrases {
		if !p.drop[strings.ToLower(ph)] {
			out = append(out, ph)
		}
	}
	return out, nil
}

type stubOverrides []string

func (o stubOverrides) Variations() []string { return o }

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s := New(opts)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_Load(t *testing.T) {
	prefilter := &stubPrefilter{available: true, drop: map[string]bool{"teamwork": true}}
	s := newTestStore(t, Options{
		Source:    StaticSource{"Java", "java", "Spring", "Spring Boot", "SQL", "Teamwork", "Node.js", "nodejs", "x"},
		Overrides: stubOverrides{"RAG", "R.A.G", "rag"},
		Prefilter: prefilter,
	})

	assert.Equal(t, 1, prefilter.calls)
	assert.Equal(t, []string{"Java", "Node.js", "R.A.G", "RAG", "SQL", "Spring", "Spring Boot", "nodejs"}, s.Phrases())
	assert.Equal(t, 8, s.Len())

	stats := s.Stats()
	assert.Equal(t, 7, stats.RawPhrases)
	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, 2, stats.OverridesAdded)
}

func TestStore_LoadIsIdempotent(t *testing.T) {
	prefilter := &stubPrefilter{available: true}
	s := New(Options{Source: StaticSource{"Python"}, Prefilter: prefilter})

	require.NoError(t, s.EnsureLoaded(context.Background()))
	require.NoError(t, s.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, prefilter.calls)
	assert.True(t, s.Loaded())
}

func TestStore_PrefilterFailureKeepsEverything(t *testing.T) {
	prefilter := &stubPrefilter{available: true, err: errors.New("boom")}
	s := newTestStore(t, Options{Source: StaticSource{"Python", "Teamwork"}, Prefilter: prefilter})
	assert.Equal(t, []string{"Python", "Teamwork"}, s.Phrases())
}

func TestStore_UnavailablePrefilterIsSkipped(t *testing.T) {
	prefilter := &stubPrefilter{available: false}
	s := newTestStore(t, Options{Source: StaticSource{"Python"}, Prefilter: prefilter})
	assert.Equal(t, 0, prefilter.calls)
	assert.Equal(t, 1, s.Len())
}

func TestStore_BeforeLoad(t *testing.T) {
	s := New(Options{Source: StaticSource{"Python"}})
	assert.False(t, s.Loaded())
	assert.Nil(t, s.Phrases())
	assert.Equal(t, 0, s.Len())
	_, ok := s.Lookup("python")
	assert.False(t, ok)
	assert.Equal(t, 3, s.Weight("python"))
	assert.True(t, s.Related("spring boot", "spring"))
}

func TestStore_CanonicalSkill(t *testing.T) {
	s := newTestStore(t, Options{Source: StaticSource{"Node.js", "nodejs", "RAG", "R.A.G"}})

	got, ok := s.CanonicalSkill("nodejs")
	require.True(t, ok)
	assert.Equal(t, "Node.js", got)

	got, ok = s.CanonicalSkill("r.a.g.")
	require.True(t, ok)
	assert.Equal(t, "R.A.G", got)

	_, ok = s.CanonicalSkill("terraform")
	assert.False(t, ok)
}

func TestStore_Lookup(t *testing.T) {
	s := newTestStore(t, Options{Source: StaticSource{"Node.js", "Spring Boot"}})

	got, ok := s.Lookup("node js")
	require.True(t, ok)
	assert.Equal(t, "Node.js", got)
	assert.True(t, s.Contains("SPRING-BOOT"))
	assert.False(t, s.Contains("kafka"))
}

func TestStore_Ontology(t *testing.T) {
	ontology, err := ParseOntology("test", []byte(`{
		"skills": {
			"Kafka": {"type": "tool", "aliases": ["apache kafka"]},
			"Spring Boot": {"type": "framework", "parents": ["Spring"], "aliases": ["springboot"]},
			"Go": {"type": "language", "weight": 3}
		}
	}`))
	require.NoError(t, err)

	s := newTestStore(t, Options{Source: StaticSource{"Java"}, Ontology: ontology})

	assert.Contains(t, s.Phrases(), "apache kafka")
	assert.Contains(t, s.Phrases(), "kafka")
	assert.Equal(t, 5, s.Stats().OntologyAdded)
	assert.Equal(t, 1, s.Weight("Apache Kafka"))
	assert.Equal(t, 2, s.Weight("springboot"))
	assert.Equal(t, "kafka", s.Canonicalize("apache kafka"))
	assert.True(t, s.IsKnown("kafka"))
	assert.Equal(t, []string{"boot", "spring"}, s.Parents("spring boot"))
}

func TestStore_OntologyCycle(t *testing.T) {
	ontology := NewOntology([]types.SkillEntry{
		{CanonicalName: "alpha", Parents: []string{"beta"}, Type: types.SkillTypeTool, Weight: 1},
		{CanonicalName: "beta", Parents: []string{"alpha"}, Type: types.SkillTypeTool, Weight: 1},
	})
	s := New(Options{Source: StaticSource{"Java"}, Ontology: ontology})

	err := s.Load(context.Background())
	require.Error(t, err)
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.False(t, s.Loaded())
}

func TestNewOntology_LeavesInputOrder(t *testing.T) {
	entries := []types.SkillEntry{
		{CanonicalName: "zookeeper", Type: types.SkillTypeTool, Weight: 1},
		{CanonicalName: "ansible", Type: types.SkillTypeTool, Weight: 1},
	}
	o := NewOntology(entries)
	assert.Equal(t, 2, o.Len())
	assert.Equal(t, "zookeeper", entries[0].CanonicalName)
	assert.Equal(t, "ansible", entries[1].CanonicalName)
}

func TestStore_OntologyPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ontology.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills": {"Kafka": {"type": "tool"}}}`), 0o644))

	s := newTestStore(t, Options{OntologyPath: path})
	assert.Equal(t, 1, s.Ontology().Len())
	assert.Equal(t, []string{"kafka"}, s.Phrases())
}

func TestStore_SourceError(t *testing.T) {
	s := New(Options{Source: NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"))})
	err := s.Load(context.Background())
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.False(t, s.Loaded())
}
