package vocabulary

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	data := "\ufeffSkill,Type\n" +
		"Python,language\n" +
		"\"Spring Boot\",framework\n" +
		"x,short\n" +
		"\n" +
		"\"Machine\nLearning\",field\n" +
		"Kubernetes\n"

	phrases, err := ReadCSV(context.Background(), strings.NewReader(data), "Skill")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Spring Boot", "Machine Learning", "Kubernetes"}, phrases)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader("Name\nPython\n"), "Skill")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Error(), `column "Skill" not found`)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(context.Background(), strings.NewReader(""), "Skill")
	assert.Error(t, err)
}

func TestCSVSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.csv")
	require.NoError(t, os.WriteFile(path, []byte("Id,Skill\n1,Go lang\n2\n3,Rust\n"), 0o644))

	src := NewCSVSource(path)
	assert.Equal(t, path, src.Name())

	phrases, err := src.Phrases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go lang", "Rust"}, phrases)
}

func TestCleanPhrase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{`"Docker"`, "Docker", true},
		{"  SQL \n", "SQL", true},
		{"a\nb", "a b", true},
		{"x", "", false},
		{`""`, "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanPhrase(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestParseOntology(t *testing.T) {
	o, err := ParseOntology("inline", []byte(`{
		"skills": {
			"Spring Boot": {"type": "framework", "parents": ["spring"], "aliases": ["SpringBoot"]},
			"Kafka": {"type": "tool"},
			"Spring-Boot": {"type": "framework"}
		}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 2, o.Len())
	entry, ok := o.Lookup("springboot")
	require.True(t, ok)
	assert.Equal(t, "spring boot", entry.CanonicalName)
	assert.Equal(t, 2, entry.Weight)

	kafka, ok := o.Lookup("KAFKA")
	require.True(t, ok)
	assert.Equal(t, WeightTool, kafka.Weight)

	assert.Equal(t, []string{"kafka", "spring boot"}, o.Names())
	assert.Equal(t, []string{"spring"}, o.Edges()["spring boot"])
}

func TestParseOntology_SchemaViolation(t *testing.T) {
	_, err := ParseOntology("bad", []byte(`{"skills": {"Kafka": {"weight": 7}}}`))
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "bad", loadErr.Source)
}

func TestLoadOntology_MissingFile(t *testing.T) {
	o, err := LoadOntology(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, o.Len())
}

func TestOntology_NilIsEmpty(t *testing.T) {
	var o *Ontology
	_, ok := o.Lookup("java")
	assert.False(t, ok)
	assert.Equal(t, 0, o.Len())
	assert.Empty(t, o.Edges())
	assert.Nil(t, o.Names())
}
