package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Python", "python"},
		{"drops punctuation", "Node.js", "nodejs"},
		{"drops spaces", "Spring Boot", "springboot"},
		{"dotted acronym", "R.A.G.", "rag"},
		{"keeps digits", "Python 3", "python3"},
		{"plus signs dropped", "C++.", "c"},
		{"empty", "", ""},
		{"only punctuation", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"C++.", "c++", "Node.JS", "  R.A.G ", "scikit-learn", "CI/CD", "Ünïcode", "k8s"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
	assert.Equal(t, Normalize("c++"), Normalize("C++."))
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"exact alias", "node.js", "node"},
		{"case-insensitive", "ReactJS", "react"},
		{"normalized alias", "Node-JS", "node"},
		{"short form", "k8s", "kubernetes"},
		{"c sharp", "C#", "csharp"},
		{"c plus plus", "C++", "cpp"},
		{"unknown falls back to normalize", "Apache Kafka", "apachekafka"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.input))
		})
	}
}

func TestCanonicalize_AliasesAgree(t *testing.T) {
	assert.Equal(t, Canonicalize("vue.js"), Canonicalize("Vue"))
	assert.Equal(t, Canonicalize("angular.js"), Canonicalize("AngularJS"))
	assert.NotEqual(t, Canonicalize("c#"), Canonicalize("c++"))
}
