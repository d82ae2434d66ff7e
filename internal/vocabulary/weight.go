package vocabulary

import (
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// Weight levels
const (
	WeightGeneric   = 0
	WeightTool      = 1
	WeightFramework = 2
	WeightCore      = 3
)

var coreLanguages = setOf(
	"python", "java", "javascript", "typescript", "c++", "cpp", "csharp", "c#",
	"kotlin", "swift", "go", "golang", "rust", "scala", "ruby", "php",
	"r", "matlab", "sql", "html", "css",
)

var majorFrameworks = setOf(
	"react", "angular", "vue", "node", "node.js", "spring", "spring boot",
	"django", "flask", "express", "next.js", "nuxt", "svelte",
	"laravel", "symfony", "rails", "asp.net", "dotnet", ".net",
	"hibernate", "jpa", "junit", "jest", "mocha", "cypress",
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy",
)

var toolsPlatforms = setOf(
	"docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins",
	"git", "github", "gitlab", "jira", "confluence", "slack",
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch",
	"aws", "azure", "gcp", "google cloud", "heroku", "vercel",
)

// weightTables is ordered from the highest weight down.
var weightTables = []struct {
	set    map[string]struct{}
	weight int
}{
	{coreLanguages, WeightCore},
	{majorFrameworks, WeightFramework},
	{toolsPlatforms, WeightTool},
}

// normalizedWeights indexes every table entry by Normalize so that
// "Node-JS" or "nodejs" find "node.js". Colliding keys keep the higher weight.
var normalizedWeights = func() map[string]int {
	out := make(map[string]int)
	for _, table := range weightTables {
		for name := range table.set {
			n := Normalize(name)
			if _, ok := out[n]; !ok && len(n) > 1 {
				out[n] = table.weight
			}
		}
	}
	return out
}()

// StaticWeight returns the built-in importance weight of a phrase: exact match,
// then normalized match, then the highest weight of any whitespace-separated
// word that appears verbatim in a table. Zero means "too generic".
func StaticWeight(phrase string) int {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if lower == "" {
		return WeightGeneric
	}
	for _, table := range weightTables {
		if _, ok := table.set[lower]; ok {
			return table.weight
		}
	}
	if w, ok := normalizedWeights[Normalize(lower)]; ok {
		return w
	}

	words := strings.Fields(lower)
	if len(words) < 2 {
		return WeightGeneric
	}
	for _, table := range weightTables {
		for _, word := range words {
			if _, ok := table.set[word]; ok {
				return table.weight
			}
		}
	}
	return WeightGeneric
}

// inStaticTable reports an exact lower-case hit in one of the weight tables.
func inStaticTable(lower string) bool {
	for _, table := range weightTables {
		if _, ok := table.set[lower]; ok {
			return true
		}
	}
	return false
}

// DefaultWeight derives a weight for an ontology entry that does not carry one.
func DefaultWeight(name string, skillType types.SkillType) int {
	if w := StaticWeight(name); w > 0 {
		return w
	}
	switch skillType {
	case types.SkillTypeLanguage:
		return WeightCore
	case types.SkillTypeFramework, types.SkillTypeLibrary:
		return WeightFramework
	case "":
		return WeightGeneric
	default:
		return WeightTool
	}
}

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, item := range items {
		m[item] = struct{}{}
	}
	return m
}
