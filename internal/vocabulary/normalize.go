// Package vocabulary loads and indexes the skill vocabulary: canonical names,
// the specificity hierarchy, importance weights and the rule-based filters used
// when semantic classification is unavailable.
package vocabulary

import "strings"

// Normalize lowercases s and drops every character outside [a-z0-9].
// It is the sole key for duplicate detection and override membership.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// canonicalAliases maps known surface variants to their canonical form.
var canonicalAliases = map[string]string{
	"node.js": "node", "nodejs": "node", "node js": "node",

	"javascript": "javascript", "js": "javascript", "ecmascript": "javascript",
	"typescript": "typescript", "ts": "typescript",

	"python": "python", "py": "python", "python3": "python", "python 3": "python",
	"java": "java", "java se": "java", "java ee": "java",

	"c#": "csharp", "c sharp": "csharp", "csharp": "csharp",
	"c++": "cpp", "c plus plus": "cpp", "cpp": "cpp",

	".net": "dotnet", "dotnet": "dotnet", ".net core": "dotnet",
	"asp.net": "aspnet", "aspnet": "aspnet",

	"react": "react", "react.js": "react", "reactjs": "react",
	"vue": "vue", "vue.js": "vue", "vuejs": "vue",
	"angular": "angular", "angularjs": "angular", "angular.js": "angular",

	"sql": "sql", "structured query language": "sql",
	"aws": "aws", "amazon web services": "aws",
	"docker": "docker", "docker container": "docker",
	"kubernetes": "kubernetes", "k8s": "kubernetes", "kube": "kubernetes",
	"git": "git", "git version control": "git",

	"rest": "rest api", "rest api": "rest api", "restful": "rest api", "restful api": "rest api",
	"graphql": "graphql", "graph ql": "graphql",

	"html": "html", "html5": "html",
	"css": "css", "css3": "css",

	"machine learning": "machine learning", "ml": "machine learning",
	"artificial intelligence": "artificial intelligence", "ai": "artificial intelligence",
	"data science":   "data science",
	"data analytics": "data analytics",
	"data analysis":  "data analysis",
}

// normalizedAliases indexes canonicalAliases by Normalize(key). Keys whose
// normalized forms collide ("c++" and "c#" both reduce to "c") are left out.
var normalizedAliases = buildNormalizedAliases()

func buildNormalizedAliases() map[string]string {
	out := make(map[string]string, len(canonicalAliases))
	conflicts := make(map[string]bool)
	for key, canonical := range canonicalAliases {
		n := Normalize(key)
		if n == "" {
			continue
		}
		if existing, ok := out[n]; ok && existing != canonical {
			conflicts[n] = true
			continue
		}
		out[n] = canonical
	}
	for n := range conflicts {
		delete(out, n)
	}
	return out
}

// Canonicalize resolves a surface form through the static alias table: exact
// lower-case key first, then normalized key, else the normalized surface itself.
func Canonicalize(surface string) string {
	lower := strings.ToLower(strings.TrimSpace(surface))
	if canonical, ok := canonicalAliases[lower]; ok {
		return canonical
	}
	n := Normalize(lower)
	if canonical, ok := normalizedAliases[n]; ok {
		return canonical
	}
	return n
}
