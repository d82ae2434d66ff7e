package vocabulary

import (
	"sort"
	"strings"
)

// builtinParents lists specific phrases and the more generic phrases they refine.
var builtinParents = map[string][]string{
	"spring boot":      {"spring", "boot"},
	"spring framework": {"spring"},
	"react.js":         {"react"},
	"react native":     {"react"},
	"vue.js":           {"vue"},
	"angular.js":       {"angular"},
	"node.js":          {"node", "nodejs"},
	"next.js":          {"next"},
	"express.js":       {"express"},

	"relational databases": {"databases", "database"},
	"nosql databases":      {"databases", "database"},
	"sql databases":        {"databases", "database"},
	"mysql database":       {"mysql", "database"},
	"postgresql database":  {"postgresql", "postgres", "database"},
	"mongodb database":     {"mongodb", "mongo", "database"},

	"aws services":   {"aws", "services"},
	"azure services": {"azure", "services"},
	"gcp services":   {"gcp", "google cloud", "services"},

	"rest api":    {"rest", "api", "apis"},
	"graphql api": {"graphql", "api", "apis"},
	"restful api": {"rest", "restful", "api", "apis"},
	"web api":     {"web", "api", "apis"},

	"docker containers":   {"docker", "containers", "container"},
	"kubernetes cluster":  {"kubernetes", "k8s", "cluster"},
	"git version control": {"git", "version control"},
	"ci/cd pipeline":      {"ci/cd", "cicd", "pipeline"},

	"javascript programming": {"javascript", "js", "programming"},
	"python programming":     {"python", "py", "programming"},
	"java programming":       {"java", "programming"},
}

// Hierarchy is a directed acyclic graph of specificity relations keyed by
// lower-case names. It is immutable once built.
type Hierarchy struct {
	parents  map[string][]string
	children map[string][]string
}

// NewHierarchy builds a hierarchy from child -> parents edges. The built-in
// edges are always included.
func NewHierarchy(edges map[string][]string) *Hierarchy {
	h := &Hierarchy{
		parents:  make(map[string][]string),
		children: make(map[string][]string),
	}
	for child, parents := range builtinParents {
		h.add(child, parents)
	}
	for child, parents := range edges {
		h.add(child, parents)
	}
	for k := range h.parents {
		sort.Strings(h.parents[k])
	}
	for k := range h.children {
		sort.Strings(h.children[k])
	}
	return h
}

func (h *Hierarchy) add(child string, parents []string) {
	child = strings.ToLower(strings.TrimSpace(child))
	if child == "" {
		return
	}
	for _, p := range parents {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || p == child || containsString(h.parents[child], p) {
			continue
		}
		h.parents[child] = append(h.parents[child], p)
		h.children[p] = append(h.children[p], child)
	}
}

// Parents returns the direct parents of name.
func (h *Hierarchy) Parents(name string) []string {
	if h == nil {
		return nil
	}
	return h.parents[strings.ToLower(strings.TrimSpace(name))]
}

// Children returns the direct children of name.
func (h *Hierarchy) Children(name string) []string {
	if h == nil {
		return nil
	}
	return h.children[strings.ToLower(strings.TrimSpace(name))]
}

// Related reports whether a is a direct parent or direct child of b.
func (h *Hierarchy) Related(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return containsString(h.Parents(a), b) || containsString(h.Parents(b), a)
}

// Validate returns a *CycleError when the graph contains a cycle.
func (h *Hierarchy) Validate() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var stack []string

	var visit func(node string) error
	visit = func(node string) error {
		switch state[node] {
		case visiting:
			start := 0
			for i, n := range stack {
				if n == node {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, stack[start:]...), node)
			return &CycleError{Path: cycle}
		case done:
			return nil
		}
		state[node] = visiting
		stack = append(stack, node)
		for _, p := range h.parents[node] {
			if err := visit(p); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	nodes := make([]string, 0, len(h.parents))
	for n := range h.parents {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
