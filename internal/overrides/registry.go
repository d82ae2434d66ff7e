// Package overrides holds operator-curated keywords that bypass every filter
// of the extraction pipeline. Each keyword expands into spelling variations
// (case, dotted acronyms, separators) so that "RAG" also matches "R.A.G.".
package overrides

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/mentorque/Extension-Free-backend/internal/schemas"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
	rootschemas "github.com/mentorque/Extension-Free-backend/schemas"
)

// maxAcronymLen bounds the keywords that get letter-by-letter variations.
const maxAcronymLen = 10

type overridesFile struct {
	Keywords []types.CustomOverrideEntry `json:"keywords"`
}

// Registry is an immutable set of override keywords. A nil *Registry is empty.
type Registry struct {
	entries    []types.CustomOverrideEntry
	variations []string
	normalized map[string]string // normalized variation -> base
}

// New builds a registry. Every entry's variations are the union of the
// supplied ones and the generated ones. Entries without a base are skipped.
func New(entries []types.CustomOverrideEntry) *Registry {
	r := &Registry{normalized: make(map[string]string)}
	seen := make(map[string]bool)
	for _, entry := range entries {
		entry.Base = strings.TrimSpace(entry.Base)
		if entry.Base == "" {
			continue
		}
		entry.Variations = GenerateVariations(entry.Base, entry.Variations...)
		for _, v := range entry.Variations {
			if !seen[v] {
				seen[v] = true
				r.variations = append(r.variations, v)
			}
			n := vocabulary.Normalize(v)
			if n == "" {
				continue
			}
			if _, ok := r.normalized[n]; !ok {
				r.normalized[n] = entry.Base
			}
		}
		r.entries = append(r.entries, entry)
	}
	return r
}

// Load reads an overrides JSON file. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Default().With("component", "overrides").Warn("custom keywords file not found", "path", path)
			return New(nil), nil
		}
		return nil, &LoadError{Source: path, Message: "failed to read overrides", Cause: err}
	}
	return Parse(path, data)
}

// Parse validates data against the overrides schema and builds a registry.
func Parse(source string, data []byte) (*Registry, error) {
	if err := schemas.ValidateBytes(rootschemas.Overrides, data); err != nil {
		return nil, &LoadError{Source: source, Message: "overrides do not match schema", Cause: err}
	}
	var file overridesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "invalid JSON", Cause: err}
	}
	r := New(file.Keywords)
	slog.Default().With("component", "overrides").Info("loaded custom keywords",
		"keywords", r.Len(), "variations", len(r.variations), "source", source)
	return r, nil
}

// Contains reports whether phrase normalizes to one of the override variations.
func (r *Registry) Contains(phrase string) bool {
	_, ok := r.Base(phrase)
	return ok
}

// Base returns the override keyword phrase belongs to.
func (r *Registry) Base(phrase string) (string, bool) {
	if r == nil {
		return "", false
	}
	base, ok := r.normalized[vocabulary.Normalize(phrase)]
	return base, ok
}

// Variations returns every variation of every keyword, for the phrase list.
func (r *Registry) Variations() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.variations))
	copy(out, r.variations)
	return out
}

// Entries returns the keywords with their expanded variations.
func (r *Registry) Entries() []types.CustomOverrideEntry {
	if r == nil {
		return nil
	}
	out := make([]types.CustomOverrideEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of keywords.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// GenerateVariations expands base into its spelling variations and merges in
// extra. The result is sorted and free of duplicates.
//
// Every base yields itself, lower, upper and capitalized forms. All-caps bases
// of up to ten characters also yield dotted, dashed and underscored letter
// sequences ("R.A.G", "R-A-G", "R_A_G") with their lower-case forms. Bases
// containing spaces yield hyphen and underscore separated forms.
func GenerateVariations(base string, extra ...string) []string {
	set := make(map[string]struct{})
	add := func(v string) {
		if v != "" {
			set[v] = struct{}{}
		}
	}

	add(base)
	add(strings.ToLower(base))
	add(strings.ToUpper(base))
	runes := []rune(base)
	if len(runes) > 1 {
		add(capitalize(runes))
	}

	if isUpper(base) && len(runes) > 1 && len(runes) <= maxAcronymLen {
		for _, sep := range []string{".", "-", "_"} {
			joined := joinRunes(runes, sep)
			add(joined)
			add(strings.ToLower(joined))
		}
	}

	if strings.Contains(base, " ") {
		for _, sep := range []string{" ", "-", "_"} {
			joined := strings.ReplaceAll(base, " ", sep)
			add(joined)
			add(strings.ToLower(joined))
			add(strings.ToUpper(joined))
		}
	}

	for _, v := range extra {
		add(strings.TrimSpace(v))
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(runes []rune) string {
	out := make([]rune, len(runes))
	for i, r := range runes {
		if i == 0 {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func joinRunes(runes []rune, sep string) string {
	parts := make([]string, len(runes))
	for i, r := range runes {
		parts[i] = string(r)
	}
	return strings.Join(parts, sep)
}
