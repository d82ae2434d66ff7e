package vocabulary

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPrefilterThreshold is the confidence margin used when narrowing the
// raw vocabulary with the semantic classifier.
const DefaultPrefilterThreshold = 0.15

// Prefilter narrows the raw vocabulary down to technical phrases.
type Prefilter interface {
	Available() bool
	FilterTechnical(ctx context.Context, phrases []string, threshold float64) ([]string, error)
}

// OverrideSet supplies operator-curated phrases that bypass the prefilter.
type OverrideSet interface {
	Variations() []string
}

// Options configures a Store.
type Options struct {
	Source             Source
	OntologyPath       string
	Ontology           *Ontology // takes precedence over OntologyPath
	Overrides          OverrideSet
	Prefilter          Prefilter
	PrefilterThreshold float64
	Logger             *slog.Logger
}

// Stats summarizes the last load.
type Stats struct {
	RawPhrases     int           `json:"raw_phrases"`
	Kept           int           `json:"kept"`
	Filtered       int           `json:"filtered"`
	OverridesAdded int           `json:"overrides_added"`
	OntologyAdded  int           `json:"ontology_added"`
	Phrases        int           `json:"phrases"`
	CanonicalForms int           `json:"canonical_forms"`
	Duration       time.Duration `json:"duration"`
}

// Store is the process-wide vocabulary. It is loaded once and read-only
// afterwards; accessors are safe for concurrent use without locking.
type Store struct {
	opts Options
	log  *slog.Logger

	mu     sync.Mutex
	loaded atomic.Bool

	ontology  *Ontology
	hierarchy *Hierarchy
	phrases   []string
	lookup    map[string]string   // normalized -> first surface form
	canonical map[string]string   // lower-case surface -> canonical form
	reverse   map[string][]string // canonical form -> surface forms
	stats     Stats
}

// New creates an unloaded Store.
func New(opts Options) *Store {
	if opts.PrefilterThreshold == 0 {
		opts.PrefilterThreshold = DefaultPrefilterThreshold
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		opts:      opts,
		log:       log.With("component", "vocabulary"),
		ontology:  opts.Ontology,
		hierarchy: NewHierarchy(opts.Ontology.Edges()),
	}
}

// Load is an alias for EnsureLoaded.
func (s *Store) Load(ctx context.Context) error {
	return s.EnsureLoaded(ctx)
}

// EnsureLoaded loads the vocabulary on first use. Later calls are no-ops; a
// failed load may be retried.
func (s *Store) EnsureLoaded(ctx context.Context) error {
	if s.loaded.Load() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded.Load() {
		return nil
	}
	if err := s.load(ctx); err != nil {
		return err
	}
	s.loaded.Store(true)
	return nil
}

// Loaded reports whether the store has been loaded.
func (s *Store) Loaded() bool {
	return s.loaded.Load()
}

func (s *Store) load(ctx context.Context) error {
	start := time.Now()
	stats := Stats{}

	ontology := s.opts.Ontology
	if ontology == nil && s.opts.OntologyPath != "" {
		o, err := LoadOntology(s.opts.OntologyPath)
		if err != nil {
			return err
		}
		ontology = o
	}
	hierarchy := NewHierarchy(ontology.Edges())
	if err := hierarchy.Validate(); err != nil {
		return &LoadError{Source: "hierarchy", Message: "invalid skill hierarchy", Cause: err}
	}

	var raw []string
	if s.opts.Source != nil {
		phrases, err := s.opts.Source.Phrases(ctx)
		if err != nil {
			return err
		}
		raw = dedupeFold(phrases)
		s.log.Info("loaded raw vocabulary", "source", s.opts.Source.Name(), "phrases", len(raw))
	}
	stats.RawPhrases = len(raw)

	kept := raw
	if s.opts.Prefilter != nil && s.opts.Prefilter.Available() && len(raw) > 0 {
		filtered, err := s.opts.Prefilter.FilterTechnical(ctx, raw, s.opts.PrefilterThreshold)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			s.log.Warn("vocabulary prefilter failed, keeping every phrase", "error", err)
		default:
			kept = filtered
		}
	}
	stats.Kept = len(kept)
	stats.Filtered = len(raw) - len(kept)

	seen := make(map[string]bool, len(kept))
	phrases := make([]string, 0, len(kept))
	for _, p := range kept {
		seen[strings.ToLower(p)] = true
		phrases = append(phrases, p)
	}
	add := func(p string) bool {
		lower := strings.ToLower(strings.TrimSpace(p))
		if lower == "" || seen[lower] {
			return false
		}
		seen[lower] = true
		phrases = append(phrases, strings.TrimSpace(p))
		return true
	}
	for _, name := range ontology.Names() {
		entry, _ := ontology.Lookup(name)
		if add(name) {
			stats.OntologyAdded++
		}
		for _, alias := range entry.Aliases {
			if add(alias) {
				stats.OntologyAdded++
			}
		}
	}
	if s.opts.Overrides != nil {
		for _, v := range s.opts.Overrides.Variations() {
			if add(v) {
				stats.OverridesAdded++
			}
		}
	}
	sort.Strings(phrases)

	s.ontology = ontology
	s.hierarchy = hierarchy
	s.phrases = phrases
	s.lookup = make(map[string]string, len(phrases))
	s.canonical = make(map[string]string, len(phrases))
	s.reverse = make(map[string][]string)
	for _, p := range phrases {
		lower := strings.ToLower(p)
		canonical := s.Canonicalize(lower)
		s.canonical[lower] = canonical
		s.reverse[canonical] = append(s.reverse[canonical], p)
		if n := Normalize(lower); n != "" {
			if _, ok := s.lookup[n]; !ok {
				s.lookup[n] = p
			}
		}
	}

	stats.Phrases = len(phrases)
	stats.CanonicalForms = len(s.reverse)
	stats.Duration = time.Since(start)
	s.stats = stats
	s.log.Info("vocabulary loaded",
		"phrases", stats.Phrases,
		"canonical_forms", stats.CanonicalForms,
		"filtered", stats.Filtered,
		"overrides_added", stats.OverridesAdded,
		"ontology_added", stats.OntologyAdded,
		"duration", stats.Duration)
	return nil
}

// Phrases returns the sorted, case-insensitively de-duplicated phrase list.
func (s *Store) Phrases() []string {
	if !s.loaded.Load() {
		return nil
	}
	out := make([]string, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// Len returns the number of phrases.
func (s *Store) Len() int {
	if !s.loaded.Load() {
		return 0
	}
	return len(s.phrases)
}

// Stats returns the statistics of the last successful load.
func (s *Store) Stats() Stats {
	if !s.loaded.Load() {
		return Stats{}
	}
	return s.stats
}

// Lookup returns the vocabulary surface form sharing surface's normalized key.
func (s *Store) Lookup(surface string) (string, bool) {
	if !s.loaded.Load() {
		return "", false
	}
	p, ok := s.lookup[Normalize(surface)]
	return p, ok
}

// Contains reports whether surface is in the vocabulary, ignoring case and punctuation.
func (s *Store) Contains(surface string) bool {
	_, ok := s.Lookup(surface)
	return ok
}

// Canonicalize resolves a surface form to its canonical form. Ontology aliases
// resolve to their entry; everything else goes through the static alias table.
func (s *Store) Canonicalize(surface string) string {
	if entry, ok := s.ontology.Lookup(surface); ok {
		return Canonicalize(entry.CanonicalName)
	}
	return Canonicalize(surface)
}

// CanonicalSkill returns the preferred surface form of surface's canonical group.
func (s *Store) CanonicalSkill(surface string) (string, bool) {
	if !s.loaded.Load() {
		return "", false
	}
	lower := strings.ToLower(strings.TrimSpace(surface))
	canonical, ok := s.canonical[lower]
	if !ok {
		canonical = s.Canonicalize(lower)
	}
	group := s.reverse[canonical]
	if len(group) == 0 {
		return "", false
	}
	return group[0], true
}

// Weight returns the importance weight of surface: the ontology weight when
// the phrase is curated, otherwise the static tables.
func (s *Store) Weight(surface string) int {
	if entry, ok := s.ontology.Lookup(surface); ok {
		return entry.Weight
	}
	return StaticWeight(surface)
}

// Parents returns the direct parents of name.
func (s *Store) Parents(name string) []string {
	return s.hierarchy.Parents(name)
}

// Children returns the direct children of name.
func (s *Store) Children(name string) []string {
	return s.hierarchy.Children(name)
}

// Related reports whether a and b are in a direct parent/child relation.
func (s *Store) Related(a, b string) bool {
	return s.hierarchy.Related(a, b)
}

// Ontology returns the loaded ontology, possibly empty.
func (s *Store) Ontology() *Ontology {
	return s.ontology
}

// dedupeFold drops case-insensitive duplicates, keeping the first spelling.
func dedupeFold(phrases []string) []string {
	seen := make(map[string]bool, len(phrases))
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		lower := strings.ToLower(p)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, p)
	}
	return out
}
