package vocabulary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mentorque/Extension-Free-backend/internal/schemas"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	rootschemas "github.com/mentorque/Extension-Free-backend/schemas"
)

// ontologyFile is the on-disk layout of skill_ontology.json.
type ontologyFile struct {
	Skills map[string]ontologyRecord `json:"skills"`
}

type ontologyRecord struct {
	Type    string   `json:"type"`
	Weight  *int     `json:"weight"`
	Parents []string `json:"parents"`
	Aliases []string `json:"aliases"`
}

// Ontology holds curated skill entries indexed by lower-case name and alias.
// A nil *Ontology behaves as an empty one.
type Ontology struct {
	entries map[string]*types.SkillEntry
	lookup  map[string]*types.SkillEntry
}

// NewOntology indexes entries. Entries failing validation are skipped, and an
// alias that normalizes to an already claimed key is dropped.
func NewOntology(entries []types.SkillEntry) *Ontology {
	o := &Ontology{
		entries: make(map[string]*types.SkillEntry, len(entries)),
		lookup:  make(map[string]*types.SkillEntry, len(entries)),
	}
	claimed := make(map[string]string)
	log := slog.Default().With("component", "ontology")

	entries = slices.Clone(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].CanonicalName) < strings.ToLower(entries[j].CanonicalName)
	})

	for i := range entries {
		entry := entries[i]
		if err := entry.Validate(); err != nil {
			log.Warn("skipping invalid ontology entry", "name", entry.CanonicalName, "error", err)
			continue
		}
		name := strings.ToLower(strings.TrimSpace(entry.CanonicalName))
		key := Normalize(name)
		if owner, ok := claimed[key]; ok && owner != name {
			log.Warn("skipping duplicate ontology entry", "name", name, "conflicts_with", owner)
			continue
		}
		claimed[key] = name
		entry.CanonicalName = name
		stored := &entry
		o.entries[name] = stored
		o.lookup[name] = stored

		aliases := stored.Aliases[:0:0]
		for _, alias := range entry.Aliases {
			lower := strings.ToLower(strings.TrimSpace(alias))
			aliasKey := Normalize(lower)
			if owner, ok := claimed[aliasKey]; ok && owner != name {
				log.Warn("alias already claimed", "alias", alias, "entry", name, "owner", owner)
				continue
			}
			claimed[aliasKey] = name
			o.lookup[lower] = stored
			aliases = append(aliases, lower)
		}
		stored.Aliases = aliases
	}
	return o
}

// LoadOntology reads and validates an ontology JSON file. A missing file
// yields an empty ontology.
func LoadOntology(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Default().With("component", "ontology").Warn("skill ontology not found, using defaults", "path", path)
			return NewOntology(nil), nil
		}
		return nil, &LoadError{Source: path, Message: "failed to read ontology", Cause: err}
	}
	return ParseOntology(path, data)
}

// ParseOntology validates data against the ontology schema and indexes it.
func ParseOntology(source string, data []byte) (*Ontology, error) {
	if err := schemas.ValidateBytes(rootschemas.Ontology, data); err != nil {
		return nil, &LoadError{Source: source, Message: "ontology does not match schema", Cause: err}
	}
	var file ontologyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Source: source, Message: "failed to parse ontology", Cause: err}
	}

	entries := make([]types.SkillEntry, 0, len(file.Skills))
	for name, rec := range file.Skills {
		skillType := types.SkillType(strings.ToLower(rec.Type))
		weight := DefaultWeight(name, skillType)
		if rec.Weight != nil {
			weight = *rec.Weight
		}
		entries = append(entries, types.SkillEntry{
			CanonicalName: name,
			Aliases:       rec.Aliases,
			Parents:       rec.Parents,
			Type:          skillType,
			Weight:        weight,
		})
	}
	o := NewOntology(entries)
	slog.Default().With("component", "ontology").Info("loaded skill ontology", "skills", o.Len(), "source", source)
	return o, nil
}

// Lookup finds an entry by lower-case canonical name or alias.
func (o *Ontology) Lookup(name string) (*types.SkillEntry, bool) {
	if o == nil {
		return nil, false
	}
	entry, ok := o.lookup[strings.ToLower(strings.TrimSpace(name))]
	return entry, ok
}

// Len returns the number of canonical entries.
func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Edges returns child -> parents edges for every entry, with children
// declared explicitly on an entry folded in as reverse edges.
func (o *Ontology) Edges() map[string][]string {
	edges := make(map[string][]string)
	if o == nil {
		return edges
	}
	for name, entry := range o.entries {
		if len(entry.Parents) > 0 {
			edges[name] = append(edges[name], entry.Parents...)
		}
		for _, child := range entry.Children {
			child = strings.ToLower(child)
			edges[child] = append(edges[child], name)
		}
	}
	return edges
}

// Names returns the canonical names in sorted order.
func (o *Ontology) Names() []string {
	if o == nil {
		return nil
	}
	names := make([]string, 0, len(o.entries))
	for name := range o.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
