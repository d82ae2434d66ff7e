// Package skills extracts ranked technical skills from job-description text
// by combining vocabulary matching, semantic classification and rule-based
// filters.
package skills

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mentorque/Extension-Free-backend/internal/embedding"
	"github.com/mentorque/Extension-Free-backend/internal/matcher"
	"github.com/mentorque/Extension-Free-backend/internal/overrides"
	"github.com/mentorque/Extension-Free-backend/internal/tokenize"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

// Sentinel errors.
var (
	ErrClassifierUnavailable = errors.New("semantic classifier unavailable")
	ErrNoEmbedder            = errors.New("no embedding provider configured")
)

// Classifier is the semantic classifier as seen by the engine.
type Classifier interface {
	Load(ctx context.Context) error
	Available() bool
	Classify(ctx context.Context, phrase string, threshold float64) (types.ClassificationVerdict, error)
	ClassifyBatch(ctx context.Context, phrases []string, threshold float64) ([]types.ClassificationVerdict, error)
}

// Thresholds are the tunable cut-offs used by the engine.
type Thresholds struct {
	// Extraction is the confidence margin a matched phrase needs to count as technical.
	Extraction float64
	// SemanticMatch is the minimum cosine similarity for SemanticMatch.
	SemanticMatch float64
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Extraction: 0.10, SemanticMatch: 0.75}
}

// Config wires an Engine to its collaborators. Only Vocabulary is required.
type Config struct {
	Vocabulary *vocabulary.Store
	Classifier Classifier
	Overrides  *overrides.Registry
	Embedder   embedding.Embedder
	Thresholds Thresholds
	Logger     *slog.Logger
}

// Options control one extraction.
type Options struct {
	// UseFuzzy proposes phrases outside the vocabulary for the classifier to confirm.
	UseFuzzy bool
	// UseContextFilter drops matches that appear outside a skill-like context.
	UseContextFilter bool
}

// DefaultOptions enables both fuzzy discovery and the context filter.
func DefaultOptions() Options {
	return Options{UseFuzzy: true, UseContextFilter: true}
}

// Engine extracts skills. It is safe for concurrent use; every call works on
// its own candidates and only reads the shared vocabulary and classifier.
type Engine struct {
	vocab      *vocabulary.Store
	classifier Classifier
	overrides  *overrides.Registry
	embedder   embedding.Embedder
	thresholds Thresholds
	logger     *slog.Logger

	mu      sync.Mutex
	ready   atomic.Bool
	matcher *matcher.Matcher
}

// New creates an engine. Loading is deferred to the first call or EnsureLoaded.
func New(cfg Config) (*Engine, error) {
	if cfg.Vocabulary == nil {
		return nil, errors.New("skills: vocabulary is required")
	}
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		vocab:      cfg.Vocabulary,
		classifier: cfg.Classifier,
		overrides:  cfg.Overrides,
		embedder:   cfg.Embedder,
		thresholds: cfg.Thresholds,
		logger:     logger.With("component", "skills"),
	}, nil
}

// Vocabulary returns the engine's vocabulary store.
func (e *Engine) Vocabulary() *vocabulary.Store {
	return e.vocab
}

// ClassifierAvailable reports whether semantic classification is in use.
func (e *Engine) ClassifierAvailable() bool {
	return e.classifier != nil && e.classifier.Available()
}

// EnsureLoaded loads the classifier, then the vocabulary, then compiles the
// matcher. A classifier that fails to load is logged and left unavailable;
// the engine then runs in rule-based mode. A vocabulary failure is returned
// and the next call retries.
func (e *Engine) EnsureLoaded(ctx context.Context) error {
	if e.ready.Load() {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready.Load() {
		return nil
	}

	if e.classifier != nil && !e.classifier.Available() {
		if err := e.classifier.Load(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			e.logger.Warn("semantic classifier unavailable, using rule-based filters", "error", err)
		}
	}
	if err := e.vocab.EnsureLoaded(ctx); err != nil {
		return err
	}
	e.matcher = matcher.New(e.vocab.Phrases())
	e.ready.Store(true)
	e.logger.Info("engine ready",
		"phrases", e.matcher.Len(),
		"overrides", e.overrides.Len(),
		"classifier_available", e.ClassifierAvailable())
	return nil
}

func preprocess(text string) string {
	return strings.NewReplacer(",", " ", ";", " ").Replace(text)
}

// Extract returns the skills mentioned in text, highest weight first. A done
// context aborts the call and no partial result is returned.
func (e *Engine) Extract(ctx context.Context, text string, opts Options) (*types.ExtractionResult, error) {
	if err := e.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	available := e.ClassifierAvailable()
	result := &types.ExtractionResult{
		Skills:        []types.ExtractedSkill{},
		Important:     []string{},
		LessImportant: []string{},
		NonTechnical:  []string{},
	}
	stats := &result.Stats
	if strings.TrimSpace(text) == "" {
		stats.ClassifierAvailable = available
		return result, nil
	}

	doc := tokenize.Tokenize(preprocess(text))
	cands := e.matcher.Match(doc)
	for i := range cands {
		canonical := e.vocab.Canonicalize(cands[i].SurfaceText)
		cands[i].CanonicalForm = &canonical
	}
	if opts.UseFuzzy && available {
		found := discover(doc, cands)
		stats.Discovered = len(found)
		cands = append(cands, found...)
	}
	stats.TotalMatches = len(cands)

	verdicts := make([]*types.ClassificationVerdict, len(cands))
	if available && len(cands) > 0 {
		phrases := make([]string, len(cands))
		for i, c := range cands {
			phrases[i] = c.SurfaceText
		}
		vs, err := e.classifier.ClassifyBatch(ctx, phrases, e.thresholds.Extraction)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			e.logger.Warn("batch classification failed, using rule-based filters", "error", err)
			available = false
		default:
			for i := range vs {
				verdicts[i] = &vs[i]
			}
		}
	}
	stats.ClassifierAvailable = available

	accepted := make([]Candidate, 0, len(cands))
	for i, c := range cands {
		v := verdicts[i]
		base, isOverride := e.overrides.Base(c.SurfaceText)
		technical := v != nil && v.IsTechnical

		if isOverride {
			stats.OverridesApplied++
			e.logger.Debug("override keyword bypasses filters", "phrase", c.SurfaceText, "base", base)
		} else if !e.accept(doc, c, v, technical, available, opts, stats) {
			continue
		}
		accepted = append(accepted, e.weigh(c, v, base, isOverride, available))
	}

	resolved := Resolve(accepted, e.vocab)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resolved))
	for _, c := range resolved {
		key := strings.ToLower(c.Canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		display := e.vocab.DisplayName(c.Name)
		result.Skills = append(result.Skills, types.ExtractedSkill{
			SkillName:     display,
			CanonicalForm: c.Canonical,
			Weight:        c.Weight,
			Tier:          Bucket(display, c.Weight, c.Verdict),
		})
	}
	sort.SliceStable(result.Skills, func(i, j int) bool {
		a, b := result.Skills[i], result.Skills[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return strings.ToLower(a.SkillName) < strings.ToLower(b.SkillName)
	})

	for _, s := range result.Skills {
		stats.TotalWeight += s.Weight
		switch s.Tier {
		case types.TierImportant:
			result.Important = append(result.Important, s.SkillName)
		case types.TierLessImportant:
			result.LessImportant = append(result.LessImportant, s.SkillName)
		default:
			result.NonTechnical = append(result.NonTechnical, s.SkillName)
		}
	}
	stats.UniqueSkills = len(result.Skills)

	e.logger.Info("extracted skills",
		"candidates", stats.TotalMatches,
		"skills", stats.UniqueSkills,
		"filtered", stats.Filtered,
		"low_priority", stats.LowPriority,
		"context_filtered", stats.ContextFiltered,
		"overrides", stats.OverridesApplied,
		"important", len(result.Important),
		"classifier_available", available,
		"duration", time.Since(start))
	return result, nil
}

// accept applies the semantic, context and rule-based filters to a
// non-override candidate and counts rejections.
func (e *Engine) accept(doc *tokenize.Doc, c types.MatchCandidate, v *types.ClassificationVerdict, technical, available bool, opts Options, stats *types.ExtractionStats) bool {
	if available && !technical {
		stats.Filtered++
		return false
	}
	if !available && !c.InVocabulary() {
		stats.Filtered++
		return false
	}
	if opts.UseContextFilter && !technical && !HasSkillContext(doc, c.FirstSpan()) {
		stats.ContextFiltered++
		stats.Filtered++
		return false
	}
	if !available {
		phrase := c.SurfaceText
		if !e.vocab.IsValidType(phrase) || !e.vocab.IsSpecificEnough(phrase) || e.vocab.IsGarbage(phrase) {
			stats.Filtered++
			return false
		}
		if e.vocab.IsLowPriority(phrase) {
			stats.LowPriority++
			return false
		}
	}
	return true
}

// weigh resolves the canonical form, name and boosted weight of an accepted candidate.
func (e *Engine) weigh(c types.MatchCandidate, v *types.ClassificationVerdict, base string, override, available bool) Candidate {
	tier := types.TierLessImportant
	if v != nil {
		tier = v.Tier
	}

	name := c.SurfaceText
	var canonical string
	var weight float64
	switch {
	case override:
		name = base
		canonical = e.vocab.Canonicalize(base)
		weight = float64(max(e.vocab.Weight(base), e.vocab.Weight(c.SurfaceText)))
	case c.InVocabulary():
		canonical = *c.CanonicalForm
		weight = float64(e.vocab.Weight(c.SurfaceText))
		if preferred, ok := e.vocab.CanonicalSkill(c.SurfaceText); ok {
			name = preferred
		}
	default:
		canonical = c.SurfaceText
	}
	if weight == 0 {
		weight = FallbackWeight(tier, available)
	}

	return Candidate{
		Name:      name,
		Canonical: canonical,
		Weight:    FrequencyBoost(weight, c.Frequency),
		Frequency: c.Frequency,
		Override:  override,
		Verdict:   v,
	}
}

// ClassifyTier returns the tier and similarity scores of a single skill name.
// Without a classifier the tier follows the vocabulary weight.
func (e *Engine) ClassifyTier(ctx context.Context, skill string) (types.ClassificationVerdict, error) {
	if err := e.EnsureLoaded(ctx); err != nil {
		return types.ClassificationVerdict{}, err
	}
	if e.ClassifierAvailable() {
		v, err := e.classifier.Classify(ctx, skill, e.thresholds.Extraction)
		if err == nil {
			return v, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.ClassificationVerdict{}, ctxErr
		}
		e.logger.Warn("classification failed, using vocabulary weight", "skill", skill, "error", err)
	}

	tier := weightTier(float64(e.vocab.Weight(skill)))
	return types.ClassificationVerdict{
		Phrase:      skill,
		Tier:        tier,
		IsTechnical: tier.IsTechnical(),
		IsRelevant:  true,
	}, nil
}

// ReportSummary counts vocabulary phrases per category.
type ReportSummary map[types.Tier]int

// ClassifyVocabulary writes a CSV report with one row per vocabulary phrase:
// skill, category, similarity_score, is_technical. The category is the
// closest exemplar set, or non_technical when no set is closer than 0.3.
func (e *Engine) ClassifyVocabulary(ctx context.Context, w io.Writer) (ReportSummary, error) {
	if err := e.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	if !e.ClassifierAvailable() {
		return nil, ErrClassifierUnavailable
	}

	phrases := e.vocab.Phrases()
	verdicts, err := e.classifier.ClassifyBatch(ctx, phrases, e.thresholds.Extraction)
	if err != nil {
		return nil, fmt.Errorf("classify vocabulary: %w", err)
	}

	summary := make(ReportSummary)
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"skill", "category", "similarity_score", "is_technical"}); err != nil {
		return nil, err
	}
	for _, v := range verdicts {
		category, score := closestSet(v.Similarities)
		technical := category.IsTechnical()
		summary[category]++
		row := []string{
			v.Phrase,
			string(category),
			strconv.FormatFloat(score, 'f', 4, 64),
			strconv.FormatBool(technical),
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	e.logger.Info("classified vocabulary",
		"phrases", len(verdicts),
		"important", summary[types.TierImportant],
		"less_important", summary[types.TierLessImportant],
		"non_technical", summary[types.TierNonTechnical])
	return summary, nil
}

func closestSet(s types.Similarities) (types.Tier, float64) {
	best := s.Max()
	if best < bucketMinSimilarity {
		return types.TierNonTechnical, best
	}
	switch best {
	case s.Important:
		return types.TierImportant, best
	case s.LessImportant:
		return types.TierLessImportant, best
	default:
		return types.TierNonTechnical, best
	}
}

// ResumeMatch is the resume skill closest to a job-description skill.
type ResumeMatch struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// SemanticMatch finds the resume skill most similar to jdSkill, for example
// "continuous integration" against "CI/CD". It returns nil when the best
// similarity is below the SemanticMatch threshold.
func (e *Engine) SemanticMatch(ctx context.Context, jdSkill string, resumeSkills []string) (*ResumeMatch, error) {
	if e.embedder == nil {
		return nil, ErrNoEmbedder
	}
	if len(resumeSkills) == 0 || strings.TrimSpace(jdSkill) == "" {
		return nil, nil
	}
	vecs, err := e.embedder.EmbedTexts(ctx, append([]string{jdSkill}, resumeSkills...))
	if err != nil {
		return nil, fmt.Errorf("semantic match: %w", err)
	}
	if len(vecs) != len(resumeSkills)+1 {
		return nil, fmt.Errorf("semantic match: got %d vectors for %d texts", len(vecs), len(resumeSkills)+1)
	}

	best, bestScore := -1, 0.0
	for i, v := range vecs[1:] {
		if score := embedding.Cosine(vecs[0], v); best < 0 || score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore < e.thresholds.SemanticMatch {
		return nil, nil
	}
	return &ResumeMatch{Skill: resumeSkills[best], Score: bestScore}, nil
}
