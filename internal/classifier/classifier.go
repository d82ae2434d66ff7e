// Package classifier sorts phrases into Important, LessImportant and
// NonTechnical by comparing their embeddings against three exemplar sets.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mentorque/Extension-Free-backend/internal/embedding"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// Default thresholds.
const (
	DefaultBatchSize          = 500
	DefaultWorkers            = 4
	DefaultMinTechSimilarity  = 0.30
	DefaultRelevanceThreshold = 0.10
	// DefaultThreshold is the confidence margin used during extraction.
	DefaultThreshold = 0.10
)

// Classifier holds the exemplar vectors and classifies phrases against them.
// After Load succeeds the vectors are never modified.
type Classifier struct {
	embedder     embedding.Embedder
	cache        VectorCache
	exemplars    *Exemplars
	batchSize    int
	workers      int
	minTech      float64
	relevance    float64
	requireCache bool
	logger       *slog.Logger

	pool *ants.Pool

	mu        sync.Mutex
	available atomic.Bool
	vectors   map[types.Tier][][]float32

	classifications atomic.Int64
	kept            atomic.Int64
	filtered        atomic.Int64
	failedOpen      atomic.Int64
	elapsed         atomic.Int64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCache sets the exemplar vector cache.
func WithCache(cache VectorCache) Option {
	return func(c *Classifier) { c.cache = cache }
}

// WithBatchSize sets how many phrases are encoded per request.
func WithBatchSize(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithWorkers sets the size of the encoding worker pool.
func WithWorkers(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMinTechSimilarity sets the minimum technical similarity for a
// technical verdict.
func WithMinTechSimilarity(v float64) Option {
	return func(c *Classifier) { c.minTech = v }
}

// WithRelevanceThreshold sets the similarity above which a phrase is relevant.
func WithRelevanceThreshold(v float64) Option {
	return func(c *Classifier) { c.relevance = v }
}

// WithRequireCache makes Load fail instead of encoding exemplars when the
// cache has no vectors for them.
func WithRequireCache(require bool) Option {
	return func(c *Classifier) { c.requireCache = require }
}

// WithExemplars replaces the built-in exemplar sets.
func WithExemplars(e Exemplars) Option {
	return func(c *Classifier) { c.exemplars = &e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an unloaded classifier. Call Load before classifying.
func New(embedder embedding.Embedder, opts ...Option) (*Classifier, error) {
	if embedder == nil {
		return nil, errors.New("classifier: embedder is required")
	}
	c := &Classifier{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		workers:   DefaultWorkers,
		minTech:   DefaultMinTechSimilarity,
		relevance: DefaultRelevanceThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "classifier", "embedder", embedder.Name())

	if c.exemplars == nil {
		e, err := DefaultExemplars()
		if err != nil {
			return nil, err
		}
		c.exemplars = &e
	}
	if err := c.exemplars.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	c.pool = pool
	return c, nil
}

// Close releases the worker pool. The embedder and cache belong to the caller.
func (c *Classifier) Close() {
	c.pool.Release()
}

// Available reports whether exemplar vectors are loaded.
func (c *Classifier) Available() bool {
	return c != nil && c.available.Load()
}

// Embedder returns the name of the embedding model in use.
func (c *Classifier) Embedder() string {
	return c.embedder.Name()
}

// Load encodes the exemplar sets, or reads them from the cache. It is safe to
// call repeatedly; once loaded it returns nil immediately. A failed load
// leaves the classifier unavailable and may be retried.
func (c *Classifier) Load(ctx context.Context) error {
	if c.available.Load() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.available.Load() {
		return nil
	}
	return c.load(ctx, false)
}

// Precompute encodes the exemplar sets and writes them to the cache,
// replacing whatever was stored.
func (c *Classifier) Precompute(ctx context.Context) error {
	if c.cache == nil {
		return errors.New("classifier: precompute needs a vector cache")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, true)
}

func (c *Classifier) load(ctx context.Context, force bool) error {
	start := time.Now()
	vectors := make(map[types.Tier][][]float32, len(tiers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, tier := range tiers {
		g.Go(func() error {
			v, err := c.tierVectors(gctx, tier, force)
			if err != nil {
				return fmt.Errorf("%s exemplars: %w", tier, err)
			}
			mu.Lock()
			vectors[tier] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("classifier unavailable", "error", err)
		return &UnavailableError{Embedder: c.embedder.Name(), Cause: err}
	}

	c.vectors = vectors
	c.available.Store(true)
	c.logger.Info("classifier loaded",
		"important", len(vectors[types.TierImportant]),
		"less_important", len(vectors[types.TierLessImportant]),
		"non_technical", len(vectors[types.TierNonTechnical]),
		"duration", time.Since(start))
	return nil
}

func (c *Classifier) tierVectors(ctx context.Context, tier types.Tier, force bool) ([][]float32, error) {
	set := c.exemplars.Set(tier)
	key := c.cacheKey(tier, set)

	if c.cache != nil && !force {
		v, ok, err := c.cache.Get(key)
		switch {
		case err != nil:
			cacheLookups.WithLabelValues("error").Inc()
			c.logger.Warn("vector cache read failed", "key", key, "error", err)
		case ok && len(v) == len(set):
			cacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		default:
			cacheLookups.WithLabelValues("miss").Inc()
		}
	}
	if c.requireCache && !force {
		return nil, fmt.Errorf("no cached vectors under %s", key)
	}

	v, err := c.embedder.EmbedTexts(ctx, set)
	if err != nil {
		return nil, err
	}
	if len(v) != len(set) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d exemplars", len(v), len(set))
	}
	if c.cache != nil {
		if err := c.cache.Put(key, v); err != nil {
			if force {
				return nil, err
			}
			c.logger.Warn("vector cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}

func (c *Classifier) cacheKey(tier types.Tier, set []string) string {
	return fmt.Sprintf("exemplars/%s/%s/%s", c.embedder.Name(), tier, Hash(set))
}

// Classify classifies a single phrase. An encoding failure yields a
// fail-open verdict rather than an error; errors are reserved for an
// unloaded classifier and a done context.
func (c *Classifier) Classify(ctx context.Context, phrase string, threshold float64) (types.ClassificationVerdict, error) {
	if !c.Available() {
		return types.ClassificationVerdict{}, ErrUnavailable
	}
	start := time.Now()
	vec, err := c.embedder.EmbedText(ctx, phrase)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.ClassificationVerdict{}, ctxErr
		}
		c.logger.Warn("encoding failed, letting phrase through", "phrase", phrase, "error", err)
		v := failOpen(phrase)
		c.record([]types.ClassificationVerdict{v}, time.Since(start))
		return v, nil
	}
	v := c.verdict(phrase, vec, threshold)
	c.record([]types.ClassificationVerdict{v}, time.Since(start))
	return v, nil
}

// ClassifyBatch classifies phrases in chunks of the configured batch size,
// encoding chunks concurrently on the worker pool. Verdicts are returned in
// input order and match what Classify returns for each phrase.
func (c *Classifier) ClassifyBatch(ctx context.Context, phrases []string, threshold float64) ([]types.ClassificationVerdict, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	if len(phrases) == 0 {
		return nil, nil
	}
	start := time.Now()
	out := make([]types.ClassificationVerdict, len(phrases))

	var (
		wg       sync.WaitGroup
		warnOnce sync.Once
	)
	for lo := 0; lo < len(phrases); lo += c.batchSize {
		hi := min(lo+c.batchSize, len(phrases))
		task := func() {
			defer wg.Done()
			c.classifyChunk(ctx, phrases[lo:hi], out[lo:hi], threshold, &warnOnce)
		}
		wg.Add(1)
		if err := c.pool.Submit(task); err != nil {
			c.logger.Debug("worker pool unavailable, running inline", "error", err)
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := time.Since(start)
	batchLatency.Observe(d.Seconds())
	c.record(out, d)
	return out, nil
}

func (c *Classifier) classifyChunk(ctx context.Context, phrases []string, out []types.ClassificationVerdict, threshold float64, warnOnce *sync.Once) {
	vecs, err := c.embedder.EmbedTexts(ctx, phrases)
	if err == nil && len(vecs) != len(phrases) {
		err = fmt.Errorf("embedder returned %d vectors for %d phrases", len(vecs), len(phrases))
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		warnOnce.Do(func() {
			c.logger.Warn("batch encoding failed, letting phrases through", "count", len(phrases), "error", err)
		})
		for i, p := range phrases {
			out[i] = failOpen(p)
		}
		return
	}
	for i, p := range phrases {
		out[i] = c.verdict(p, vecs[i], threshold)
	}
}

// verdict applies the three-way decision to an encoded phrase.
func (c *Classifier) verdict(phrase string, vec []float32, threshold float64) types.ClassificationVerdict {
	sims := types.Similarities{
		Important:     embedding.MaxCosine(vec, c.vectors[types.TierImportant]),
		LessImportant: embedding.MaxCosine(vec, c.vectors[types.TierLessImportant]),
		NonTech:       embedding.MaxCosine(vec, c.vectors[types.TierNonTechnical]),
	}
	tech := sims.Tech()
	confidence := tech - sims.NonTech
	isTech := confidence > threshold && tech > c.minTech

	tier := types.TierNonTechnical
	if isTech {
		tier = types.TierLessImportant
		if sims.Important >= sims.LessImportant {
			tier = types.TierImportant
		}
	}
	return types.ClassificationVerdict{
		Phrase:       phrase,
		Tier:         tier,
		Similarities: sims,
		Confidence:   confidence,
		IsTechnical:  isTech,
		IsRelevant:   sims.Max() > c.relevance || looksLikeProperNoun(phrase),
	}
}

func failOpen(phrase string) types.ClassificationVerdict {
	return types.ClassificationVerdict{
		Phrase:      phrase,
		Tier:        types.TierLessImportant,
		IsTechnical: true,
		IsRelevant:  true,
		FailedOpen:  true,
	}
}

// IsRelevant reports whether a phrase is close enough to any exemplar set,
// or looks like a proper noun. An unavailable classifier treats everything
// as relevant.
func (c *Classifier) IsRelevant(ctx context.Context, phrase string) bool {
	v, err := c.Classify(ctx, phrase, DefaultThreshold)
	if err != nil {
		return true
	}
	return v.IsRelevant
}

// FilterRelevant keeps the phrases IsRelevant accepts, classified in one
// batch. It is the permissive check for raw vocabulary: an unavailable
// classifier keeps everything.
func (c *Classifier) FilterRelevant(ctx context.Context, phrases []string) ([]string, error) {
	verdicts, err := c.ClassifyBatch(ctx, phrases, DefaultThreshold)
	if errors.Is(err, ErrUnavailable) {
		return phrases, nil
	}
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(phrases))
	for _, v := range verdicts {
		if v.IsRelevant {
			kept = append(kept, v.Phrase)
		}
	}
	return kept, nil
}

// FilterTechnical keeps the phrases classified technical at threshold.
func (c *Classifier) FilterTechnical(ctx context.Context, phrases []string, threshold float64) ([]string, error) {
	verdicts, err := c.ClassifyBatch(ctx, phrases, threshold)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(phrases))
	for _, v := range verdicts {
		if v.IsTechnical {
			kept = append(kept, v.Phrase)
		}
	}
	return kept, nil
}

func looksLikeProperNoun(phrase string) bool {
	runes := []rune(phrase)
	if len(runes) == 0 {
		return false
	}
	if unicode.IsUpper(runes[0]) {
		return true
	}
	letters := 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

// Stats summarizes classifier activity since start.
type Stats struct {
	Available       bool          `json:"available"`
	Embedder        string        `json:"embedder"`
	Classifications int64         `json:"total_classifications"`
	Kept            int64         `json:"kept"`
	Filtered        int64         `json:"filtered"`
	FailedOpen      int64         `json:"failed_open"`
	TotalTime       time.Duration `json:"total_time"`
	AvgTime         time.Duration `json:"avg_time"`
	FilterRate      float64       `json:"filter_rate"`
}

// Stats returns a snapshot of the counters.
func (c *Classifier) Stats() Stats {
	s := Stats{
		Available:       c.Available(),
		Embedder:        c.embedder.Name(),
		Classifications: c.classifications.Load(),
		Kept:            c.kept.Load(),
		Filtered:        c.filtered.Load(),
		FailedOpen:      c.failedOpen.Load(),
		TotalTime:       time.Duration(c.elapsed.Load()),
	}
	if s.Classifications > 0 {
		s.AvgTime = s.TotalTime / time.Duration(s.Classifications)
		s.FilterRate = float64(s.Filtered) / float64(s.Classifications)
	}
	return s
}

func (c *Classifier) record(verdicts []types.ClassificationVerdict, d time.Duration) {
	var kept, filtered, failed int64
	for _, v := range verdicts {
		classificationsTotal.WithLabelValues(string(v.Tier)).Inc()
		if v.FailedOpen {
			failed++
		}
		if v.IsTechnical {
			kept++
		} else {
			filtered++
		}
	}
	if failed > 0 {
		failOpenTotal.Add(float64(failed))
	}
	c.classifications.Add(int64(len(verdicts)))
	c.kept.Add(kept)
	c.filtered.Add(filtered)
	c.failedOpen.Add(failed)
	c.elapsed.Add(int64(d))
}
