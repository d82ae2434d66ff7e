package classifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorque/Extension-Free-backend/internal/embedding"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

// testEmbedder wraps the n-gram embedder and can be told to fail.
type testEmbedder struct {
	*embedding.NGramEmbedder
	fail  atomic.Bool
	calls atomic.Int64
}

func newTestEmbedder() *testEmbedder {
	return &testEmbedder{NGramEmbedder: embedding.NewNGramEmbedder(0)}
}

func (e *testEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if e.fail.Load() {
		return nil, errors.New("model offline")
	}
	return e.NGramEmbedder.EmbedText(ctx, text)
}

func (e *testEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(1)
	if e.fail.Load() {
		return nil, errors.New("model offline")
	}
	return e.NGramEmbedder.EmbedTexts(ctx, texts)
}

func newLoaded(t *testing.T, opts ...Option) (*Classifier, *testEmbedder) {
	t.Helper()
	emb := newTestEmbedder()
	c, err := New(emb, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	require.NoError(t, c.Load(context.Background()))
	return c, emb
}

func TestDefaultExemplars(t *testing.T) {
	e, err := DefaultExemplars()
	require.NoError(t, err)
	require.NoError(t, e.Validate())
	assert.Contains(t, e.Important, "Kubernetes")
	assert.Contains(t, e.LessImportant, "Jira")
	assert.Contains(t, e.NonTech, "teamwork")

	again, err := DefaultExemplars()
	require.NoError(t, err)
	assert.Equal(t, e, again)
}

func TestExemplars_Validate(t *testing.T) {
	err := Exemplars{Important: []string{"Go"}, LessImportant: []string{"Git"}}.Validate()
	assert.ErrorContains(t, err, "non_technical")
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash([]string{"a", "b"}), Hash([]string{"a", "b"}))
	assert.NotEqual(t, Hash([]string{"a", "b"}), Hash([]string{"b", "a"}))
	assert.Len(t, Hash(nil), 16)
}

func TestClassify_Tiers(t *testing.T) {
	c, _ := newLoaded(t)
	ctx := context.Background()

	tests := []struct {
		phrase    string
		tier      types.Tier
		technical bool
	}{
		{"Kubernetes", types.TierImportant, true},
		{"postgresql", types.TierImportant, true},
		{"Jira", types.TierLessImportant, true},
		{"teamwork", types.TierNonTechnical, false},
		{"health insurance", types.TierNonTechnical, false},
	}
	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			v, err := c.Classify(ctx, tt.phrase, DefaultThreshold)
			require.NoError(t, err)
			assert.Equal(t, tt.tier, v.Tier)
			assert.Equal(t, tt.technical, v.IsTechnical)
			assert.Equal(t, tt.phrase, v.Phrase)
			assert.InDelta(t, v.Similarities.Tech()-v.Similarities.NonTech, v.Confidence, 1e-12)
			assert.False(t, v.FailedOpen)
		})
	}
}

func TestClassify_MinTechSimilarity(t *testing.T) {
	c, _ := newLoaded(t, WithMinTechSimilarity(1.5))
	v, err := c.Classify(context.Background(), "Kubernetes", DefaultThreshold)
	require.NoError(t, err)
	assert.False(t, v.IsTechnical, "no similarity can exceed 1.5")
	assert.Equal(t, types.TierNonTechnical, v.Tier)
}

func TestClassify_Unavailable(t *testing.T) {
	c, err := New(newTestEmbedder())
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.Available())
	_, err = c.Classify(context.Background(), "Go", DefaultThreshold)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = c.ClassifyBatch(context.Background(), []string{"Go"}, DefaultThreshold)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, c.IsRelevant(context.Background(), "anything"))
}

func TestClassifyBatch_MatchesSingle(t *testing.T) {
	c, _ := newLoaded(t, WithBatchSize(2), WithWorkers(2))
	ctx := context.Background()
	phrases := []string{"Kubernetes", "Jira", "teamwork", "React Native", "budget planning"}

	batch, err := c.ClassifyBatch(ctx, phrases, DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, batch, len(phrases))

	for i, p := range phrases {
		single, err := c.Classify(ctx, p, DefaultThreshold)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], "verdict for %q", p)
	}

	empty, err := c.ClassifyBatch(ctx, nil, DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestClassifyBatch_FailOpen(t *testing.T) {
	c, emb := newLoaded(t)
	emb.fail.Store(true)

	verdicts, err := c.ClassifyBatch(context.Background(), []string{"teamwork", "Kafka"}, DefaultThreshold)
	require.NoError(t, err)
	for _, v := range verdicts {
		assert.True(t, v.IsTechnical)
		assert.True(t, v.IsRelevant)
		assert.True(t, v.FailedOpen)
		assert.Equal(t, types.TierLessImportant, v.Tier)
	}

	single, err := c.Classify(context.Background(), "teamwork", DefaultThreshold)
	require.NoError(t, err)
	assert.True(t, single.FailedOpen)
	assert.Equal(t, int64(3), c.Stats().FailedOpen)
}

func TestClassifyBatch_Cancelled(t *testing.T) {
	c, _ := newLoaded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ClassifyBatch(ctx, []string{"Go", "Rust"}, DefaultThreshold)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = c.Classify(ctx, "Go", DefaultThreshold)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFilterTechnical(t *testing.T) {
	c, _ := newLoaded(t)
	kept, err := c.FilterTechnical(context.Background(), []string{"Kubernetes", "teamwork", "Jira"}, 0.15)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "Jira"}, kept)
}

func TestIsRelevant(t *testing.T) {
	c, _ := newLoaded(t)
	ctx := context.Background()
	assert.True(t, c.IsRelevant(ctx, "Kubernetes"))
	assert.True(t, c.IsRelevant(ctx, "Zyxqv"), "capitalized phrases count as proper nouns")
}

func TestFilterRelevant(t *testing.T) {
	c, _ := newLoaded(t, WithRelevanceThreshold(0.99))
	kept, err := c.FilterRelevant(context.Background(), []string{"Kubernetes", "zzqx wvvy", "AWS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "AWS"}, kept)
}

func TestFilterRelevant_Unavailable(t *testing.T) {
	c, err := New(newTestEmbedder())
	require.NoError(t, err)
	defer c.Close()

	phrases := []string{"zzqx wvvy", "teamwork"}
	kept, err := c.FilterRelevant(context.Background(), phrases)
	require.NoError(t, err)
	assert.Equal(t, phrases, kept)
}

func TestLooksLikeProperNoun(t *testing.T) {
	tests := map[string]bool{
		"Kafka":   true,
		"AWS":     true,
		"QA":      true,
		"X":       true,
		"kafka":   false,
		"a":       false,
		"":        false,
		"iOS dev": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, looksLikeProperNoun(in), in)
	}
}

func TestStats(t *testing.T) {
	c, _ := newLoaded(t)
	_, err := c.ClassifyBatch(context.Background(), []string{"Kubernetes", "teamwork"}, DefaultThreshold)
	require.NoError(t, err)

	s := c.Stats()
	assert.True(t, s.Available)
	assert.Equal(t, "ngram/char-ngram-512", s.Embedder)
	assert.Equal(t, int64(2), s.Classifications)
	assert.Equal(t, int64(1), s.Kept)
	assert.Equal(t, int64(1), s.Filtered)
	assert.InDelta(t, 0.5, s.FilterRate, 1e-9)
}

func TestLoad_Cache(t *testing.T) {
	cache, err := OpenBadgerCache("", true)
	require.NoError(t, err)
	defer cache.Close()
	ctx := context.Background()

	first, firstEmb := newLoaded(t, WithCache(cache))
	assert.True(t, first.Available())
	assert.Equal(t, int64(3), firstEmb.calls.Load())

	emb := newTestEmbedder()
	second, err := New(emb, WithCache(cache), WithRequireCache(true))
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, int64(0), emb.calls.Load(), "exemplars come from the cache")

	v1, err := first.Classify(ctx, "Terraform", DefaultThreshold)
	require.NoError(t, err)
	v2, err := second.Classify(ctx, "Terraform", DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestLoad_RequireCacheMiss(t *testing.T) {
	cache, err := OpenBadgerCache("", true)
	require.NoError(t, err)
	defer cache.Close()

	c, err := New(newTestEmbedder(), WithCache(cache), WithRequireCache(true))
	require.NoError(t, err)
	defer c.Close()

	err = c.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "ngram/char-ngram-512", unavailable.Embedder)
	assert.False(t, c.Available())

	require.NoError(t, c.Precompute(context.Background()))
	assert.True(t, c.Available())
}

func TestLoad_EncodeFailureIsRetryable(t *testing.T) {
	emb := newTestEmbedder()
	emb.fail.Store(true)
	c, err := New(emb)
	require.NoError(t, err)
	defer c.Close()

	assert.ErrorIs(t, c.Load(context.Background()), ErrUnavailable)
	assert.False(t, c.Available())

	emb.fail.Store(false)
	require.NoError(t, c.Load(context.Background()))
	assert.True(t, c.Available())
}

func TestPrecompute_NoCache(t *testing.T) {
	c, err := New(newTestEmbedder())
	require.NoError(t, err)
	defer c.Close()
	assert.Error(t, c.Precompute(context.Background()))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(newTestEmbedder(), WithExemplars(Exemplars{}))
	assert.Error(t, err)
}

func TestBadgerCache_PersistsOnDisk(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenBadgerCache(dir, false)
	require.NoError(t, err)

	vectors := [][]float32{{1, 2.5}, {-3, 0}}
	require.NoError(t, cache.Put("k", vectors))
	require.NoError(t, cache.Close())

	reopened, err := OpenBadgerCache(dir, false)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, vectors, got)

	_, ok, err = reopened.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVectorEncoding_Errors(t *testing.T) {
	_, err := encodeVectors([][]float32{{1, 2}, {3}})
	assert.Error(t, err)

	_, err = decodeVectors([]byte{1, 2})
	assert.Error(t, err)

	_, err = decodeVectors([]byte{1, 0, 0, 0, 4, 0, 0, 0})
	assert.Error(t, err)
}
