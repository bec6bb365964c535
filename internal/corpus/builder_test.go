package corpus

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/siftlab/assessrec/internal/domain"
)

// stubEmbedder returns a canned vector, or per-call vectors when vectors is
// set. Safe for the builder's concurrent submits.
type stubEmbedder struct {
	mu      sync.Mutex
	vector  []float32
	vectors [][]float32
	calls   int
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	vec := s.vector
	if s.vectors != nil {
		vec = s.vectors[s.calls%len(s.vectors)]
	}
	s.calls++
	out := make([]float32, len(vec))
	copy(out, vec)
	return domain.EmbeddingResult{Embedding: out, TotalTokens: len(text)}, nil
}

func TestBuild(t *testing.T) {
	records := testRecords(t, 3)
	emb := &stubEmbedder{vector: []float32{3, 4}}

	index, err := NewBuilder(emb, "test-model", 2, zap.NewNop()).Build(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, index.Len())
	assert.Equal(t, 2, index.Dim())
	assert.Equal(t, "test-model", index.Model())
	assert.Equal(t, 3, emb.calls)

	// Vectors are unit-normalized, so a matching query scores 1.
	scores, err := index.Scores([]float32{0.6, 0.8})
	require.NoError(t, err)
	for _, s := range scores {
		assert.InDelta(t, 1.0, s, 1e-6)
	}
}

func TestBuild_EmbedError(t *testing.T) {
	records := testRecords(t, 2)
	emb := &stubEmbedder{err: errors.New("provider down")}

	_, err := NewBuilder(emb, "test-model", 2, zap.NewNop()).Build(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestBuild_EmptyCorpus(t *testing.T) {
	emb := &stubEmbedder{vector: []float32{1, 0}}

	_, err := NewBuilder(emb, "test-model", 2, zap.NewNop()).Build(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrCorpusEmpty)
}

func TestBuild_InconsistentDimensions(t *testing.T) {
	records := testRecords(t, 2)
	emb := &stubEmbedder{vectors: [][]float32{{1, 0}, {1, 0, 0}}}

	// Both records fit in one batch, so the fallback embeds them in order.
	_, err := NewBuilder(emb, "test-model", 1, zap.NewNop()).Build(context.Background(), records)
	require.ErrorIs(t, err, domain.ErrVectorDimMismatch)
}

// batchStubEmbedder supports native batching.
type batchStubEmbedder struct {
	stubEmbedder
	batchCalls int
}

func (s *batchStubEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchCalls++
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, len(s.vector))
		copy(vec, s.vector)
		embeddings[i] = vec
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings, TotalTokens: len(texts)}, nil
}

func TestBuild_UsesNativeBatching(t *testing.T) {
	records := testRecords(t, 3)
	emb := &batchStubEmbedder{stubEmbedder: stubEmbedder{vector: []float32{0, 1}}}

	index, err := NewBuilder(emb, "test-model", 2, zap.NewNop()).Build(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 3, index.Len())
	assert.Equal(t, 1, emb.batchCalls)
	assert.Equal(t, 0, emb.calls)
}

func TestSearchText(t *testing.T) {
	a, err := domain.NewAssessment(
		1, "Java Test", "https://example.com/catalog/java", domain.TypeKnowledge,
		40, []string{"Java", "SQL"}, "Core Java assessment", true, true,
	)
	require.NoError(t, err)

	text := SearchText(&a)

	// Name and skills appear twice to outweigh the description.
	assert.Equal(t, 2, strings.Count(text, "Java Test"))
	assert.Equal(t, 2, strings.Count(text, "Java, SQL"))
	assert.Contains(t, text, "Core Java assessment")
	assert.Contains(t, text, "test type K")
}
