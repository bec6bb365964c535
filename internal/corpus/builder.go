package corpus

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/siftlab/assessrec/internal/domain"
)

// Builder embeds every corpus record and assembles the similarity matrix.
// Embedding calls run on a bounded worker pool because the provider round
// trip dominates build time.
type Builder struct {
	embedder domain.Embedder
	model    string
	workers  int
	logger   *zap.Logger
}

// NewBuilder creates an index builder. workers bounds concurrent provider
// calls; values below 1 are clamped to 1.
func NewBuilder(embedder domain.Embedder, model string, workers int, logger *zap.Logger) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{embedder: embedder, model: model, workers: workers, logger: logger}
}

// batchSize bounds the number of texts sent to the provider per call.
const batchSize = 64

// Build embeds all records in batches and returns the immutable index.
// Every vector is unit-normalized so that scoring can use plain dot
// products. Batches run concurrently on a bounded pool.
func (b *Builder) Build(ctx context.Context, records []domain.Assessment) (*Index, error) {
	if len(records) == 0 {
		return nil, domain.ErrCorpusEmpty
	}

	pool, err := ants.NewPool(b.workers)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	vectors := make([][]float32, len(records))
	nBatches := (len(records) + batchSize - 1) / batchSize
	errs := make([]error, nBatches)

	var wg sync.WaitGroup
	for batch := 0; batch < nBatches; batch++ {
		batch := batch
		lo := batch * batchSize
		hi := lo + batchSize
		if hi > len(records) {
			hi = len(records)
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			errs[batch] = b.embedBatch(ctx, records[lo:hi], vectors[lo:hi])
		}
		if submitErr := pool.Submit(task); submitErr != nil {
			wg.Done()
			errs[batch] = fmt.Errorf("submit embed batch: %w", submitErr)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	dim := len(vectors[0])
	matrix := make([]float32, 0, len(records)*dim)
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("record %d dim %d vs %d: %w",
				records[i].ID(), len(vec), dim, domain.ErrVectorDimMismatch)
		}
		matrix = append(matrix, vec...)
	}

	b.logger.Info("Built embedding index",
		zap.Int("records", len(records)),
		zap.Int("dimension", dim),
		zap.String("model", b.model),
	)

	return newIndex(records, matrix, dim, b.model)
}

// embedBatch fills out with the normalized vectors for a record slice. A
// provider with native batch support gets one call per batch; otherwise the
// records are embedded one by one.
func (b *Builder) embedBatch(ctx context.Context, records []domain.Assessment, out [][]float32) error {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = SearchText(&records[i])
	}

	var res domain.BatchEmbeddingResult
	var err error
	if be, ok := b.embedder.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, b.embedder, texts)
	}
	if err != nil {
		return fmt.Errorf("embed records %d..%d: %w", records[0].ID(), records[len(records)-1].ID(), err)
	}
	if len(res.Embeddings) != len(records) {
		return fmt.Errorf("provider returned %d vectors for %d records: %w",
			len(res.Embeddings), len(records), domain.ErrEmbeddingProviderError)
	}

	for i, vec := range res.Embeddings {
		out[i] = domain.Normalize(vec)
	}
	return nil
}

// SearchText composes the text embedded for a record. Name and skills are
// repeated to weight them above the description.
func SearchText(a *domain.Assessment) string {
	skills := strings.Join(a.Skills(), ", ")
	return fmt.Sprintf("%s %s %s %s %s test type %s",
		a.Name(), a.Name(), skills, skills, a.Description(), a.TestType())
}
