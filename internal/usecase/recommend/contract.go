package recommend

import (
	"context"

	"github.com/siftlab/assessrec/internal/domain"
)

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CorpusIndex is the read-only corpus contract the engine ranks against.
type CorpusIndex interface {
	Len() int
	Record(i int) domain.Assessment
	Scores(query []float32) ([]float64, error)
}
