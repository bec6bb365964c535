package corpus

import (
	"fmt"

	"github.com/siftlab/assessrec/internal/domain"
)

// Index pairs the corpus records with their unit-normalized embedding
// vectors. It is built or loaded once at startup and never mutated
// afterwards, so any number of concurrent requests may read it without
// locking.
type Index struct {
	records []domain.Assessment
	matrix  []float32 // len(records) * dim, row-major
	dim     int
	model   string
}

// newIndex assembles an index from records and a row-major matrix.
func newIndex(records []domain.Assessment, matrix []float32, dim int, model string) (*Index, error) {
	if len(records) == 0 {
		return nil, domain.ErrCorpusEmpty
	}
	if dim <= 0 {
		return nil, fmt.Errorf("index dimension must be positive, got %d", dim)
	}
	if len(matrix) != len(records)*dim {
		return nil, fmt.Errorf("matrix size %d does not match %d records of dim %d",
			len(matrix), len(records), dim)
	}
	return &Index{records: records, matrix: matrix, dim: dim, model: model}, nil
}

// Len returns the number of corpus records.
func (x *Index) Len() int { return len(x.records) }

// Dim returns the embedding dimension.
func (x *Index) Dim() int { return x.dim }

// Model returns the embedding model identity the matrix was built with.
func (x *Index) Model() string { return x.model }

// Record returns the record at corpus position i.
func (x *Index) Record(i int) domain.Assessment { return x.records[i] }

// Scores computes the cosine similarity of the query vector against every
// corpus vector. Vectors are unit length, so cosine reduces to a dot
// product. Pure and deterministic given identical inputs.
func (x *Index) Scores(query []float32) ([]float64, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dim %d vs index dim %d: %w",
			len(query), x.dim, domain.ErrVectorDimMismatch)
	}

	scores := make([]float64, len(x.records))
	for i := range x.records {
		row := x.matrix[i*x.dim : (i+1)*x.dim]
		var dot float64
		for j, q := range query {
			dot += float64(q) * float64(row[j])
		}
		scores[i] = dot
	}
	return scores, nil
}
