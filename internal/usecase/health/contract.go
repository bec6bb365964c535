package health

import "context"

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexInfo exposes the read-only corpus index statistics.
type IndexInfo interface {
	Len() int
	Dim() int
	Model() string
}
