package domain

import "errors"

var (
	// ErrEmptyQuery signals an empty or whitespace-only query.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrCorpusEmpty signals a corpus with no usable records.
	ErrCorpusEmpty = errors.New("corpus is empty")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrArtifactIncompatible signals a cached embedding artifact that does
	// not match the live corpus or model configuration.
	ErrArtifactIncompatible = errors.New("embedding artifact incompatible")
)
