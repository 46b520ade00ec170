package domain

import "errors"

var (
	// ErrDataFormat reports a dataset that is not a sequence of key-value mappings.
	ErrDataFormat = errors.New("malformed dataset")
	// ErrEmbeddingUnavailable reports an embedding model that cannot be loaded or reached.
	ErrEmbeddingUnavailable = errors.New("embedding model unavailable")
	// ErrGeneration reports a failed generation model invocation.
	ErrGeneration = errors.New("generation failed")
	// ErrNotReady is returned for questions asked before the corpus index is built.
	ErrNotReady = errors.New("index not ready")
)
