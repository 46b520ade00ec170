package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// The same text embedded twice by the same model yields the same vector.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch returns one vector per input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Preparer is implemented by embedders whose vector space is derived from the corpus.
// Prepare must be called once with every corpus text before any Embed call.
type Preparer interface {
	Prepare(corpus []string) error
}
