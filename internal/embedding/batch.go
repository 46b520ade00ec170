package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// EmbedAll embeds texts in batches of batchSize, running up to parallelism
// batches at once. Results are written by index so the output order always
// matches texts.
func EmbedAll(ctx context.Context, e Embedder, texts []string, batchSize, parallelism int) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	out := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		g.Go(func() error {
			vecs, err := e.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("%s: got %d vectors for %d texts", e.Name(), len(vecs), end-start)
			}
			copy(out[start:end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
