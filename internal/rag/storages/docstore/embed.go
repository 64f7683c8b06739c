package docstore

import (
	"context"

	"golang.org/x/sync/errgroup"

	"docsight/internal/rag/errs"
	"docsight/internal/rag/interfaces"
)

const (
	// embedBatchSize bounds one embedding request; batches run concurrently
	// during Add.
	embedBatchSize = 32
	// embedConcurrency bounds in-flight embedding requests.
	embedConcurrency = 4
)

// embedTexts embeds chunk texts in bounded concurrent batches, preserving
// input order.
func embedTexts(ctx context.Context, embedder interfaces.EmbeddingModel, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(embedConcurrency)
	for start := 0; start < len(texts); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		eg.Go(func() error {
			batch, err := embedder.Embed(gctx, texts[start:end])
			if err != nil {
				return errs.Wrap(err, errs.KindEmbedding, "embedding chunks")
			}
			if len(batch) != end-start {
				return errs.Newf(errs.KindEmbedding,
					"embedding count mismatch: %d texts, %d vectors", end-start, len(batch))
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
