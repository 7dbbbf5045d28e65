package vectorstore

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

// CachedEmbedder memoizes embeddings of an underlying Embedder. Each cached
// vector costs 1, so size is the number of texts kept.
type CachedEmbedder struct {
	next  Embedder
	cache *ristretto.Cache
}

var _ Embedder = (*CachedEmbedder)(nil)

func NewCachedEmbedder(next Embedder, size int64) (*CachedEmbedder, error) {
	if size <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "cache size must be positive")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create embedding cache")
	}

	return &CachedEmbedder{next: next, cache: cache}, nil
}

func (e *CachedEmbedder) Dimension() int {
	return e.next.Dimension()
}

func (e *CachedEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	var (
		missing   []string
		missingAt []int
	)
	for i, text := range texts {
		if v, ok := e.cache.Get(text); ok {
			embeddings[i] = v.([]float32)
			continue
		}
		missing = append(missing, text)
		missingAt = append(missingAt, i)
	}

	if len(missing) == 0 {
		return embeddings, nil
	}

	computed, err := e.next.Embed(ctx, missing...)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missing) {
		return nil, errors.Wrapf(errors.ErrContractViolation, "expected %d embeddings, got %d", len(missing), len(computed))
	}

	for j, vec := range computed {
		embeddings[missingAt[j]] = vec
		e.cache.Set(missing[j], vec, 1)
	}
	e.cache.Wait()

	return embeddings, nil
}

func (e *CachedEmbedder) Close() {
	e.cache.Close()
}
