package vectorstore

import (
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

// NewStoreFromConfig opens the backend selected by conf.
func NewStoreFromConfig(conf *config.VectorConfig) (Store, error) {
	switch conf.Backend {
	case config.VectorBackendMemory, "":
		return NewInMemoryStore(), nil
	case config.VectorBackendChromem:
		return NewChromemStore(conf.ChromemPath)
	case config.VectorBackendSqlite:
		return NewSqliteStore(conf.SqlitePath, conf.Dimension())
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown vector backend %q", conf.Backend)
	}
}

// NewEmbedderFromConfig builds the embedder selected by conf, wrapped in a
// cache when EmbeddingCacheSize is positive.
func NewEmbedderFromConfig(conf *config.VectorConfig, openAIAPIKey string) (Embedder, error) {
	var (
		embedder Embedder
		err      error
	)
	switch conf.EmbeddingProvider {
	case config.EmbeddingProviderOpenAI:
		embedder, err = NewOpenAIEmbedder(openAIAPIKey, conf.EmbeddingModel, conf.Dimension())
		if err != nil {
			return nil, err
		}
	default:
		embedder = NewHashingEmbedder(conf.Dimension())
	}

	if conf.EmbeddingCacheSize > 0 {
		return NewCachedEmbedder(embedder, conf.EmbeddingCacheSize)
	}
	return embedder, nil
}
