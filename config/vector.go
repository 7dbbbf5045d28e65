package config

import (
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const (
	VectorBackendMemory  = "memory"
	VectorBackendChromem = "chromem"
	VectorBackendSqlite  = "sqlite"

	EmbeddingProviderOpenAI  = "openai"
	EmbeddingProviderHashing = "hashing"
)

type VectorConfig struct {
	// Backend selects the vector store implementation: memory, chromem or sqlite
	// Default: memory
	Backend string `yaml:"backend" env:"VECTOR_BACKEND"`

	// SqlitePath is the database file used by the sqlite backend
	// Default: :memory:
	SqlitePath string `yaml:"sqlitePath" env:"VECTOR_SQLITE_PATH"`

	// ChromemPath persists the chromem backend to this directory. Empty keeps it in memory.
	ChromemPath string `yaml:"chromemPath" env:"VECTOR_CHROMEM_PATH"`

	// EmbeddingProvider is openai or hashing. hashing needs no credentials.
	// Default: openai when OPENAI_API_KEY is set, hashing otherwise
	EmbeddingProvider string `yaml:"embeddingProvider" env:"EMBEDDING_PROVIDER"`

	// EmbeddingModel is the OpenAI embedding model
	// Default: text-embedding-3-small
	EmbeddingModel string `yaml:"embeddingModel" env:"EMBEDDING_MODEL"`

	// EmbeddingDimension overrides the provider's vector length
	EmbeddingDimension int `yaml:"embeddingDimension" env:"EMBEDDING_DIMENSION"`

	// EmbeddingCacheSize is the number of embeddings kept in the cache. 0 disables caching.
	// Default: 10000
	EmbeddingCacheSize int64 `yaml:"embeddingCacheSize" env:"EMBEDDING_CACHE_SIZE"`
}

func NewVectorConfig() *VectorConfig {
	return &VectorConfig{
		Backend:            VectorBackendMemory,
		SqlitePath:         ":memory:",
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingCacheSize: 10000,
	}
}

// Dimension returns the configured vector length, falling back to the provider default.
func (c *VectorConfig) Dimension() int {
	if c.EmbeddingDimension > 0 {
		return c.EmbeddingDimension
	}
	if c.EmbeddingProvider == EmbeddingProviderOpenAI {
		return 1536
	}
	return 384
}

func (c *VectorConfig) Validate() error {
	switch c.Backend {
	case VectorBackendMemory, VectorBackendChromem, VectorBackendSqlite:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown vector backend %q", c.Backend)
	}

	switch c.EmbeddingProvider {
	case "", EmbeddingProviderOpenAI, EmbeddingProviderHashing:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown embedding provider %q", c.EmbeddingProvider)
	}

	if c.EmbeddingDimension < 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "embedding dimension must not be negative")
	}

	return nil
}
