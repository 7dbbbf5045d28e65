package config

import (
	"time"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type GraphConfig struct {
	// Enabled connects to Neo4j. When false an in-process graph is used.
	Enabled bool `yaml:"enabled" env:"GRAPH_ENABLED"`

	URI      string `yaml:"uri" env:"NEO4J_URI"`
	Username string `yaml:"username" env:"NEO4J_USERNAME"`
	Password string `yaml:"password" env:"NEO4J_PASSWORD"`
	Database string `yaml:"database" env:"NEO4J_DATABASE"`

	// MaxConnectionPoolSize caps driver connections
	// Default: 50
	MaxConnectionPoolSize int `yaml:"maxConnectionPoolSize" env:"NEO4J_MAX_POOL_SIZE"`

	// QueryTimeout bounds a single graph query
	// Default: 10s
	QueryTimeout time.Duration `yaml:"queryTimeout" env:"GRAPH_QUERY_TIMEOUT"`

	// NeighborLimit caps rows returned by a one-hop neighbor query
	// Default: 20
	NeighborLimit int `yaml:"neighborLimit" env:"GRAPH_NEIGHBOR_LIMIT"`
}

func NewGraphConfig() *GraphConfig {
	return &GraphConfig{
		URI:                   "bolt://localhost:7687",
		Username:              "neo4j",
		Database:              "neo4j",
		MaxConnectionPoolSize: 50,
		QueryTimeout:          10 * time.Second,
		NeighborLimit:         20,
	}
}

func (c *GraphConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URI == "" {
		return errors.Wrapf(errors.ErrInvalidConfig, "neo4j uri is required")
	}
	if c.NeighborLimit <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "graph neighbor limit must be positive")
	}
	return nil
}
