package graphstore

import (
	"context"

	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
)

// NewStoreFromConfig returns a Neo4j-backed store when the graph is enabled
// and an in-process store otherwise.
func NewStoreFromConfig(ctx context.Context, conf *config.GraphConfig, logger *mylog.Logger) (Store, error) {
	if !conf.Enabled {
		return NewInMemoryStore(), nil
	}
	return NewNeo4jStore(ctx, conf, logger)
}
