package graphstore

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborsFromRecords(t *testing.T) {
	keys := []string{"name", "type", "description", "confidence", "relation", "relation_description", "outgoing"}
	records := []*neo4j.Record{
		{Keys: keys, Values: []any{"Acme", "organization", "employer", 0.9, "WORKS_AT", "full time", true}},
		{Keys: keys, Values: []any{nil, nil, nil, nil, nil, nil, nil}},
		{Keys: keys, Values: []any{"Go", nil, nil, nil, "EXTRACTED_RELATION", nil, false}},
	}

	neighbors := neighborsFromRecords("Alice", records)
	require.Len(t, neighbors, 2)

	assert.Equal(t, Entity{Name: "Acme", Type: "organization", Description: "employer", Confidence: 0.9}, neighbors[0].Entity)
	assert.Equal(t, Relationship{Source: "Alice", Target: "Acme", Relation: "WORKS_AT", Description: "full time"}, neighbors[0].Relationship)

	assert.True(t, neighbors[0].Outgoing)

	assert.Equal(t, "Go", neighbors[1].Entity.Name)
	assert.False(t, neighbors[1].Outgoing)
	assert.Equal(t, "Go", neighbors[1].Relationship.Source)
	assert.Equal(t, "Alice", neighbors[1].Relationship.Target)
	assert.Empty(t, neighbors[1].Entity.Type)
	assert.Zero(t, neighbors[1].Entity.Confidence)
}

func TestNewNeo4jStore_InvalidConfig(t *testing.T) {
	conf := config.NewGraphConfig()
	conf.Enabled = true
	conf.URI = ""

	_, err := NewNeo4jStore(t.Context(), conf, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestNewNeo4jStore_CancelledWhileRetrying(t *testing.T) {
	conf := config.NewGraphConfig()
	conf.Enabled = true
	conf.URI = "bolt://127.0.0.1:1"

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := NewNeo4jStore(ctx, conf, nil)
	assert.Error(t, err)
}

func TestNeo4jStore_NotConnected(t *testing.T) {
	store := &Neo4jStore{conf: config.NewGraphConfig()}

	_, err := store.Neighbors(t.Context(), 1, "Alice", 0)
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.NoError(t, store.Close(t.Context()))
}
