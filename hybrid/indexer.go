package hybrid

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/graphstore"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
)

// Indexer writes extracted knowledge to the entity and relationship
// collections and, when a graph is bound, to the owner's graph.
type Indexer struct {
	vectors  vectorstore.Store
	embedder vectorstore.Embedder
	graph    graphstore.Store
	logger   *mylog.Logger
}

type IndexStats struct {
	Entities      int `json:"entities"`
	Relationships int `json:"relationships"`
}

func NewIndexer(vectors vectorstore.Store, embedder vectorstore.Embedder, graph graphstore.Store, logger *mylog.Logger) *Indexer {
	return &Indexer{
		vectors:  vectors,
		embedder: embedder,
		graph:    graph,
		logger:   mylog.OrDefault(logger),
	}
}

func (x *Indexer) Index(ctx context.Context, ownerID int64, entities []graphstore.Entity, relationships []graphstore.Relationship) (*IndexStats, error) {
	if x.vectors == nil || x.embedder == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "indexing requires a vector store and an embedder")
	}

	entities = lo.Filter(entities, func(e graphstore.Entity, _ int) bool {
		return strings.TrimSpace(e.Name) != ""
	})
	entities = lo.Map(entities, func(e graphstore.Entity, _ int) graphstore.Entity {
		if e.Confidence == 0 {
			e.Confidence = DefaultConfidence
		}
		return e
	})
	relationships = lo.FilterMap(relationships, func(r graphstore.Relationship, _ int) (graphstore.Relationship, bool) {
		if r.Source == "" || r.Target == "" {
			return r, false
		}
		if r.Relation == "" {
			r.Relation = graphstore.RelationExtracted
		}
		if r.Confidence == 0 {
			r.Confidence = DefaultConfidence
		}
		if r.Strength == 0 {
			r.Strength = DefaultStrength
		}
		return r, true
	})

	if err := x.indexEntities(ctx, ownerID, entities); err != nil {
		return nil, err
	}
	if err := x.indexRelationships(ctx, ownerID, relationships); err != nil {
		return nil, err
	}

	if x.graph != nil {
		if err := x.graph.UpsertEntities(ctx, ownerID, entities...); err != nil {
			return nil, err
		}
		if err := x.graph.UpsertRelationships(ctx, ownerID, relationships...); err != nil {
			return nil, err
		}
	}

	x.logger.Info("indexed knowledge", "owner_id", ownerID, "entities", len(entities), "relationships", len(relationships))
	return &IndexStats{Entities: len(entities), Relationships: len(relationships)}, nil
}

func (x *Indexer) indexEntities(ctx context.Context, ownerID int64, entities []graphstore.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	texts := lo.Map(entities, func(e graphstore.Entity, _ int) string {
		return fmt.Sprintf("%s: %s", e.Name, e.Description)
	})
	embeddings, err := x.embed(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]vectorstore.Record, len(entities))
	for i, e := range entities {
		records[i] = vectorstore.Record{
			ID:        fmt.Sprintf("entity_%d_%s", ownerID, e.Name),
			OwnerID:   ownerID,
			Content:   texts[i],
			Embedding: embeddings[i],
			Metadata: map[string]string{
				MetadataEntityName:  e.Name,
				MetadataEntityTypes: typesJSON(e.Type),
				MetadataDescription: e.Description,
				MetadataConfidence:  formatScore(e.Confidence),
			},
		}
	}
	return errors.Wrap(x.vectors.Upsert(ctx, vectorstore.CollectionEntities, records...), "failed to index entities")
}

func (x *Indexer) indexRelationships(ctx context.Context, ownerID int64, relationships []graphstore.Relationship) error {
	if len(relationships) == 0 {
		return nil
	}

	texts := lo.Map(relationships, func(r graphstore.Relationship, _ int) string {
		return fmt.Sprintf("%s %s %s: %s", r.Source, r.Relation, r.Target, r.Description)
	})
	embeddings, err := x.embed(ctx, texts)
	if err != nil {
		return err
	}

	records := make([]vectorstore.Record, len(relationships))
	for i, r := range relationships {
		records[i] = vectorstore.Record{
			ID:        fmt.Sprintf("rel_%d_%s_%s_%s", ownerID, r.Source, r.Relation, r.Target),
			OwnerID:   ownerID,
			Content:   texts[i],
			Embedding: embeddings[i],
			Metadata: map[string]string{
				MetadataSource:        r.Source,
				MetadataTarget:        r.Target,
				MetadataRelationTypes: typesJSON(r.Relation),
				MetadataDescription:   r.Description,
				MetadataConfidence:    formatScore(r.Confidence),
				MetadataStrength:      formatScore(r.Strength),
			},
		}
	}
	return errors.Wrap(x.vectors.Upsert(ctx, vectorstore.CollectionRelationships, records...), "failed to index relationships")
}

func (x *Indexer) embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := x.embedder.Embed(ctx, texts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed knowledge")
	}
	if len(embeddings) != len(texts) {
		return nil, errors.Wrapf(errors.ErrContractViolation, "embedder returned %d vectors for %d texts", len(embeddings), len(texts))
	}
	return embeddings, nil
}

func typesJSON(types ...string) string {
	types = lo.Compact(types)
	if len(types) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(types)
	return string(b)
}
