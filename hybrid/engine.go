// Package hybrid combines vector similarity search over extracted
// knowledge with one-hop expansion through the owner's knowledge graph.
package hybrid

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/graphstore"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/internal/sliceutils"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultEntityLimit       = 20
	DefaultRelationshipLimit = 10

	// expansionSeeds is how many top semantic entities seed graph expansion.
	expansionSeeds = 5
)

type (
	Request struct {
		Query             string `json:"query"`
		OwnerID           int64  `json:"owner_id"`
		Mode              Mode   `json:"mode"`
		EntityLimit       int    `json:"entity_limit"`
		RelationshipLimit int    `json:"relationship_limit"`
		ExpandGraph       bool   `json:"expand_graph"`
	}

	Statistics struct {
		TotalEntities         int `json:"total_entities"`
		TotalRelationships    int `json:"total_relationships"`
		SemanticEntities      int `json:"semantic_entities"`
		GraphEntities         int `json:"graph_entities"`
		SemanticRelationships int `json:"semantic_relationships"`
		GraphRelationships    int `json:"graph_relationships"`
	}

	Result struct {
		Query         string                  `json:"query"`
		Mode          Mode                    `json:"mode"`
		Entities      []EntityCandidate       `json:"entities"`
		Relationships []RelationshipCandidate `json:"relationships"`
		Statistics    Statistics              `json:"statistics"`
		// Failures lists graph lookups that were skipped.
		Failures []string `json:"failures,omitempty"`
	}

	Engine struct {
		vectors     vectorstore.Store
		embedder    vectorstore.Embedder
		graph       graphstore.Store
		logger      *mylog.Logger
		callTimeout time.Duration
	}

	Option func(*Engine)
)

func WithLogger(logger *mylog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCallTimeout bounds the embedding call and each vector query.
func WithCallTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.callTimeout = timeout
	}
}

// NewEngine builds an Engine. graph may be nil, in which case expansion
// is a no-op.
func NewEngine(vectors vectorstore.Store, embedder vectorstore.Embedder, graph graphstore.Store, opts ...Option) *Engine {
	e := &Engine{
		vectors:  vectors,
		embedder: embedder,
		graph:    graph,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = mylog.OrDefault(e.logger)
	return e
}

func (r *Request) normalize() error {
	switch r.Mode {
	case "":
		r.Mode = ModeHybrid
	case ModeSemantic, ModeGraph, ModeHybrid:
	default:
		return errors.Wrapf(errors.ErrInvalidParams, "unknown search mode %q", r.Mode)
	}
	if r.EntityLimit <= 0 {
		r.EntityLimit = DefaultEntityLimit
	}
	if r.RelationshipLimit <= 0 {
		r.RelationshipLimit = DefaultRelationshipLimit
	}
	return nil
}

// Search runs the semantic stage, optionally expands through the graph,
// then deduplicates and ranks. Graph failures are recorded in
// Result.Failures and never abort the search.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	result := &Result{
		Query:         req.Query,
		Mode:          req.Mode,
		Entities:      []EntityCandidate{},
		Relationships: []RelationshipCandidate{},
	}

	if req.Mode == ModeSemantic || req.Mode == ModeHybrid {
		entities, relationships, err := e.semantic(ctx, req)
		if err != nil {
			return nil, err
		}
		result.Entities = append(result.Entities, entities...)
		result.Relationships = append(result.Relationships, relationships...)
	}

	if (req.Mode == ModeGraph || req.Mode == ModeHybrid) && req.ExpandGraph && len(result.Entities) > 0 {
		e.expand(ctx, req.OwnerID, result)
	}

	result.Entities = dedupEntities(result.Entities)
	result.Relationships = dedupRelationships(result.Relationships)
	rankEntities(result.Entities)
	rankRelationships(result.Relationships)
	result.Statistics = statistics(result)

	e.logger.Debug("hybrid search finished",
		"owner_id", req.OwnerID,
		"mode", req.Mode,
		"entities", result.Statistics.TotalEntities,
		"relationships", result.Statistics.TotalRelationships,
	)
	return result, nil
}

func (e *Engine) semantic(ctx context.Context, req Request) ([]EntityCandidate, []RelationshipCandidate, error) {
	if e.vectors == nil || e.embedder == nil {
		return nil, nil, errors.Wrap(errors.ErrConfiguration, "hybrid search requires a vector store and an embedder")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, nil, nil
	}

	embedCtx, cancel := e.withTimeout(ctx)
	embeddings, err := e.embedder.Embed(embedCtx, req.Query)
	cancel()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to embed query")
	}
	if len(embeddings) != 1 {
		return nil, nil, errors.Wrapf(errors.ErrContractViolation, "embedder returned %d vectors for one query", len(embeddings))
	}
	embedding := embeddings[0]

	var entityMatches, relationshipMatches []vectorstore.Match
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qctx, cancel := e.withTimeout(gctx)
		defer cancel()
		var qerr error
		entityMatches, qerr = e.vectors.Query(qctx, vectorstore.CollectionEntities, req.OwnerID, embedding, req.EntityLimit)
		return errors.Wrap(qerr, "entity query failed")
	})
	g.Go(func() error {
		qctx, cancel := e.withTimeout(gctx)
		defer cancel()
		var qerr error
		relationshipMatches, qerr = e.vectors.Query(qctx, vectorstore.CollectionRelationships, req.OwnerID, embedding, req.RelationshipLimit)
		return errors.Wrap(qerr, "relationship query failed")
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	entities := make([]EntityCandidate, 0, len(entityMatches))
	for _, m := range entityMatches {
		c, err := entityFromMatch(m)
		if err != nil {
			e.logger.Warn("entity metadata violated contract", "owner_id", req.OwnerID, "record", m.ID, "err", err)
			if c.Name == "" {
				continue
			}
		}
		entities = append(entities, c)
	}

	relationships := make([]RelationshipCandidate, 0, len(relationshipMatches))
	for _, m := range relationshipMatches {
		c, err := relationshipFromMatch(m)
		if err != nil {
			e.logger.Warn("relationship metadata violated contract", "owner_id", req.OwnerID, "record", m.ID, "err", err)
			if c.Source == "" {
				continue
			}
		}
		relationships = append(relationships, c)
	}

	return entities, relationships, nil
}

// expand adds one-hop neighbors of the top semantic entities. Names and
// (source, target) pairs already in the result are skipped.
func (e *Engine) expand(ctx context.Context, ownerID int64, result *Result) {
	if e.graph == nil {
		return
	}

	seeds := lo.Map(sliceutils.Head(result.Entities, expansionSeeds), func(c EntityCandidate, _ int) string {
		return c.Name
	})

	seenEntities := lo.SliceToMap(result.Entities, func(c EntityCandidate) (string, struct{}) {
		return c.Name, struct{}{}
	})
	seenRelationships := lo.SliceToMap(result.Relationships, func(c RelationshipCandidate) (string, struct{}) {
		return c.key(), struct{}{}
	})

	for _, seed := range seeds {
		if ctx.Err() != nil {
			result.Failures = append(result.Failures, seed+": "+ctx.Err().Error())
			continue
		}

		neighbors, err := e.graph.Neighbors(ctx, ownerID, seed, graphstore.DefaultNeighborLimit)
		if err != nil {
			e.logger.Warn("graph neighbor lookup failed", "owner_id", ownerID, "entity", seed, "err", err)
			result.Failures = append(result.Failures, seed+": "+err.Error())
			continue
		}

		for _, n := range neighbors {
			entity := neighborEntity(n)
			if _, ok := seenEntities[entity.Name]; !ok {
				seenEntities[entity.Name] = struct{}{}
				result.Entities = append(result.Entities, entity)
			}

			rel := neighborRelationship(seed, n)
			if _, ok := seenRelationships[rel.key()]; !ok {
				seenRelationships[rel.key()] = struct{}{}
				result.Relationships = append(result.Relationships, rel)
			}
		}
	}
}

func neighborEntity(n graphstore.Neighbor) EntityCandidate {
	entityType := n.Entity.Type
	if entityType == "" {
		entityType = "unknown"
	}
	return EntityCandidate{
		Name:        n.Entity.Name,
		Types:       []string{entityType},
		Description: n.Entity.Description,
		Confidence:  GraphConfidence,
		Provenance:  ProvenanceGraph,
	}
}

// neighborRelationship keeps the stored edge direction, so an edge that
// points at the seed is reported with the neighbor as its source.
func neighborRelationship(seed string, n graphstore.Neighbor) RelationshipCandidate {
	relation := n.Relationship.Relation
	if relation == "" {
		relation = graphstore.RelationExtracted
	}
	source, target := seed, n.Entity.Name
	if !n.Outgoing {
		source, target = n.Entity.Name, seed
	}
	return RelationshipCandidate{
		Source:      source,
		Target:      target,
		Types:       []string{relation},
		Description: n.Relationship.Description,
		Confidence:  GraphConfidence,
		Strength:    DefaultStrength,
		Provenance:  ProvenanceGraph,
	}
}

func statistics(result *Result) Statistics {
	return Statistics{
		TotalEntities:      len(result.Entities),
		TotalRelationships: len(result.Relationships),
		SemanticEntities: lo.CountBy(result.Entities, func(c EntityCandidate) bool {
			return c.Provenance == ProvenanceSemantic
		}),
		GraphEntities: lo.CountBy(result.Entities, func(c EntityCandidate) bool {
			return c.Provenance == ProvenanceGraph
		}),
		SemanticRelationships: lo.CountBy(result.Relationships, func(c RelationshipCandidate) bool {
			return c.Provenance == ProvenanceSemantic
		}),
		GraphRelationships: lo.CountBy(result.Relationships, func(c RelationshipCandidate) bool {
			return c.Provenance == ProvenanceGraph
		}),
	}
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.callTimeout)
}
