package graphstore

import (
	"context"
	"math"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
)

const (
	neighborsCypher = `
MATCH (dh:DigitalHuman {id: $owner_id})-[:HAS_KNOWLEDGE]->(e:ExtractedEntity {name: $name})
OPTIONAL MATCH (e)-[r]-(neighbor:ExtractedEntity)<-[:HAS_KNOWLEDGE]-(dh)
RETURN neighbor.name AS name,
       neighbor.type AS type,
       neighbor.description AS description,
       neighbor.confidence AS confidence,
       coalesce(r.relation, type(r)) AS relation,
       r.description AS relation_description,
       startNode(r) = e AS outgoing
LIMIT $limit`

	upsertEntitiesCypher = `
MERGE (dh:DigitalHuman {id: $owner_id})
WITH dh
UNWIND $entities AS entity
MERGE (e:ExtractedEntity {owner_id: $owner_id, name: entity.name})
SET e.type = entity.type,
    e.description = entity.description,
    e.confidence = entity.confidence,
    e.updated_at = datetime()
MERGE (dh)-[:HAS_KNOWLEDGE]->(e)`

	upsertRelationshipsCypher = `
UNWIND $relationships AS rel
MATCH (dh:DigitalHuman {id: $owner_id})-[:HAS_KNOWLEDGE]->(s:ExtractedEntity {name: rel.source})
MATCH (dh)-[:HAS_KNOWLEDGE]->(t:ExtractedEntity {name: rel.target})
MERGE (s)-[r:EXTRACTED_RELATION {relation: rel.relation}]->(t)
SET r.description = rel.description,
    r.confidence = rel.confidence,
    r.strength = rel.strength`

	deleteOwnerCypher = `
MATCH (dh:DigitalHuman {id: $owner_id})
OPTIONAL MATCH (dh)-[:HAS_KNOWLEDGE]->(e:ExtractedEntity)
DETACH DELETE e`

	connectRetries   = 5
	connectBaseDelay = 100 * time.Millisecond
)

// Neo4jStore implements Store on a Neo4j database.
type Neo4jStore struct {
	conf   *config.GraphConfig
	driver neo4j.DriverWithContext
	logger *mylog.Logger
}

var _ Store = (*Neo4jStore)(nil)

// NewNeo4jStore connects to Neo4j, retrying with exponential backoff until
// connectivity is verified or ctx is done.
func NewNeo4jStore(ctx context.Context, conf *config.GraphConfig, logger *mylog.Logger) (*Neo4jStore, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	logger = mylog.OrDefault(logger)

	auth := neo4j.BasicAuth(conf.Username, conf.Password, "")
	driverConfig := func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = conf.MaxConnectionPoolSize
	}

	var lastErr error
	for attempt := 0; attempt < connectRetries; attempt++ {
		driver, err := neo4j.NewDriverWithContext(conf.URI, auth, driverConfig)
		if err == nil {
			if err = driver.VerifyConnectivity(ctx); err == nil {
				logger.Info("connected to neo4j", "uri", conf.URI, "database", conf.Database)
				return &Neo4jStore{conf: conf, driver: driver, logger: logger}, nil
			}
			_ = driver.Close(ctx)
		}
		lastErr = err

		delay := connectBaseDelay * time.Duration(math.Pow(2, float64(attempt)))
		logger.Debug("neo4j connection attempt failed", "attempt", attempt+1, "retry_in", delay, "err", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "neo4j connection attempt cancelled")
		}
	}

	return nil, errors.Wrapf(lastErr, "failed to connect to neo4j after %d attempts", connectRetries)
}

func (s *Neo4jStore) UpsertEntities(ctx context.Context, ownerID int64, entities ...Entity) error {
	rows := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		if e.Name == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"name":        e.Name,
			"type":        e.Type,
			"description": e.Description,
			"confidence":  e.Confidence,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := s.write(ctx, upsertEntitiesCypher, map[string]any{
		"owner_id": ownerID,
		"entities": rows,
	})
	return errors.Wrap(err, "failed to upsert entities")
}

func (s *Neo4jStore) UpsertRelationships(ctx context.Context, ownerID int64, relationships ...Relationship) error {
	rows := make([]map[string]any, 0, len(relationships))
	for _, r := range relationships {
		relation := r.Relation
		if relation == "" {
			relation = RelationExtracted
		}
		rows = append(rows, map[string]any{
			"source":      r.Source,
			"target":      r.Target,
			"relation":    relation,
			"description": r.Description,
			"confidence":  r.Confidence,
			"strength":    r.Strength,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := s.write(ctx, upsertRelationshipsCypher, map[string]any{
		"owner_id":      ownerID,
		"relationships": rows,
	})
	return errors.Wrap(err, "failed to upsert relationships")
}

func (s *Neo4jStore) Neighbors(ctx context.Context, ownerID int64, name string, limit int) ([]Neighbor, error) {
	if limit <= 0 {
		limit = s.conf.NeighborLimit
	}

	records, err := s.read(ctx, neighborsCypher, map[string]any{
		"owner_id": ownerID,
		"name":     name,
		"limit":    int64(limit),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query neighbors of %q", name)
	}

	return neighborsFromRecords(name, records), nil
}

func (s *Neo4jStore) DeleteOwner(ctx context.Context, ownerID int64) error {
	_, err := s.write(ctx, deleteOwnerCypher, map[string]any{"owner_id": ownerID})
	return errors.Wrap(err, "failed to delete owner graph")
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	err := s.driver.Close(ctx)
	s.driver = nil
	return errors.Wrap(err, "failed to close neo4j driver")
}

func (s *Neo4jStore) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return s.run(ctx, cypher, params, false)
}

func (s *Neo4jStore) write(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return s.run(ctx, cypher, params, true)
}

func (s *Neo4jStore) run(ctx context.Context, cypher string, params map[string]any, write bool) ([]*neo4j.Record, error) {
	if s.driver == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "neo4j driver not connected")
	}

	if s.conf.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.QueryTimeout)
		defer cancel()
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.conf.Database})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	}

	var (
		out any
		err error
	)
	if write {
		out, err = session.ExecuteWrite(ctx, work)
	} else {
		out, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return nil, err
	}

	records, _ := out.([]*neo4j.Record)
	return records, nil
}

// neighborsFromRecords converts neighbor rows into Neighbors. Rows with no
// neighbor come from the OPTIONAL MATCH and are skipped.
func neighborsFromRecords(seed string, records []*neo4j.Record) []Neighbor {
	neighbors := make([]Neighbor, 0, len(records))
	for _, record := range records {
		name := recordString(record, "name")
		if name == "" {
			continue
		}

		outgoing := recordBool(record, "outgoing")
		source, target := seed, name
		if !outgoing {
			source, target = name, seed
		}

		neighbors = append(neighbors, Neighbor{
			Entity: Entity{
				Name:        name,
				Type:        recordString(record, "type"),
				Description: recordString(record, "description"),
				Confidence:  recordFloat(record, "confidence"),
			},
			Relationship: Relationship{
				Source:      source,
				Target:      target,
				Relation:    recordString(record, "relation"),
				Description: recordString(record, "relation_description"),
			},
			Outgoing: outgoing,
		})
	}
	return neighbors
}

func recordString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func recordBool(record *neo4j.Record, key string) bool {
	v, ok := record.Get(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func recordFloat(record *neo4j.Record, key string) float64 {
	v, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
