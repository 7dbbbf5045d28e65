package graphstore

import (
	"context"
	"sync"
)

type (
	ownerGraph struct {
		entities map[string]Entity
		edges    []Relationship
	}

	// InMemoryStore is a process-local Store.
	InMemoryStore struct {
		mu     sync.RWMutex
		owners map[int64]*ownerGraph
	}
)

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{owners: make(map[int64]*ownerGraph)}
}

func (s *InMemoryStore) graph(ownerID int64) *ownerGraph {
	g, ok := s.owners[ownerID]
	if !ok {
		g = &ownerGraph{entities: make(map[string]Entity)}
		s.owners[ownerID] = g
	}
	return g
}

func (s *InMemoryStore) UpsertEntities(_ context.Context, ownerID int64, entities ...Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graph(ownerID)
	for _, e := range entities {
		if e.Name == "" {
			continue
		}
		g.entities[e.Name] = e
	}
	return nil
}

func (s *InMemoryStore) UpsertRelationships(_ context.Context, ownerID int64, relationships ...Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.graph(ownerID)
	for _, r := range relationships {
		// both ends must be known to this owner, as with the MATCH in Neo4j
		if _, ok := g.entities[r.Source]; !ok {
			continue
		}
		if _, ok := g.entities[r.Target]; !ok {
			continue
		}

		replaced := false
		for i, existing := range g.edges {
			if existing.Source == r.Source && existing.Target == r.Target && existing.Relation == r.Relation {
				g.edges[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			g.edges = append(g.edges, r)
		}
	}
	return nil
}

func (s *InMemoryStore) Neighbors(_ context.Context, ownerID int64, name string, limit int) ([]Neighbor, error) {
	if limit <= 0 {
		limit = DefaultNeighborLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.owners[ownerID]
	if !ok {
		return nil, nil
	}
	if _, ok := g.entities[name]; !ok {
		return nil, nil
	}

	var neighbors []Neighbor
	for _, edge := range g.edges {
		if len(neighbors) >= limit {
			break
		}

		var other string
		switch name {
		case edge.Source:
			other = edge.Target
		case edge.Target:
			other = edge.Source
		default:
			continue
		}

		neighbors = append(neighbors, Neighbor{
			Entity:       g.entities[other],
			Relationship: edge,
			Outgoing:     edge.Source == name,
		})
	}

	return neighbors, nil
}

func (s *InMemoryStore) DeleteOwner(_ context.Context, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.owners, ownerID)
	return nil
}

func (s *InMemoryStore) Close(context.Context) error {
	return nil
}
