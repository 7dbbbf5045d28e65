// Package graphstore persists per-owner knowledge graphs of extracted
// entities and the relationships between them.
package graphstore

import (
	"context"
)

const (
	LabelOwner           = "DigitalHuman"
	LabelEntity          = "ExtractedEntity"
	RelationHasKnowledge = "HAS_KNOWLEDGE"
	RelationExtracted    = "EXTRACTED_RELATION"

	DefaultNeighborLimit = 20
)

type (
	Entity struct {
		Name        string  `json:"name"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		Confidence  float64 `json:"confidence"`
	}

	Relationship struct {
		Source      string  `json:"source"`
		Target      string  `json:"target"`
		Relation    string  `json:"relation"`
		Description string  `json:"description"`
		Confidence  float64 `json:"confidence"`
		Strength    float64 `json:"strength"`
	}

	// Neighbor is one row of a one-hop expansion around a seed entity.
	// Relationship keeps the stored edge direction; Outgoing is true when
	// the edge starts at the seed.
	Neighbor struct {
		Entity       Entity       `json:"entity"`
		Relationship Relationship `json:"relationship"`
		Outgoing     bool         `json:"outgoing"`
	}

	// Store is an owner-scoped knowledge graph. Every operation filters on
	// the owner id; entities of different owners never connect.
	Store interface {
		UpsertEntities(ctx context.Context, ownerID int64, entities ...Entity) error
		UpsertRelationships(ctx context.Context, ownerID int64, relationships ...Relationship) error
		// Neighbors returns at most limit entities adjacent to name.
		Neighbors(ctx context.Context, ownerID int64, name string, limit int) ([]Neighbor, error)
		DeleteOwner(ctx context.Context, ownerID int64) error
		Close(ctx context.Context) error
	}
)
