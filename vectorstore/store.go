package vectorstore

import (
	"context"
	"strconv"
	"time"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const (
	CollectionConversationMemory = "conversation_memory"
	CollectionEntities           = "entity_embeddings"
	CollectionRelationships      = "relationship_embeddings"

	MetadataOwnerID = "owner_id"
)

type (
	// Record is one embedded document owned by a single agent.
	Record struct {
		ID        string            `json:"id"`
		OwnerID   int64             `json:"owner_id"`
		Content   string            `json:"content"`
		Embedding []float32         `json:"-"`
		Metadata  map[string]string `json:"metadata,omitempty"`
		CreatedAt time.Time         `json:"created_at"`
	}

	// Match is a k-NN hit. Distance is cosine distance, lower is closer.
	Match struct {
		Record
		Distance float32 `json:"distance"`
	}

	// Store is an owner-scoped vector index with named collections.
	Store interface {
		Upsert(ctx context.Context, collection string, records ...Record) error
		Query(ctx context.Context, collection string, ownerID int64, embedding []float32, k int) ([]Match, error)
		// DeleteOwner removes every record of ownerID from collection.
		DeleteOwner(ctx context.Context, collection string, ownerID int64) error
		Close() error
	}
)

func validateRecord(record Record) error {
	if record.ID == "" {
		return errors.Wrapf(errors.ErrInvalidParams, "record id is required")
	}
	if len(record.Embedding) == 0 {
		return errors.Wrapf(errors.ErrInvalidParams, "record %s has no embedding", record.ID)
	}
	return nil
}

// withOwner copies metadata and stamps the owner id into it.
func withOwner(metadata map[string]string, ownerID int64) map[string]string {
	out := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out[MetadataOwnerID] = strconv.FormatInt(ownerID, 10)
	return out
}

func createdAt(record Record) time.Time {
	if record.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return record.CreatedAt
}
