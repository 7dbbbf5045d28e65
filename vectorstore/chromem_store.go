package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/philippgille/chromem-go"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const metadataCreatedAt = "_created_at"

// ChromemStore keeps one chromem collection per (collection, owner) pair.
type ChromemStore struct {
	db *chromem.DB
}

var _ Store = (*ChromemStore)(nil)

// NewChromemStore opens a chromem database. An empty path keeps it in memory.
func NewChromemStore(path string) (*ChromemStore, error) {
	if path == "" {
		return &ChromemStore{db: chromem.NewDB()}, nil
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open chromem database at %s", path)
	}
	return &ChromemStore{db: db}, nil
}

func chromemCollectionName(collection string, ownerID int64) string {
	return fmt.Sprintf("%s_owner_%d", collection, ownerID)
}

func (s *ChromemStore) Upsert(ctx context.Context, collection string, records ...Record) error {
	for _, record := range records {
		if err := validateRecord(record); err != nil {
			return err
		}
	}

	for _, record := range records {
		col, err := s.db.GetOrCreateCollection(chromemCollectionName(collection, record.OwnerID), nil, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to get collection %s", collection)
		}

		metadata := withOwner(record.Metadata, record.OwnerID)
		metadata[metadataCreatedAt] = createdAt(record).Format(time.RFC3339Nano)

		if err := col.AddDocument(ctx, chromem.Document{
			ID:        record.ID,
			Content:   record.Content,
			Embedding: record.Embedding,
			Metadata:  metadata,
		}); err != nil {
			return errors.Wrapf(err, "failed to add document %s", record.ID)
		}
	}

	return nil
}

func (s *ChromemStore) Query(ctx context.Context, collection string, ownerID int64, embedding []float32, k int) ([]Match, error) {
	if len(embedding) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "query embedding is empty")
	}

	col := s.db.GetCollection(chromemCollectionName(collection, ownerID), nil)
	if col == nil || k <= 0 {
		return []Match{}, nil
	}

	where := map[string]string{MetadataOwnerID: strconv.FormatInt(ownerID, 10)}

	// chromem requires nResults <= number of documents
	var results []chromem.Result
	for n := min(k, col.Count()); n >= 1; n-- {
		var err error
		results, err = col.QueryEmbedding(ctx, embedding, n, where, nil)
		if err == nil {
			break
		}
		if !isInsufficientDocsError(err) {
			return nil, errors.Wrapf(err, "failed to query collection %s", collection)
		}
	}

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		metadata := make(map[string]string, len(result.Metadata))
		var created time.Time
		for key, value := range result.Metadata {
			if key == metadataCreatedAt {
				created, _ = time.Parse(time.RFC3339Nano, value)
				continue
			}
			metadata[key] = value
		}

		matches = append(matches, Match{
			Record: Record{
				ID:        result.ID,
				OwnerID:   ownerID,
				Content:   result.Content,
				Embedding: result.Embedding,
				Metadata:  metadata,
				CreatedAt: created,
			},
			Distance: 1 - result.Similarity,
		})
	}

	return matches, nil
}

func (s *ChromemStore) DeleteOwner(_ context.Context, collection string, ownerID int64) error {
	name := chromemCollectionName(collection, ownerID)
	if s.db.GetCollection(name, nil) == nil {
		return nil
	}
	if err := s.db.DeleteCollection(name); err != nil {
		return errors.Wrapf(err, "failed to delete collection %s", name)
	}
	return nil
}

func (s *ChromemStore) Close() error {
	return nil
}

func isInsufficientDocsError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
