package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/soontechgroup/ai-agents-sub001/errors"
	"gonum.org/v1/gonum/mat"
)

type (
	ownerKey struct {
		collection string
		ownerID    int64
	}

	// InMemoryStore keeps unit-normalized embeddings per collection and owner
	// and scores them with a single matrix-vector product.
	InMemoryStore struct {
		mu      sync.RWMutex
		records map[ownerKey]map[string]Record
	}
)

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[ownerKey]map[string]Record),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, collection string, records ...Record) error {
	for _, record := range records {
		if err := validateRecord(record); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		key := ownerKey{collection: collection, ownerID: record.OwnerID}
		bucket, ok := s.records[key]
		if !ok {
			bucket = make(map[string]Record)
			s.records[key] = bucket
		}

		record.Embedding = normalize(record.Embedding)
		record.Metadata = withOwner(record.Metadata, record.OwnerID)
		record.CreatedAt = createdAt(record)
		bucket[record.ID] = record
	}

	return nil
}

func (s *InMemoryStore) Query(_ context.Context, collection string, ownerID int64, embedding []float32, k int) ([]Match, error) {
	if len(embedding) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "query embedding is empty")
	}
	if k <= 0 {
		return []Match{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dim := len(embedding)
	var candidates []Record
	for _, record := range s.records[ownerKey{collection: collection, ownerID: ownerID}] {
		if len(record.Embedding) == dim {
			candidates = append(candidates, record)
		}
	}
	if len(candidates) == 0 {
		return []Match{}, nil
	}

	query := normalize(embedding)
	queryVec := make([]float64, dim)
	for i, v := range query {
		queryVec[i] = float64(v)
	}

	data := make([]float64, len(candidates)*dim)
	for i, record := range candidates {
		for j, v := range record.Embedding {
			data[i*dim+j] = float64(v)
		}
	}

	// rows are unit vectors, so the product is cosine similarity
	var scores mat.VecDense
	scores.MulVec(mat.NewDense(len(candidates), dim, data), mat.NewVecDense(dim, queryVec))

	matches := make([]Match, len(candidates))
	for i, record := range candidates {
		matches[i] = Match{
			Record:   record,
			Distance: float32(1 - scores.AtVec(i)),
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func (s *InMemoryStore) DeleteOwner(_ context.Context, collection string, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, ownerKey{collection: collection, ownerID: ownerID})
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// normalize returns a unit-length copy of v. A zero vector is returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}

	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
