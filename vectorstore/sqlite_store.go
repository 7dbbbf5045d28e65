//go:build !without_sqlite

package vectorstore

import (
	"context"
	"fmt"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SqliteStore implements Store on SQLite with the sqlite-vec extension.
type SqliteStore struct {
	db     *gorm.DB
	vecDim int
}

var _ Store = (*SqliteStore)(nil)

// SqliteVectorRecord holds the document side of an embedded record.
// RowKey is "<collection>/<id>" and joins with record_vectors.record_key.
type SqliteVectorRecord struct {
	RowKey     string `gorm:"primaryKey"`
	RecordID   string
	Collection string `gorm:"index:idx_collection_owner"`
	OwnerID    int64  `gorm:"index:idx_collection_owner"`
	Content    string
	Metadata   datatypes.JSONType[map[string]string]
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SqliteVectorRecord) TableName() string {
	return "vector_records"
}

func NewSqliteStore(dbPath string, dimension int) (*SqliteStore, error) {
	if dimension <= 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "dimension must be positive")
	}

	sqlite_vec.Auto()

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on", dbPath)),
		&gorm.Config{},
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite database")
	}

	store := &SqliteStore{
		db:     db,
		vecDim: dimension,
	}

	if err := db.AutoMigrate(&SqliteVectorRecord{}); err != nil {
		return nil, errors.Wrapf(err, "failed to migrate vector_records table")
	}

	if err := store.createVectorTable(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SqliteStore) createVectorTable() error {
	var sqliteVersion, vecVersion string
	err := s.db.Raw("SELECT sqlite_version(), vec_version()").Row().Scan(&sqliteVersion, &vecVersion)
	if err != nil {
		return errors.Wrapf(err, "sqlite-vec extension not properly loaded")
	}

	createTableSQL := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS record_vectors USING vec0(
			record_key TEXT PRIMARY KEY,
			embedding float[%d]
		);
	`, s.vecDim)

	if err := s.db.Exec(createTableSQL).Error; err != nil {
		return errors.Wrapf(err, "failed to create record_vectors table")
	}

	return nil
}

func recordKey(collection, id string) string {
	return collection + "/" + id
}

func (s *SqliteStore) Upsert(ctx context.Context, collection string, records ...Record) error {
	for _, record := range records {
		if err := validateRecord(record); err != nil {
			return err
		}
		if len(record.Embedding) != s.vecDim {
			return errors.Wrapf(errors.ErrInvalidParams, "record %s has dimension %d, store expects %d", record.ID, len(record.Embedding), s.vecDim)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			key := recordKey(collection, record.ID)
			row := SqliteVectorRecord{
				RowKey:     key,
				RecordID:   record.ID,
				Collection: collection,
				OwnerID:    record.OwnerID,
				Content:    record.Content,
				Metadata:   datatypes.NewJSONType(withOwner(record.Metadata, record.OwnerID)),
				CreatedAt:  createdAt(record),
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return errors.Wrapf(err, "failed to save record %s", record.ID)
			}

			if err := tx.Exec("DELETE FROM record_vectors WHERE record_key = ?", key).Error; err != nil {
				return errors.Wrapf(err, "failed to delete existing vector")
			}

			serialized, err := sqlite_vec.SerializeFloat32(record.Embedding)
			if err != nil {
				return errors.Wrapf(err, "failed to serialize embedding")
			}

			if err := tx.Exec("INSERT INTO record_vectors (record_key, embedding) VALUES (?, ?)", key, serialized).Error; err != nil {
				return errors.Wrapf(err, "failed to insert vector")
			}
		}
		return nil
	})
}

func (s *SqliteStore) Query(ctx context.Context, collection string, ownerID int64, embedding []float32, k int) ([]Match, error) {
	if len(embedding) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "query embedding is empty")
	}
	if len(embedding) != s.vecDim {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "query has dimension %d, store expects %d", len(embedding), s.vecDim)
	}
	if k <= 0 {
		return []Match{}, nil
	}

	serializedQuery, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to serialize query embedding")
	}

	// exact scan over the owner's vectors keeps the owner filter inside the query
	rows, err := s.db.WithContext(ctx).Raw(`
		SELECT v.record_key, vec_distance_cosine(v.embedding, ?) AS distance
		FROM record_vectors v
		JOIN vector_records r ON r.row_key = v.record_key
		WHERE r.collection = ? AND r.owner_id = ?
		ORDER BY distance
		LIMIT ?
	`, serializedQuery, collection, ownerID, k).Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute search query")
	}
	defer rows.Close()

	var (
		ordered   []string
		distances = make(map[string]float32)
	)
	for rows.Next() {
		var (
			key      string
			distance float32
		)
		if err := rows.Scan(&key, &distance); err != nil {
			return nil, errors.Wrapf(err, "failed to scan result row")
		}
		ordered = append(ordered, key)
		distances[key] = distance
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(ordered) == 0 {
		return []Match{}, nil
	}

	var records []SqliteVectorRecord
	if err := s.db.WithContext(ctx).Where("row_key IN ?", ordered).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to fetch records")
	}
	byKey := make(map[string]SqliteVectorRecord, len(records))
	for _, r := range records {
		byKey[r.RowKey] = r
	}

	matches := make([]Match, 0, len(ordered))
	for _, key := range ordered {
		r, ok := byKey[key]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Record: Record{
				ID:        r.RecordID,
				OwnerID:   r.OwnerID,
				Content:   r.Content,
				Metadata:  r.Metadata.Data(),
				CreatedAt: r.CreatedAt,
			},
			Distance: distances[key],
		})
	}

	return matches, nil
}

func (s *SqliteStore) DeleteOwner(ctx context.Context, collection string, ownerID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			DELETE FROM record_vectors
			WHERE record_key IN (SELECT row_key FROM vector_records WHERE collection = ? AND owner_id = ?)
		`, collection, ownerID).Error; err != nil {
			return errors.Wrapf(err, "failed to delete vectors")
		}
		if err := tx.Delete(&SqliteVectorRecord{}, "collection = ? AND owner_id = ?", collection, ownerID).Error; err != nil {
			return errors.Wrapf(err, "failed to delete records")
		}
		return nil
	})
}

func (s *SqliteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
