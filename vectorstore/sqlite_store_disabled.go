//go:build without_sqlite

package vectorstore

import (
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type SqliteStore struct {
	InMemoryStore
}

func NewSqliteStore(string, int) (*SqliteStore, error) {
	return nil, errors.Wrapf(errors.ErrConfiguration, "sqlite vector store is not enabled. rebuild without the without_sqlite tag")
}
