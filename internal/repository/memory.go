package repository

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/hms-backend/internal/dberr"
	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	name string
	docs map[string][]bson.M
	err  error
	now  func() time.Time
}

// NewMemoryStore returns a connected in-memory store reporting name as its
// database name.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{
		name: name,
		docs: make(map[string][]bson.M),
		now:  time.Now,
	}
}

// FailWith makes every following Insert fail with err, classified the way
// a driver error would be. A nil err restores normal behaviour.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, record any) (string, error) {
	if collection == "" {
		return "", invalidCollection()
	}

	if err := ctx.Err(); err != nil {
		return "", dberr.New("insert", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return "", dberr.New("insert", collection, s.err)
	}

	doc, id, err := toDocument(collection, record, s.now())
	if err != nil {
		return "", err
	}

	s.docs[collection] = append(s.docs[collection], doc)

	return id.Hex(), nil
}

func (s *MemoryStore) Status() StoreStatus {
	return StoreStatus{Connected: true, Name: s.name}
}

// Documents returns a copy of the documents stored in collection.
func (s *MemoryStore) Documents(collection string) []bson.M {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bson.M, len(s.docs[collection]))
	copy(out, s.docs[collection])
	return out
}
