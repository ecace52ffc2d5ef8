package repository

import (
	"context"
	"time"

	"github.com/deppfellow/hms-backend/internal/dberr"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore is a DocumentStore over a MongoDB database handle. A nil
// handle means the service runs without a store and every insert fails
// with dberr.Unavailable.
type MongoStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db, now: time.Now}
}

func (s *MongoStore) Insert(ctx context.Context, collection string, record any) (string, error) {
	if collection == "" {
		return "", invalidCollection()
	}

	if s.db == nil {
		return "", dberr.NewUnavailable("insert", collection)
	}

	doc, id, err := toDocument(collection, record, s.now())
	if err != nil {
		return "", err
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", dberr.New("insert", collection, err)
	}

	return id.Hex(), nil
}

func (s *MongoStore) Status() StoreStatus {
	if s.db == nil {
		return StoreStatus{}
	}
	return StoreStatus{Connected: true, Name: s.db.Name()}
}
