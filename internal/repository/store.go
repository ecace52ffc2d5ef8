// Package repository persists documents in the store.
//
// DocumentStore is the only persistence contract the services see. The
// MongoDB implementation is used in production; MemoryStore backs tests and
// local runs without a database.
package repository

import (
	"context"
	"time"

	"github.com/deppfellow/hms-backend/internal/dberr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentStore inserts records into named collections.
type DocumentStore interface {
	// Insert stores record in collection and returns the generated id.
	// Failures are returned as *dberr.Error.
	Insert(ctx context.Context, collection string, record any) (string, error)

	// Status reports whether a connection handle exists and the database
	// name in use.
	Status() StoreStatus
}

// StoreStatus describes the store connection.
type StoreStatus struct {
	Connected bool
	Name      string
}

// toDocument encodes record into a BSON document stamped with a fresh id
// and UTC created_at/updated_at fields. Absent optional fields are encoded
// as null.
func toDocument(collection string, record any, now time.Time) (bson.M, primitive.ObjectID, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, primitive.NilObjectID, dberr.NewSerialization(collection, err)
	}

	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, primitive.NilObjectID, dberr.NewSerialization(collection, err)
	}

	id := primitive.NewObjectID()
	now = now.UTC()

	doc["_id"] = id
	doc["created_at"] = now
	doc["updated_at"] = now

	return doc, id, nil
}

func invalidCollection() error {
	return &dberr.Error{
		Code:    dberr.InvalidCollection,
		Op:      "insert",
		Message: "collection name must not be empty",
	}
}
