package repository

import (
	"github.com/deppfellow/hms-backend/internal/server"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories is the container for the persistence layer.
type Repositories struct {
	Store DocumentStore
}

// NewRepositories builds the store from the server's database handle. When
// the database is absent the store reports itself as not connected.
func NewRepositories(s *server.Server) *Repositories {
	var db *mongo.Database
	if s.DB != nil {
		db = s.DB.DB
	}
	return &Repositories{Store: NewMongoStore(db)}
}
