package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/enrollhq/registration-api/pkg/config"
)

// NewMongo returns a configured MongoDB client. The driver connects lazily:
// no I/O happens here, and the pooled connection is established on the first
// operation and reused for the life of the process. Reachability problems
// therefore surface per call, not at startup.
func NewMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRetryWrites(true).
		SetWriteConcern(writeconcern.Majority()).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(10).
		SetMinPoolSize(1)

	return mongo.Connect(context.Background(), opts)
}
