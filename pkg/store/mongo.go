package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pathscout/pathscout/pkg/cache"
)

// MongoStore is a MongoDB-backed dataset store for service deployments.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB and verifies connectivity.
// Transient connection failures are retried with backoff.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "pathscout"
	}
	if cfg.Collection == "" {
		cfg.Collection = "datasets"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put stores a dataset, replacing any existing dataset with the same ID.
func (s *MongoStore) Put(ctx context.Context, ds *Dataset) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": ds.ID}, ds, opts)
	if err != nil {
		return fmt.Errorf("mongo put %s: %w", ds.ID, err)
	}
	return nil
}

// Get retrieves a dataset by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ds)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s: %w", id, err)
	}
	return &ds, nil
}

// Delete removes a dataset. Deleting a missing dataset is not an error.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	return nil
}

// List returns metadata for all stored datasets, sorted by creation time.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	// Project the graph payload away; counts are computed client-side from
	// array lengths via the aggregation below.
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"_id":        1,
			"name":       1,
			"created_at": 1,
			"nodes":      bson.M{"$size": bson.M{"$ifNull": []any{"$graph.nodes", []any{}}}},
			"edges":      bson.M{"$size": bson.M{"$ifNull": []any{"$graph.edges", []any{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cursor.Close(ctx)

	var infos []Info
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("mongo list decode: %w", err)
	}
	return infos, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
