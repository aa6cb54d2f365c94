// Package store persists node-link datasets for the HTTP API.
//
// A dataset is one uploaded graph plus metadata, addressed by an opaque ID.
// Backends:
//   - memory: development and tests
//   - mongo: service deployments (graph types carry BSON tags)
//
// Stores hold serialized graphs only; indexing and searching stay in
// pkg/graph and pkg/engine.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pathscout/pathscout/pkg/graph"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Dataset is one stored graph with metadata.
type Dataset struct {
	ID        string      `json:"id" bson:"_id"`
	Name      string      `json:"name,omitempty" bson:"name,omitempty"`
	Graph     graph.Graph `json:"graph" bson:"graph"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// Info is the metadata view of a dataset, without the graph payload.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Edges     int       `json:"edges" bson:"edges"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// InfoOf summarizes a dataset.
func InfoOf(ds *Dataset) Info {
	return Info{
		ID:        ds.ID,
		Name:      ds.Name,
		Nodes:     ds.Graph.NodeCount(),
		Edges:     ds.Graph.EdgeCount(),
		CreatedAt: ds.CreatedAt,
	}
}

// Store is the interface for dataset storage backends.
type Store interface {
	// Put stores a dataset, replacing any existing dataset with the same ID.
	Put(ctx context.Context, ds *Dataset) error

	// Get retrieves a dataset by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Dataset, error)

	// Delete removes a dataset. Deleting a missing dataset is not an error.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all stored datasets.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
