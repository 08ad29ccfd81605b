// Package mongo is a store.Repository backed by MongoDB.
//
// All collections share one MongoDB collection; each is a single document
// keyed by its kind and replaced with an upsert on save.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

const (
	// DefaultDatabase is used when Config.Database is empty.
	DefaultDatabase = "platecut"
	collectionName  = "state"
)

// Config describes how to reach MongoDB.
type Config struct {
	URI      string
	Database string
}

// Store is the MongoDB backend.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type document struct {
	Kind   string         `bson:"_id"`
	Plates []plate.Raw    `bson:"plates,omitempty"`
	Groups []socket.Group `bson:"groups,omitempty"`
	Index  int            `bson:"index"`
}

// New connects to MongoDB and pings the primary.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, coll: client.Database(cfg.Database).Collection(collectionName)}, nil
}

func (s *Store) load(ctx context.Context, kind string) (document, error) {
	var d document
	err := s.coll.FindOne(ctx, bson.M{"_id": kind}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document{Kind: kind}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("find %s: %w", kind, err)
	}
	return d, nil
}

func (s *Store) save(ctx context.Context, d document) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": d.Kind}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s: %w", d.Kind, err)
	}
	return nil
}

func (s *Store) LoadDimensions(ctx context.Context) ([]plate.Dimension, error) {
	d, err := s.load(ctx, store.KindDimensions)
	if err != nil {
		return nil, err
	}
	return store.DecodeDimensions(d.Plates), nil
}

func (s *Store) SaveDimensions(ctx context.Context, dims []plate.Dimension) error {
	return s.save(ctx, document{Kind: store.KindDimensions, Plates: store.EncodeDimensions(dims)})
}

func (s *Store) LoadGroups(ctx context.Context) ([]socket.Group, error) {
	d, err := s.load(ctx, store.KindSockets)
	if err != nil {
		return nil, err
	}
	return d.Groups, nil
}

func (s *Store) SaveGroups(ctx context.Context, groups []socket.Group) error {
	return s.save(ctx, document{Kind: store.KindSockets, Groups: groups})
}

func (s *Store) LoadActiveIndex(ctx context.Context) (int, error) {
	d, err := s.load(ctx, store.KindActiveIndex)
	if err != nil {
		return 0, err
	}
	return d.Index, nil
}

func (s *Store) SaveActiveIndex(ctx context.Context, index int) error {
	return s.save(ctx, document{Kind: store.KindActiveIndex, Index: index})
}

// Drop removes the backing collection.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.coll.Drop(ctx); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.client.Disconnect(context.Background()) }

var _ store.Repository = (*Store)(nil)
