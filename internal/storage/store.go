// Package storage wraps the mongo collections behind an explicit Store
// handle that is threaded into the usecases at construction time.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	orders     *mongo.Collection
	orderItems *mongo.Collection
	products   *mongo.Collection
	categories *mongo.Collection
	users      *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		orders:     db.Collection("orders"),
		orderItems: db.Collection("orderitems"),
		products:   db.Collection("products"),
		categories: db.Collection("categories"),
		users:      db.Collection("users"),
	}
}

// Connect dials mongo and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}
