// Package document persists the store service's products in MongoDB.
package document

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Store struct {
	client      *mongo.Client
	productRepo *ProductRepo
}

// Connect dials MongoDB and checks the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("could not ping MongoDB: %w", err)
	}
	return client, nil
}

// New initializes the repositories on the named database
func New(client *mongo.Client, databaseName string) Store {
	db := client.Database(databaseName)
	return Store{
		client:      client,
		productRepo: NewProductRepo(db.Collection("product")),
	}
}

func (s Store) ProductRepo() *ProductRepo {
	return s.productRepo
}

// Ping is used by the health endpoint.
func (s Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
