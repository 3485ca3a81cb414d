package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// Connect opens a client with the decimal-aware registry and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(NewRegistry()))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("client.Ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the secondary indexes the list queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	byCreated := bson.D{{Key: "created_at", Value: -1}}
	orderIdx := []mongo.IndexModel{
		{Keys: append(bson.D{{Key: "customer_id", Value: 1}}, byCreated...)},
		{Keys: append(bson.D{{Key: "restaurant_id", Value: 1}}, byCreated...)},
		{Keys: append(bson.D{{Key: "delivery_person_id", Value: 1}}, byCreated...)},
	}
	if _, err := db.Collection(ordersCollection).Indexes().CreateMany(ctx, orderIdx); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}

	menuIdx := mongo.IndexModel{Keys: bson.D{{Key: "restaurant_id", Value: 1}}}
	if _, err := db.Collection(menuCollection).Indexes().CreateOne(ctx, menuIdx); err != nil {
		return fmt.Errorf("menu indexes: %w", err)
	}
	return nil
}

// objectID treats a malformed id the same as a missing document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*T{}
	for cur.Next(ctx) {
		var v T
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}
