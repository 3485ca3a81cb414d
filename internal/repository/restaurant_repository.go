package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"quickeats-order-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const restaurantsCollection = "restaurants"

type MongoRestaurantRepository struct {
	col *mongo.Collection
}

func NewMongoRestaurantRepository(db *mongo.Database) *MongoRestaurantRepository {
	return &MongoRestaurantRepository{col: db.Collection(restaurantsCollection)}
}

func (m *MongoRestaurantRepository) Insert(ctx context.Context, r *model.Restaurant) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	if _, err := m.col.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("col.InsertOne: %w", err)
	}
	return nil
}

func (m *MongoRestaurantRepository) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var res model.Restaurant
	err = m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("col.FindOne: %w", err)
	}
	return &res, nil
}

// Find returns restaurants matching the filter, best rated first.
func (m *MongoRestaurantRepository) Find(ctx context.Context, f model.RestaurantFilter) ([]*model.Restaurant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	return findAll[model.Restaurant](ctx, m.col, restaurantQuery(f), opts)
}

func restaurantQuery(f model.RestaurantFilter) bson.M {
	q := bson.M{}
	if f.Cuisine != "" {
		q["cuisine"] = f.Cuisine
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"cuisine": pattern},
		}
	}
	if f.MinRating != nil {
		q["rating"] = bson.M{"$gte": *f.MinRating}
	}
	if f.Near != nil {
		q["address.coordinates.lat"] = bson.M{"$gte": f.Near.MinLat, "$lte": f.Near.MaxLat}
		q["address.coordinates.lng"] = bson.M{"$gte": f.Near.MinLng, "$lte": f.Near.MaxLng}
	}
	return q
}

// Replace overwrites every mutable field of the stored restaurant.
func (m *MongoRestaurantRepository) Replace(ctx context.Context, r *model.Restaurant) error {
	r.UpdatedAt = time.Now().UTC()

	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return fmt.Errorf("col.ReplaceOne: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRestaurantRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("col.DeleteOne: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
