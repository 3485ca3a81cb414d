package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickeats-order-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const menuCollection = "menu_items"

type MongoMenuRepository struct {
	col *mongo.Collection
}

func NewMongoMenuRepository(db *mongo.Database) *MongoMenuRepository {
	return &MongoMenuRepository{col: db.Collection(menuCollection)}
}

func (m *MongoMenuRepository) Insert(ctx context.Context, item *model.MenuItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	if _, err := m.col.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("col.InsertOne: %w", err)
	}
	return nil
}

func (m *MongoMenuRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var res model.MenuItem
	err = m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("col.FindOne: %w", err)
	}
	return &res, nil
}

func (m *MongoMenuRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.MenuItem, error) {
	oid, err := objectID(restaurantID)
	if err != nil {
		return []*model.MenuItem{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	return findAll[model.MenuItem](ctx, m.col, bson.M{"restaurant_id": oid}, opts)
}

// FindAll returns every menu item, newest first.
func (m *MongoMenuRepository) FindAll(ctx context.Context) ([]*model.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[model.MenuItem](ctx, m.col, bson.M{}, opts)
}

func (m *MongoMenuRepository) Replace(ctx context.Context, item *model.MenuItem) error {
	item.UpdatedAt = time.Now().UTC()

	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("col.ReplaceOne: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoMenuRepository) Delete(ctx context.Context, id string) error {
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
