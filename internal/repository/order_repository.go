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

const ordersCollection = "orders"

type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(ordersCollection)}
}

func (m *MongoOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt

	if _, err := m.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("col.InsertOne: %w", err)
	}
	return nil
}

func (m *MongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var res model.Order
	err = m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("col.FindOne: %w", err)
	}
	return &res, nil
}

// Update applies the change in a single findAndModify and returns the
// document as stored afterwards. There is no version check: concurrent
// writers race and the last one wins.
func (m *MongoOrderRepository) Update(ctx context.Context, id string, change model.OrderChange) (*model.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if change.Status != nil {
		set["status"] = *change.Status
	}
	if change.PaymentStatus != nil {
		set["payment_status"] = *change.PaymentStatus
	}
	if change.DeliveryPersonID != nil {
		set["delivery_person_id"] = *change.DeliveryPersonID
	}
	if change.ActualDeliveryTime != nil {
		set["actual_delivery_time"] = *change.ActualDeliveryTime
	}

	update := bson.M{"$set": set}
	if change.Record != nil {
		update["$push"] = bson.M{"history": change.Record}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res model.Order
	err = m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("col.FindOneAndUpdate: %w", err)
	}
	return &res, nil
}

func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	return findAll[model.Order](ctx, m.col, bson.M{}, newestFirst())
}

func (m *MongoOrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	return findAll[model.Order](ctx, m.col, bson.M{"customer_id": customerID}, newestFirst())
}

func (m *MongoOrderRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error) {
	oid, err := objectID(restaurantID)
	if err != nil {
		return []*model.Order{}, nil
	}
	return findAll[model.Order](ctx, m.col, bson.M{"restaurant_id": oid}, newestFirst())
}

func (m *MongoOrderRepository) FindByDeliveryPerson(ctx context.Context, personID string) ([]*model.Order, error) {
	return findAll[model.Order](ctx, m.col, bson.M{"delivery_person_id": personID}, newestFirst())
}
