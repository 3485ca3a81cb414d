// models.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID            string             `bson:"customer_id" json:"customerId"`
	RestaurantID          primitive.ObjectID `bson:"restaurant_id" json:"restaurantId"`
	Items                 []OrderItem        `bson:"items" json:"items"`
	DeliveryAddress       Address            `bson:"delivery_address" json:"deliveryAddress"`
	DeliveryPersonID      string             `bson:"delivery_person_id,omitempty" json:"deliveryPersonId,omitempty"`
	Status                OrderStatus        `bson:"status" json:"status"`
	PaymentMethod         PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus         PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	Currency              string             `bson:"currency" json:"currency"`
	Subtotal              decimal.Decimal    `bson:"subtotal" json:"subtotal"`
	DeliveryFee           decimal.Decimal    `bson:"delivery_fee" json:"deliveryFee"`
	Tax                   decimal.Decimal    `bson:"tax" json:"tax"`
	Discount              decimal.Decimal    `bson:"discount" json:"discount"`
	TotalAmount           decimal.Decimal    `bson:"total_amount" json:"totalAmount"`
	SpecialInstructions   string             `bson:"special_instructions,omitempty" json:"specialInstructions,omitempty"`
	EstimatedDeliveryTime time.Time          `bson:"estimated_delivery_time" json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time         `bson:"actual_delivery_time,omitempty" json:"actualDeliveryTime,omitempty"`
	History               []StatusRecord     `bson:"history" json:"history,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderItem carries name and unit price as they were when the order was placed.
type OrderItem struct {
	MenuItemID     primitive.ObjectID `bson:"menu_item_id" json:"menuItemId"`
	Name           string             `bson:"name" json:"name"`
	UnitPrice      decimal.Decimal    `bson:"unit_price" json:"unitPrice"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Customizations []Customization    `bson:"customizations" json:"customizations"`
}

type Customization struct {
	Name   string          `bson:"name" json:"name"`
	Option string          `bson:"option" json:"option"`
	Price  decimal.Decimal `bson:"price" json:"price"`
}

type Address struct {
	Street      string       `bson:"street" json:"street"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	ZipCode     string       `bson:"zip_code" json:"zipCode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type StatusRecord struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
	UserID    string      `bson:"user" json:"userId"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
}

// OrderChange lists the fields that may change after an order is placed.
// Nil fields are left untouched.
type OrderChange struct {
	Status             *OrderStatus
	PaymentStatus      *PaymentStatus
	DeliveryPersonID   *string
	ActualDeliveryTime *time.Time
	Record             *StatusRecord
}

// IsEmpty reports whether the change would write anything besides updated_at.
func (c OrderChange) IsEmpty() bool {
	return c.Status == nil && c.PaymentStatus == nil && c.DeliveryPersonID == nil &&
		c.ActualDeliveryTime == nil && c.Record == nil
}

// Apply mutates o in place the same way the store applies the change.
func (c OrderChange) Apply(o *Order, now time.Time) {
	if c.Status != nil {
		o.Status = *c.Status
	}
	if c.PaymentStatus != nil {
		o.PaymentStatus = *c.PaymentStatus
	}
	if c.DeliveryPersonID != nil {
		o.DeliveryPersonID = *c.DeliveryPersonID
	}
	if c.ActualDeliveryTime != nil {
		t := *c.ActualDeliveryTime
		o.ActualDeliveryTime = &t
	}
	if c.Record != nil {
		o.History = append(o.History, *c.Record)
	}
	o.UpdatedAt = now
}
