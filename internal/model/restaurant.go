package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Restaurant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      string             `bson:"owner_id" json:"ownerId"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Cuisine      []string           `bson:"cuisine" json:"cuisine"`
	Address      Address            `bson:"address" json:"address"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`
	Images       []string           `bson:"images" json:"images"`
	Rating       float64            `bson:"rating" json:"rating"`
	TotalReviews int                `bson:"total_reviews" json:"totalReviews"`
	DeliveryTime string             `bson:"delivery_time" json:"deliveryTime"`
	MinimumOrder decimal.Decimal    `bson:"minimum_order" json:"minimumOrder"`
	DeliveryFee  decimal.Decimal    `bson:"delivery_fee" json:"deliveryFee"`
	IsOpen       bool               `bson:"is_open" json:"isOpen"`
	IsApproved   bool               `bson:"is_approved" json:"isApproved"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// RestaurantFilter has AND semantics across the fields that are set.
type RestaurantFilter struct {
	Cuisine   string
	Search    string
	MinRating *float64
	Near      *GeoBox
}

// GeoBox is a lat/lng rectangle, not a true radius.
type GeoBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

const (
	kmPerDegree   = 111.0
	earthRadiusKm = 6371.0
)

// BoundingBox approximates a radius (km) around a point with a rectangle:
// one degree of latitude is ~111km, longitude shrinks with cos(lat).
func BoundingBox(lat, lng, radiusKm float64) GeoBox {
	dLat := radiusKm / kmPerDegree
	dLng := radiusKm / (kmPerDegree * math.Cos(lat*math.Pi/180))
	return GeoBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - math.Abs(dLng),
		MaxLng: lng + math.Abs(dLng),
	}
}

func (b GeoBox) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Coordinates) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
