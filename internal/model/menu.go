package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MenuCategory string

const (
	CategoryAppetizer  MenuCategory = "Appetizer"
	CategoryMainCourse MenuCategory = "Main Course"
	CategoryDessert    MenuCategory = "Dessert"
	CategoryBeverage   MenuCategory = "Beverage"
	CategorySnack      MenuCategory = "Snack"
)

var ErrInvalidMenuCategory = errors.New("invalid menu category")

func ToMenuCategory(s string) (MenuCategory, error) {
	switch c := MenuCategory(s); c {
	case CategoryAppetizer, CategoryMainCourse, CategoryDessert, CategoryBeverage, CategorySnack:
		return c, nil
	}
	return "", ErrInvalidMenuCategory
}

type MenuItem struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RestaurantID    primitive.ObjectID  `bson:"restaurant_id" json:"restaurantId"`
	Name            string              `bson:"name" json:"name"`
	Description     string              `bson:"description" json:"description"`
	Category        MenuCategory        `bson:"category" json:"category"`
	Price           decimal.Decimal     `bson:"price" json:"price"`
	Image           string              `bson:"image" json:"image"`
	IsVeg           bool                `bson:"is_veg" json:"isVeg"`
	IsAvailable     bool                `bson:"is_available" json:"isAvailable"`
	PreparationTime int                 `bson:"preparation_time" json:"preparationTime"`
	Customizations  []MenuCustomization `bson:"customizations" json:"customizations"`
	CreatedAt       time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updatedAt"`
}

type MenuCustomization struct {
	Name    string             `bson:"name" json:"name"`
	Options []CustomizationOpt `bson:"options" json:"options"`
}

type CustomizationOpt struct {
	Name  string          `bson:"name" json:"name"`
	Price decimal.Decimal `bson:"price" json:"price"`
}
