// dto.go
package dto

import (
	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/service"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Envelope wraps every JSON response body.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func List[T any](items []T) Envelope {
	n := len(items)
	return Envelope{Success: true, Data: items, Count: &n}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}

type CustomizationRequest struct {
	Name   string `json:"name" binding:"required"`
	Option string `json:"option" binding:"required"`
}

type OrderItemRequest struct {
	MenuItem       string                 `json:"menuItem" binding:"required"`
	Quantity       int                    `json:"quantity" binding:"required,min=1"`
	Customizations []CustomizationRequest `json:"customizations" binding:"dive"`
}

type AddressDTO struct {
	Street      string             `json:"street" binding:"required"`
	City        string             `json:"city" binding:"required"`
	State       string             `json:"state"`
	ZipCode     string             `json:"zipCode"`
	Coordinates *model.Coordinates `json:"coordinates"`
}

func (a AddressDTO) ToModel() model.Address {
	return model.Address{
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		ZipCode:     a.ZipCode,
		Coordinates: a.Coordinates,
	}
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Restaurant          string             `json:"restaurant" binding:"required"`
	Items               []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress     AddressDTO         `json:"deliveryAddress"`
	PaymentMethod       string             `json:"paymentMethod" binding:"required,oneof=card cash upi"`
	SpecialInstructions string             `json:"specialInstructions"`
}

func (r CreateOrderRequest) ToInput(customerID string) service.CreateOrderInput {
	return service.CreateOrderInput{
		CustomerID:   customerID,
		RestaurantID: r.Restaurant,
		Items: lo.Map(r.Items, func(it OrderItemRequest, _ int) service.ItemRequest {
			return service.ItemRequest{
				MenuItemID: it.MenuItem,
				Quantity:   it.Quantity,
				Customizations: lo.Map(it.Customizations, func(c CustomizationRequest, _ int) service.CustomizationChoice {
					return service.CustomizationChoice{Name: c.Name, Option: c.Option}
				}),
			}
		}),
		DeliveryAddress:     r.DeliveryAddress.ToModel(),
		PaymentMethod:       r.PaymentMethod,
		SpecialInstructions: r.SpecialInstructions,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type AssignDeliveryRequest struct {
	OrderID          string `json:"orderId" binding:"required"`
	DeliveryPersonID string `json:"deliveryPersonId" binding:"required"`
}

type ConfirmPaymentRequest struct {
	OrderID         string `json:"orderId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type RestaurantRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Cuisine      []string        `json:"cuisine"`
	Address      AddressDTO      `json:"address"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email" binding:"omitempty,email"`
	Images       []string        `json:"images"`
	Rating       float64         `json:"rating" binding:"gte=0,lte=5"`
	TotalReviews int             `json:"totalReviews"`
	DeliveryTime string          `json:"deliveryTime"`
	MinimumOrder decimal.Decimal `json:"minimumOrder"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	IsOpen       bool            `json:"isOpen"`
	IsApproved   bool            `json:"isApproved"`
}

func (r RestaurantRequest) ToModel() *model.Restaurant {
	return &model.Restaurant{
		Name:         r.Name,
		Description:  r.Description,
		Cuisine:      lo.Ternary(r.Cuisine == nil, []string{}, r.Cuisine),
		Address:      r.Address.ToModel(),
		Phone:        r.Phone,
		Email:        r.Email,
		Images:       lo.Ternary(r.Images == nil, []string{}, r.Images),
		Rating:       r.Rating,
		TotalReviews: r.TotalReviews,
		DeliveryTime: r.DeliveryTime,
		MinimumOrder: r.MinimumOrder,
		DeliveryFee:  r.DeliveryFee,
		IsOpen:       r.IsOpen,
		IsApproved:   r.IsApproved,
	}
}

type MenuItemRequest struct {
	Restaurant      string                    `json:"restaurant"`
	Name            string                    `json:"name" binding:"required"`
	Description     string                    `json:"description"`
	Category        string                    `json:"category" binding:"required"`
	Price           decimal.Decimal           `json:"price"`
	Image           string                    `json:"image"`
	IsVeg           bool                      `json:"isVeg"`
	IsAvailable     *bool                     `json:"isAvailable"`
	PreparationTime int                       `json:"preparationTime" binding:"gte=0"`
	Customizations  []model.MenuCustomization `json:"customizations"`
}

// ToModel defaults isAvailable to true when the field is absent.
func (r MenuItemRequest) ToModel() *model.MenuItem {
	return &model.MenuItem{
		Name:            r.Name,
		Description:     r.Description,
		Category:        model.MenuCategory(r.Category),
		Price:           r.Price,
		Image:           r.Image,
		IsVeg:           r.IsVeg,
		IsAvailable:     lo.FromPtrOr(r.IsAvailable, true),
		PreparationTime: r.PreparationTime,
		Customizations:  lo.Ternary(r.Customizations == nil, []model.MenuCustomization{}, r.Customizations),
	}
}

// NearbyRequest is the body of POST /restaurants/nearby. Radius is in metres.
type NearbyRequest struct {
	Lat    *float64 `json:"lat" binding:"required"`
	Lng    *float64 `json:"lng" binding:"required"`
	Radius float64  `json:"radius" binding:"gte=0"`
}

const defaultNearbyRadiusM = 5000

// RadiusKm applies the 5km default when no radius was sent.
func (r NearbyRequest) RadiusKm() float64 {
	return lo.Ternary(r.Radius == 0, defaultNearbyRadiusM, r.Radius) / 1000
}

type PaymentAmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type RazorpayVerifyRequest struct {
	OrderID           string `json:"orderId" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type PaymentIntentResponse struct {
	Envelope
	ClientSecret string `json:"clientSecret"`
}

type RazorpayOrder struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

type RazorpayOrderResponse struct {
	Envelope
	Order RazorpayOrder `json:"order"`
}
