package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/repository"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/currency"
)

type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Update(ctx context.Context, id string, change model.OrderChange) (*model.Order, error)
	FindAll(ctx context.Context) ([]*model.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*model.Order, error)
	FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.Order, error)
	FindByDeliveryPerson(ctx context.Context, personID string) ([]*model.Order, error)
}

type RestaurantRepository interface {
	Insert(ctx context.Context, r *model.Restaurant) error
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
	Find(ctx context.Context, f model.RestaurantFilter) ([]*model.Restaurant, error)
	Replace(ctx context.Context, r *model.Restaurant) error
	Delete(ctx context.Context, id string) error
}

type MenuRepository interface {
	Insert(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	FindByRestaurant(ctx context.Context, restaurantID string) ([]*model.MenuItem, error)
	FindAll(ctx context.Context) ([]*model.MenuItem, error)
	Replace(ctx context.Context, item *model.MenuItem) error
	Delete(ctx context.Context, id string) error
}

// Notifier pushes an event to every current subscriber of a channel.
// Delivery is best effort.
type Notifier interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

const (
	EventNewOrder          = "new-order"
	EventOrderStatusUpdate = "order-status-update"
)

const deliveryWindow = 45 * time.Minute

// Business errors, mapped to HTTP codes by the controllers.
var (
	ErrNotFound          = repository.ErrNotFound
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentRequired   = errors.New("payment must be completed before delivery")
)

// StatusUpdate is the payload of order-status-update events.
type StatusUpdate struct {
	OrderID string            `json:"orderId"`
	Status  model.OrderStatus `json:"status"`
}

type OrderConfig struct {
	Currency currency.Unit
	// StrictTransitions rejects moves that are not edges of the lifecycle graph.
	StrictTransitions bool
	// CashRequiresPayment blocks delivered on cash orders that are still unpaid.
	CashRequiresPayment bool
}

type OrderService struct {
	orders      OrderRepository
	restaurants RestaurantRepository
	menu        MenuRepository
	notifier    Notifier
	log         *slog.Logger

	cfg      OrderConfig
	taxScale int32
	now      func() time.Time
}

func NewOrderService(
	orders OrderRepository,
	restaurants RestaurantRepository,
	menu MenuRepository,
	notifier Notifier,
	cfg OrderConfig,
	log *slog.Logger,
) *OrderService {
	scale, _ := currency.Standard.Rounding(cfg.Currency)
	return &OrderService{
		orders:      orders,
		restaurants: restaurants,
		menu:        menu,
		notifier:    notifier,
		log:         log.With("component", "order_service"),
		cfg:         cfg,
		taxScale:    int32(scale),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type ItemRequest struct {
	MenuItemID     string
	Quantity       int
	Customizations []CustomizationChoice
}

type CustomizationChoice struct {
	Name   string
	Option string
}

type CreateOrderInput struct {
	CustomerID          string
	RestaurantID        string
	Items               []ItemRequest
	DeliveryAddress     model.Address
	PaymentMethod       string
	SpecialInstructions string
}

func (in CreateOrderInput) validate() (model.PaymentMethod, error) {
	if in.CustomerID == "" {
		return "", fmt.Errorf("%w: customer is required", ErrValidation)
	}
	if in.RestaurantID == "" {
		return "", fmt.Errorf("%w: restaurant is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return "", fmt.Errorf("%w: order has no items", ErrValidation)
	}
	if bad, found := lo.Find(in.Items, func(it ItemRequest) bool { return it.Quantity < 1 }); found {
		return "", fmt.Errorf("%w: quantity of %s must be at least 1", ErrValidation, bad.MenuItemID)
	}
	if in.DeliveryAddress.Street == "" || in.DeliveryAddress.City == "" {
		return "", fmt.Errorf("%w: delivery address needs street and city", ErrValidation)
	}
	pm, err := model.ToPaymentMethod(in.PaymentMethod)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return pm, nil
}

// CreateOrder prices the cart from current menu data and stores a pending
// order. Nothing is written if any referenced item or the restaurant is missing.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	pm, err := in.validate()
	if err != nil {
		return nil, err
	}

	restaurantID, err := primitive.ObjectIDFromHex(in.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", in.RestaurantID, ErrNotFound)
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, req := range in.Items {
		menuItem, err := s.menu.FindByID(ctx, req.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("menu item %s: %w", req.MenuItemID, err)
		}
		if menuItem.RestaurantID != restaurantID {
			return nil, fmt.Errorf("%w: menu item %s is not served by restaurant %s", ErrValidation, req.MenuItemID, restaurantID.Hex())
		}

		line, err := snapshotLine(menuItem, req)
		if err != nil {
			return nil, err
		}
		items = append(items, line)
	}

	restaurant, err := s.restaurants.FindByID(ctx, restaurantID.Hex())
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", restaurantID.Hex(), err)
	}

	totals := model.CalculateTotals(items, restaurant.DeliveryFee, s.taxScale)
	now := s.now()

	order := &model.Order{
		CustomerID:            in.CustomerID,
		RestaurantID:          restaurant.ID,
		Items:                 items,
		DeliveryAddress:       in.DeliveryAddress,
		Status:                model.StatusPending,
		PaymentMethod:         pm,
		PaymentStatus:         model.PaymentPending,
		Currency:              s.cfg.Currency.String(),
		Subtotal:              totals.Subtotal,
		DeliveryFee:           totals.DeliveryFee,
		Tax:                   totals.Tax,
		Discount:              totals.Discount,
		TotalAmount:           totals.Total,
		SpecialInstructions:   in.SpecialInstructions,
		EstimatedDeliveryTime: now.Add(deliveryWindow),
		History: []model.StatusRecord{{
			Status:    model.StatusPending,
			Note:      "order placed",
			UserID:    in.CustomerID,
			Timestamp: now,
		}},
		CreatedAt: now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("orders.Insert: %w", err)
	}

	s.log.InfoContext(ctx, "order created",
		"order_id", order.ID.Hex(),
		"restaurant_id", restaurant.ID.Hex(),
		"total", order.TotalAmount.String(),
	)
	s.publish(ctx, restaurant.ID.Hex(), EventNewOrder, order)

	return order, nil
}

// snapshotLine copies name and prices from the menu onto the order line.
// Customization prices come from the menu item's own option list.
func snapshotLine(item *model.MenuItem, req ItemRequest) (model.OrderItem, error) {
	line := model.OrderItem{
		MenuItemID:     item.ID,
		Name:           item.Name,
		UnitPrice:      item.Price,
		Quantity:       req.Quantity,
		Customizations: make([]model.Customization, 0, len(req.Customizations)),
	}

	for _, choice := range req.Customizations {
		price, ok := optionPrice(item, choice)
		if !ok {
			return model.OrderItem{}, fmt.Errorf("%w: %s has no option %q for %q",
				ErrValidation, item.Name, choice.Option, choice.Name)
		}
		line.Customizations = append(line.Customizations, model.Customization{
			Name:   choice.Name,
			Option: choice.Option,
			Price:  price,
		})
	}
	return line, nil
}

func optionPrice(item *model.MenuItem, choice CustomizationChoice) (decimal.Decimal, bool) {
	group, ok := lo.Find(item.Customizations, func(c model.MenuCustomization) bool { return c.Name == choice.Name })
	if !ok {
		return decimal.Zero, false
	}
	opt, ok := lo.Find(group.Options, func(o model.CustomizationOpt) bool { return o.Name == choice.Option })
	return opt.Price, ok
}

// UpdateStatus moves an order to a new status. By default any status may
// follow any other; see OrderConfig for the stricter policies.
func (s *OrderService) UpdateStatus(ctx context.Context, actor model.Actor, orderID, status, note string) (*model.Order, error) {
	next, err := model.ToOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	return s.applyStatus(ctx, actor, order, next, note)
}

// UpdateDeliveryStatus is UpdateStatus for the rider the order is assigned to.
func (s *OrderService) UpdateDeliveryStatus(ctx context.Context, actor model.Actor, orderID, status, note string) (*model.Order, error) {
	next, err := model.ToOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if order.DeliveryPersonID != actor.ID {
		return nil, fmt.Errorf("%w: order %s is not assigned to you", ErrForbidden, orderID)
	}
	return s.applyStatus(ctx, actor, order, next, note)
}

func (s *OrderService) applyStatus(ctx context.Context, actor model.Actor, order *model.Order, next model.OrderStatus, note string) (*model.Order, error) {
	if s.cfg.StrictTransitions && !model.CanTransition(order.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	now := s.now()
	change := model.OrderChange{
		Status: &next,
		Record: &model.StatusRecord{Status: next, Note: note, UserID: actor.ID, Timestamp: now},
	}

	if next == model.StatusDelivered {
		if s.cfg.CashRequiresPayment && order.PaymentMethod == model.PaymentCash &&
			order.PaymentStatus != model.PaymentCompleted {
			return nil, ErrPaymentRequired
		}
		paid := model.PaymentCompleted
		change.PaymentStatus = &paid
		change.ActualDeliveryTime = &now
	}

	id := order.ID.Hex()
	updated, err := s.orders.Update(ctx, id, change)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}

	s.log.InfoContext(ctx, "status updated",
		"order_id", id,
		"from", order.Status,
		"to", next,
		"actor", actor.ID,
	)
	s.publish(ctx, id, EventOrderStatusUpdate, StatusUpdate{OrderID: id, Status: next})

	return updated, nil
}

// AssignDelivery hands the order to a rider. A pending order is confirmed
// on assignment; any other status is left as it is.
func (s *OrderService) AssignDelivery(ctx context.Context, actor model.Actor, orderID, deliveryPersonID string) (*model.Order, error) {
	if deliveryPersonID == "" {
		return nil, fmt.Errorf("%w: delivery person is required", ErrValidation)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	if actor.Role == model.RoleRestaurant {
		if err := s.checkOwner(ctx, actor, order.RestaurantID.Hex()); err != nil {
			return nil, err
		}
	}

	status := order.Status
	if status == model.StatusPending {
		status = model.StatusConfirmed
	}

	change := model.OrderChange{
		Status:           &status,
		DeliveryPersonID: &deliveryPersonID,
		Record: &model.StatusRecord{
			Status:    status,
			Note:      "assigned to " + deliveryPersonID,
			UserID:    actor.ID,
			Timestamp: s.now(),
		},
	}

	updated, err := s.orders.Update(ctx, orderID, change)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	s.log.InfoContext(ctx, "delivery assigned", "order_id", orderID, "delivery_person", deliveryPersonID)
	s.publish(ctx, orderID, EventOrderStatusUpdate, StatusUpdate{OrderID: orderID, Status: status})

	return updated, nil
}

// ConfirmPayment marks the order paid. There is no gateway behind it.
func (s *OrderService) ConfirmPayment(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if order.CustomerID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}

	paid := model.PaymentCompleted
	updated, err := s.orders.Update(ctx, orderID, model.OrderChange{PaymentStatus: &paid})
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	s.log.InfoContext(ctx, "payment confirmed", "order_id", orderID)
	return updated, nil
}

// Get returns an order to its customer, to admins and to riders.
func (s *OrderService) Get(ctx context.Context, actor model.Actor, orderID string) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}

	switch {
	case order.CustomerID == actor.ID, actor.Role == model.RoleAdmin, actor.Role == model.RoleDelivery:
		return order, nil
	}
	return nil, fmt.Errorf("%w: not authorized to view this order", ErrForbidden)
}

func (s *OrderService) History(ctx context.Context, actor model.Actor, orderID string) ([]model.StatusRecord, error) {
	order, err := s.Get(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return order.History, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.orders.FindAll(ctx)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	return s.orders.FindByCustomer(ctx, customerID)
}

func (s *OrderService) ListByDeliveryPerson(ctx context.Context, personID string) ([]*model.Order, error) {
	return s.orders.FindByDeliveryPerson(ctx, personID)
}

// ListByRestaurant is limited to the restaurant's owner and admins.
func (s *OrderService) ListByRestaurant(ctx context.Context, actor model.Actor, restaurantID string) ([]*model.Order, error) {
	if err := s.checkOwner(ctx, actor, restaurantID); err != nil {
		return nil, err
	}
	return s.orders.FindByRestaurant(ctx, restaurantID)
}

func (s *OrderService) checkOwner(ctx context.Context, actor model.Actor, restaurantID string) error {
	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return fmt.Errorf("restaurant %s: %w", restaurantID, err)
	}
	if restaurant.OwnerID != actor.ID && !actor.IsAdmin() {
		return fmt.Errorf("%w: not the owner of restaurant %s", ErrForbidden, restaurantID)
	}
	return nil
}

// publish logs notifier errors and drops them.
func (s *OrderService) publish(ctx context.Context, channel, event string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, channel, event, payload); err != nil {
		s.log.WarnContext(ctx, "publish failed", "channel", channel, "event", event, "error", err)
	}
}
