package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"quickeats-order-service/internal/model"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CatalogService manages restaurants and their menus.
type CatalogService struct {
	restaurants RestaurantRepository
	menu        MenuRepository
	log         *slog.Logger
}

func NewCatalogService(restaurants RestaurantRepository, menu MenuRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{
		restaurants: restaurants,
		menu:        menu,
		log:         log.With("component", "catalog_service"),
	}
}

func (s *CatalogService) ListRestaurants(ctx context.Context, f model.RestaurantFilter) ([]*model.Restaurant, error) {
	return s.restaurants.Find(ctx, f)
}

// NearbyRestaurants returns restaurants within radiusKm of the point,
// closest first.
func (s *CatalogService) NearbyRestaurants(ctx context.Context, origin model.Coordinates, radiusKm float64) ([]*model.Restaurant, error) {
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be positive", ErrValidation)
	}

	box := model.BoundingBox(origin.Lat, origin.Lng, radiusKm)
	found, err := s.restaurants.Find(ctx, model.RestaurantFilter{Near: &box})
	if err != nil {
		return nil, err
	}

	distance := func(r *model.Restaurant) float64 { return model.DistanceKm(origin, *r.Address.Coordinates) }
	near := lo.Filter(found, func(r *model.Restaurant, _ int) bool { return distance(r) <= radiusKm })
	slices.SortStableFunc(near, func(a, b *model.Restaurant) int {
		return cmp.Compare(distance(a), distance(b))
	})
	return near, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	r, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, err)
	}
	return r, nil
}

func validateRestaurant(r *model.Restaurant) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: restaurant name is required", ErrValidation)
	}
	if r.DeliveryFee.IsNegative() || r.MinimumOrder.IsNegative() {
		return fmt.Errorf("%w: fees cannot be negative", ErrValidation)
	}
	if r.Rating < 0 || r.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
	}
	return nil
}

// CreateRestaurant registers a restaurant owned by the caller. Only
// restaurants created by an admin start approved.
func (s *CatalogService) CreateRestaurant(ctx context.Context, actor model.Actor, r *model.Restaurant) (*model.Restaurant, error) {
	if err := validateRestaurant(r); err != nil {
		return nil, err
	}

	r.OwnerID = actor.ID
	r.IsApproved = actor.IsAdmin()
	if err := s.restaurants.Insert(ctx, r); err != nil {
		return nil, fmt.Errorf("restaurants.Insert: %w", err)
	}

	s.log.InfoContext(ctx, "restaurant created", "restaurant_id", r.ID.Hex(), "owner", actor.ID)
	return r, nil
}

// UpdateRestaurant replaces the editable fields. Owner, approval and
// review counters are kept from the stored document unless an admin edits.
func (s *CatalogService) UpdateRestaurant(ctx context.Context, actor model.Actor, id string, in *model.Restaurant) (*model.Restaurant, error) {
	current, err := s.ownedRestaurant(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateRestaurant(in); err != nil {
		return nil, err
	}

	in.ID = current.ID
	in.OwnerID = current.OwnerID
	in.CreatedAt = current.CreatedAt
	if !actor.IsAdmin() {
		in.IsApproved = current.IsApproved
		in.Rating = current.Rating
		in.TotalReviews = current.TotalReviews
	}

	if err := s.restaurants.Replace(ctx, in); err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, err)
	}
	return in, nil
}

func (s *CatalogService) DeleteRestaurant(ctx context.Context, id string) error {
	if err := s.restaurants.Delete(ctx, id); err != nil {
		return fmt.Errorf("restaurant %s: %w", id, err)
	}
	s.log.InfoContext(ctx, "restaurant deleted", "restaurant_id", id)
	return nil
}

func (s *CatalogService) ownedRestaurant(ctx context.Context, actor model.Actor, id string) (*model.Restaurant, error) {
	r, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, err)
	}
	if r.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not the owner of restaurant %s", ErrForbidden, id)
	}
	return r, nil
}

func (s *CatalogService) ListAllMenu(ctx context.Context) ([]*model.MenuItem, error) {
	return s.menu.FindAll(ctx)
}

func (s *CatalogService) ListMenu(ctx context.Context, restaurantID string) ([]*model.MenuItem, error) {
	return s.menu.FindByRestaurant(ctx, restaurantID)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := s.menu.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("menu item %s: %w", id, err)
	}
	return item, nil
}

func validateMenuItem(item *model.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: menu item name is required", ErrValidation)
	}
	if _, err := model.ToMenuCategory(string(item.Category)); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !item.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	for _, c := range item.Customizations {
		for _, opt := range c.Options {
			if opt.Price.LessThan(decimal.Zero) {
				return fmt.Errorf("%w: option %q of %q has a negative price", ErrValidation, opt.Name, c.Name)
			}
		}
	}
	return nil
}

// CreateMenuItem adds an item to a restaurant the caller owns.
func (s *CatalogService) CreateMenuItem(ctx context.Context, actor model.Actor, restaurantID string, item *model.MenuItem) (*model.MenuItem, error) {
	r, err := s.ownedRestaurant(ctx, actor, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	item.RestaurantID = r.ID
	if err := s.menu.Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("menu.Insert: %w", err)
	}
	return item, nil
}

// UpdateMenuItem leaves historical orders untouched: they carry their own
// name and price snapshot.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, actor model.Actor, id string, in *model.MenuItem) (*model.MenuItem, error) {
	current, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedRestaurant(ctx, actor, current.RestaurantID.Hex()); err != nil {
		return nil, err
	}
	if err := validateMenuItem(in); err != nil {
		return nil, err
	}

	in.ID = current.ID
	in.RestaurantID = current.RestaurantID
	in.CreatedAt = current.CreatedAt
	if err := s.menu.Replace(ctx, in); err != nil {
		return nil, fmt.Errorf("menu item %s: %w", id, err)
	}
	return in, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, actor model.Actor, id string) error {
	current, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.ownedRestaurant(ctx, actor, current.RestaurantID.Hex()); err != nil {
		return err
	}
	if err := s.menu.Delete(ctx, id); err != nil {
		return fmt.Errorf("menu item %s: %w", id, err)
	}
	return nil
}
