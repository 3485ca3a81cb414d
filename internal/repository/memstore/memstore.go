// Package memstore keeps orders, restaurants and menu items in process
// memory. It backs STORE=memory and the service and handler tests.
package memstore

import (
	"bytes"
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/repository"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]model.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[primitive.ObjectID]model.Order)}
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	for i := range o.Items {
		o.Items[i].Customizations = slices.Clone(o.Items[i].Customizations)
	}
	o.History = slices.Clone(o.History)
	if o.ActualDeliveryTime != nil {
		t := *o.ActualDeliveryTime
		o.ActualDeliveryTime = &t
	}
	return o
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}

func (s *OrderStore) Insert(_ context.Context, o *model.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = o.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (s *OrderStore) FindByID(_ context.Context, id string) (*model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (s *OrderStore) Update(_ context.Context, id string, change model.OrderChange) (*model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o = cloneOrder(o)
	change.Apply(&o, time.Now().UTC())
	s.orders[oid] = o

	out := cloneOrder(o)
	return &out, nil
}

func (s *OrderStore) FindAll(_ context.Context) ([]*model.Order, error) {
	return s.filter(func(model.Order) bool { return true }), nil
}

func (s *OrderStore) FindByCustomer(_ context.Context, customerID string) ([]*model.Order, error) {
	return s.filter(func(o model.Order) bool { return o.CustomerID == customerID }), nil
}

func (s *OrderStore) FindByRestaurant(_ context.Context, restaurantID string) ([]*model.Order, error) {
	return s.filter(func(o model.Order) bool { return o.RestaurantID.Hex() == restaurantID }), nil
}

func (s *OrderStore) FindByDeliveryPerson(_ context.Context, personID string) ([]*model.Order, error) {
	return s.filter(func(o model.Order) bool {
		return o.DeliveryPersonID != "" && o.DeliveryPersonID == personID
	}), nil
}

// filter returns matching orders, newest first.
func (s *OrderStore) filter(keep func(model.Order) bool) []*model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.Order{}
	for _, o := range s.orders {
		if keep(o) {
			c := cloneOrder(o)
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *model.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

type RestaurantStore struct {
	mu          sync.RWMutex
	restaurants map[primitive.ObjectID]model.Restaurant
}

func NewRestaurantStore() *RestaurantStore {
	return &RestaurantStore{restaurants: make(map[primitive.ObjectID]model.Restaurant)}
}

func (s *RestaurantStore) Insert(_ context.Context, r *model.Restaurant) error {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[r.ID] = *r
	return nil
}

func (s *RestaurantStore) FindByID(_ context.Context, id string) (*model.Restaurant, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *RestaurantStore) Find(_ context.Context, f model.RestaurantFilter) ([]*model.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.Restaurant{}
	for _, r := range s.restaurants {
		if matchRestaurant(r, f) {
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, func(a, b *model.Restaurant) int {
		return cmp.Compare(b.Rating, a.Rating)
	})
	return out, nil
}

func matchRestaurant(r model.Restaurant, f model.RestaurantFilter) bool {
	if f.Cuisine != "" && !lo.Contains(r.Cuisine, f.Cuisine) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hit := strings.Contains(strings.ToLower(r.Name), needle) ||
			lo.SomeBy(r.Cuisine, func(c string) bool { return strings.Contains(strings.ToLower(c), needle) })
		if !hit {
			return false
		}
	}
	if f.MinRating != nil && r.Rating < *f.MinRating {
		return false
	}
	if f.Near != nil {
		if r.Address.Coordinates == nil || !f.Near.Contains(*r.Address.Coordinates) {
			return false
		}
	}
	return true
}

func (s *RestaurantStore) Replace(_ context.Context, r *model.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[r.ID]; !ok {
		return repository.ErrNotFound
	}
	r.UpdatedAt = time.Now().UTC()
	s.restaurants[r.ID] = *r
	return nil
}

func (s *RestaurantStore) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.restaurants[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(s.restaurants, oid)
	return nil
}

type MenuStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]model.MenuItem
}

func NewMenuStore() *MenuStore {
	return &MenuStore{items: make(map[primitive.ObjectID]model.MenuItem)}
}

func (s *MenuStore) Insert(_ context.Context, item *model.MenuItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

func (s *MenuStore) FindByID(_ context.Context, id string) (*model.MenuItem, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (s *MenuStore) FindByRestaurant(_ context.Context, restaurantID string) ([]*model.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.MenuItem{}
	for _, item := range s.items {
		if item.RestaurantID.Hex() == restaurantID {
			out = append(out, &item)
		}
	}
	slices.SortFunc(out, func(a, b *model.MenuItem) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

// FindAll returns every menu item, newest first.
func (s *MenuStore) FindAll(_ context.Context) ([]*model.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, &item)
	}
	slices.SortFunc(out, func(a, b *model.MenuItem) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), bytes.Compare(b.ID[:], a.ID[:]))
	})
	return out, nil
}

func (s *MenuStore) Replace(_ context.Context, item *model.MenuItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return repository.ErrNotFound
	}
	item.UpdatedAt = time.Now().UTC()
	s.items[item.ID] = *item
	return nil
}

func (s *MenuStore) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[oid]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, oid)
	return nil
}
