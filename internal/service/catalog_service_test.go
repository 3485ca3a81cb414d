package service_test

import (
	"math"
	"testing"
	"time"

	"quickeats-order-service/internal/logger"
	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/repository/memstore"
	"quickeats-order-service/internal/service"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCatalog() *service.CatalogService {
	return service.NewCatalogService(memstore.NewRestaurantStore(), memstore.NewMenuStore(), logger.Discard())
}

func TestCatalog_RestaurantLifecycle(t *testing.T) {
	ctx := t.Context()
	catalog := newCatalog()
	owner := model.Actor{ID: gofakeit.UUID(), Role: model.RoleRestaurant}
	admin := model.Actor{ID: "admin", Role: model.RoleAdmin}

	r, err := catalog.CreateRestaurant(ctx, owner, &model.Restaurant{
		OwnerID:     "spoofed",
		Name:        "Tandoor House",
		Cuisine:     []string{"Indian"},
		DeliveryFee: decimal.NewFromInt(30),
		IsApproved:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, r.OwnerID)
	assert.False(t, r.IsApproved)

	edit := *r
	edit.Name = "Tandoor House Express"
	edit.IsApproved = true
	edit.Rating = 5
	updated, err := catalog.UpdateRestaurant(ctx, owner, r.ID.Hex(), &edit)
	require.NoError(t, err)
	assert.Equal(t, "Tandoor House Express", updated.Name)
	assert.False(t, updated.IsApproved, "owners cannot approve themselves")
	assert.Zero(t, updated.Rating)

	approve := *updated
	approve.IsApproved = true
	updated, err = catalog.UpdateRestaurant(ctx, admin, r.ID.Hex(), &approve)
	require.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.Equal(t, owner.ID, updated.OwnerID)

	_, err = catalog.UpdateRestaurant(ctx, model.Actor{ID: "x", Role: model.RoleRestaurant}, r.ID.Hex(), &edit)
	require.ErrorIs(t, err, service.ErrForbidden)

	list, err := catalog.ListRestaurants(ctx, model.RestaurantFilter{Cuisine: "Indian"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, catalog.DeleteRestaurant(ctx, r.ID.Hex()))
	_, err = catalog.GetRestaurant(ctx, r.ID.Hex())
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalog_RestaurantValidation(t *testing.T) {
	catalog := newCatalog()
	owner := model.Actor{ID: "o", Role: model.RoleRestaurant}

	tests := []struct {
		name string
		in   model.Restaurant
	}{
		{name: "no name", in: model.Restaurant{}},
		{name: "negative fee", in: model.Restaurant{Name: "x", DeliveryFee: decimal.NewFromInt(-1)}},
		{name: "rating above five", in: model.Restaurant{Name: "x", Rating: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.CreateRestaurant(t.Context(), owner, &tt.in)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestCatalog_MenuItems(t *testing.T) {
	ctx := t.Context()
	catalog := newCatalog()
	owner := model.Actor{ID: gofakeit.UUID(), Role: model.RoleRestaurant}
	stranger := model.Actor{ID: gofakeit.UUID(), Role: model.RoleRestaurant}

	r, err := catalog.CreateRestaurant(ctx, owner, &model.Restaurant{Name: "Chaat Corner"})
	require.NoError(t, err)

	item := &model.MenuItem{
		RestaurantID: primitive.NewObjectID(),
		Name:         "Pani Puri",
		Category:     model.CategorySnack,
		Price:        decimal.NewFromInt(60),
	}

	_, err = catalog.CreateMenuItem(ctx, stranger, r.ID.Hex(), item)
	require.ErrorIs(t, err, service.ErrForbidden)

	created, err := catalog.CreateMenuItem(ctx, owner, r.ID.Hex(), item)
	require.NoError(t, err)
	assert.Equal(t, r.ID, created.RestaurantID)

	bad := *created
	bad.Category = "Brunch"
	_, err = catalog.UpdateMenuItem(ctx, owner, created.ID.Hex(), &bad)
	require.ErrorIs(t, err, service.ErrValidation)

	bad = *created
	bad.Price = decimal.Zero
	_, err = catalog.UpdateMenuItem(ctx, owner, created.ID.Hex(), &bad)
	require.ErrorIs(t, err, service.ErrValidation)

	edit := *created
	edit.Price = decimal.NewFromInt(70)
	edit.PreparationTime = int((10 * time.Minute).Minutes())
	updated, err := catalog.UpdateMenuItem(ctx, owner, created.ID.Hex(), &edit)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(70)))

	menu, err := catalog.ListMenu(ctx, r.ID.Hex())
	require.NoError(t, err)
	require.Len(t, menu, 1)

	require.ErrorIs(t, catalog.DeleteMenuItem(ctx, stranger, created.ID.Hex()), service.ErrForbidden)
	require.NoError(t, catalog.DeleteMenuItem(ctx, owner, created.ID.Hex()))
	_, err = catalog.GetMenuItem(ctx, created.ID.Hex())
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCatalog_NearbyRestaurants(t *testing.T) {
	ctx := t.Context()
	catalog := newCatalog()
	admin := model.Actor{ID: "admin", Role: model.RoleAdmin}
	origin := model.Coordinates{Lat: 12.97, Lng: 77.59}

	at := func(name string, c *model.Coordinates) *model.Restaurant {
		r, err := catalog.CreateRestaurant(ctx, admin, &model.Restaurant{
			Name:    name,
			Address: model.Address{Coordinates: c},
		})
		require.NoError(t, err)
		return r
	}

	lngPerKm := 1 / (111.0 * math.Cos(origin.Lat*math.Pi/180))
	mid := at("Three km", &model.Coordinates{Lat: origin.Lat + 3.0/111, Lng: origin.Lng})
	nearest := at("One km", &model.Coordinates{Lat: origin.Lat + 1.0/111, Lng: origin.Lng})
	at("Box corner", &model.Coordinates{Lat: origin.Lat + 4.5/111, Lng: origin.Lng + 4.5*lngPerKm})
	at("No coordinates", nil)

	got, err := catalog.NearbyRestaurants(ctx, origin, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, nearest.ID, got[0].ID)
	assert.Equal(t, mid.ID, got[1].ID)

	got, err = catalog.NearbyRestaurants(ctx, origin, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, nearest.ID, got[0].ID)

	_, err = catalog.NearbyRestaurants(ctx, origin, 0)
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestCatalog_ListAllMenu(t *testing.T) {
	ctx := t.Context()
	catalog := newCatalog()
	owner := model.Actor{ID: gofakeit.UUID(), Role: model.RoleRestaurant}

	for _, name := range []string{"Idli Stop", "Biryani Bros"} {
		r, err := catalog.CreateRestaurant(ctx, owner, &model.Restaurant{Name: name})
		require.NoError(t, err)
		_, err = catalog.CreateMenuItem(ctx, owner, r.ID.Hex(), &model.MenuItem{
			Name:     gofakeit.Dinner(),
			Category: model.CategoryMainCourse,
			Price:    decimal.NewFromInt(120),
		})
		require.NoError(t, err)
	}

	all, err := catalog.ListAllMenu(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
