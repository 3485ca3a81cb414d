package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/middleware"
	"quickeats-order-service/internal/model"
	"quickeats-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultRadiusKm = 10.0

type CatalogController struct {
	Service *service.CatalogService
}

func NewCatalogController(s *service.CatalogService) *CatalogController {
	return &CatalogController{Service: s}
}

// restaurantFilter reads ?cuisine=&search=&minRating=&lat=&lng=&radius=.
func restaurantFilter(c *gin.Context) (model.RestaurantFilter, error) {
	f := model.RestaurantFilter{
		Cuisine: c.Query("cuisine"),
		Search:  c.Query("search"),
	}

	if v := c.Query("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("minRating: %w", err)
		}
		f.MinRating = &rating
	}

	lat, lng := c.Query("lat"), c.Query("lng")
	if lat == "" && lng == "" {
		return f, nil
	}
	if lat == "" || lng == "" {
		return f, errors.New("lat and lng must be given together")
	}

	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return f, fmt.Errorf("lat: %w", err)
	}
	lngF, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return f, fmt.Errorf("lng: %w", err)
	}
	radius := defaultRadiusKm
	if v := c.Query("radius"); v != "" {
		if radius, err = strconv.ParseFloat(v, 64); err != nil || radius <= 0 {
			return f, errors.New("radius must be a positive number")
		}
	}

	box := model.BoundingBox(latF, lngF, radius)
	f.Near = &box
	return f, nil
}

// GET /restaurants
func (ctl *CatalogController) ListRestaurants(c *gin.Context) {
	f, err := restaurantFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	restaurants, err := ctl.Service.ListRestaurants(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(restaurants))
}

// POST /restaurants/nearby
func (ctl *CatalogController) NearbyRestaurants(c *gin.Context) {
	var req dto.NearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	origin := model.Coordinates{Lat: *req.Lat, Lng: *req.Lng}
	restaurants, err := ctl.Service.NearbyRestaurants(c.Request.Context(), origin, req.RadiusKm())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(restaurants))
}

// GET /restaurants/:id
func (ctl *CatalogController) GetRestaurant(c *gin.Context) {
	r, err := ctl.Service.GetRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(r))
}

// POST /restaurants (restaurant, admin)
func (ctl *CatalogController) CreateRestaurant(c *gin.Context) {
	var req dto.RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := ctl.Service.CreateRestaurant(c.Request.Context(), middleware.Actor(c), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(r))
}

// PUT /restaurants/:id (owner, admin)
func (ctl *CatalogController) UpdateRestaurant(c *gin.Context) {
	var req dto.RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	r, err := ctl.Service.UpdateRestaurant(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(r))
}

// DELETE /restaurants/:id (admin)
func (ctl *CatalogController) DeleteRestaurant(c *gin.Context) {
	if err := ctl.Service.DeleteRestaurant(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Message("Restaurant deleted"))
}

// GET /menu
func (ctl *CatalogController) ListAllMenu(c *gin.Context) {
	items, err := ctl.Service.ListAllMenu(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(items))
}

// GET /menu/restaurant/:restaurantId
func (ctl *CatalogController) ListMenu(c *gin.Context) {
	items, err := ctl.Service.ListMenu(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(items))
}

// GET /menu/:id
func (ctl *CatalogController) GetMenuItem(c *gin.Context) {
	item, err := ctl.Service.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(item))
}

// POST /menu (restaurant, admin)
func (ctl *CatalogController) CreateMenuItem(c *gin.Context) {
	var req dto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Restaurant == "" {
		badRequest(c, errors.New("restaurant is required"))
		return
	}

	item, err := ctl.Service.CreateMenuItem(c.Request.Context(), middleware.Actor(c), req.Restaurant, req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(item))
}

// PUT /menu/:id (restaurant, admin)
func (ctl *CatalogController) UpdateMenuItem(c *gin.Context) {
	var req dto.MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := ctl.Service.UpdateMenuItem(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(item))
}

// DELETE /menu/:id (restaurant, admin)
func (ctl *CatalogController) DeleteMenuItem(c *gin.Context) {
	if err := ctl.Service.DeleteMenuItem(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Message("Menu item deleted"))
}
