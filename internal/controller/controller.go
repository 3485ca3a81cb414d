package controller

import (
	"errors"
	"net/http"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/middleware"
	"quickeats-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPaymentRequired):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	default:
		_ = c.Error(err)
	}
	c.JSON(status, dto.Fail(err.Error()))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
}

type OrderController struct {
	Service *service.OrderService
}

func NewOrderController(s *service.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	actor := middleware.Actor(c)
	order, err := ctl.Service.CreateOrder(c.Request.Context(), req.ToInput(actor.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK(order))
}

// GET /orders (admin)
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(orders))
}

// GET /orders/my-orders
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := ctl.Service.ListByCustomer(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(orders))
}

// GET /orders/restaurant/:restaurantId (restaurant owner, admin)
func (ctl *OrderController) GetRestaurantOrders(c *gin.Context) {
	orders, err := ctl.Service.ListByRestaurant(c.Request.Context(), middleware.Actor(c), c.Param("restaurantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(orders))
}

// GET /orders/:id
func (ctl *OrderController) GetOrder(c *gin.Context) {
	order, err := ctl.Service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(order))
}

// GET /orders/:id/history
func (ctl *OrderController) GetOrderHistory(c *gin.Context) {
	history, err := ctl.Service.History(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(history))
}

// PUT /orders/:id/status
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := ctl.Service.UpdateStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(order))
}
