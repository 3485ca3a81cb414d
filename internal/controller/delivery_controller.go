package controller

import (
	"net/http"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/middleware"
	"quickeats-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

type DeliveryController struct {
	Service *service.OrderService
}

func NewDeliveryController(s *service.OrderService) *DeliveryController {
	return &DeliveryController{Service: s}
}

// POST /delivery/assign (admin, restaurant)
func (ctl *DeliveryController) Assign(c *gin.Context) {
	var req dto.AssignDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := ctl.Service.AssignDelivery(c.Request.Context(), middleware.Actor(c), req.OrderID, req.DeliveryPersonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(order))
}

// GET /delivery/my-deliveries (delivery)
func (ctl *DeliveryController) MyDeliveries(c *gin.Context) {
	orders, err := ctl.Service.ListByDeliveryPerson(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(orders))
}

// PUT /delivery/:id/status (delivery)
func (ctl *DeliveryController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := ctl.Service.UpdateDeliveryStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(order))
}
