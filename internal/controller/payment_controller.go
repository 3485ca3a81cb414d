package controller

import (
	"errors"
	"net/http"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/middleware"
	"quickeats-order-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentController stubs the Stripe and Razorpay flows. No gateway is
// called; confirming or verifying marks the order paid.
type PaymentController struct {
	Service *service.OrderService
}

func NewPaymentController(s *service.OrderService) *PaymentController {
	return &PaymentController{Service: s}
}

func bindAmount(c *gin.Context) (decimal.Decimal, bool) {
	var req dto.PaymentAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return decimal.Zero, false
	}
	if !req.Amount.IsPositive() {
		badRequest(c, errors.New("amount must be positive"))
		return decimal.Zero, false
	}
	return req.Amount, true
}

// POST /payment/stripe/create-intent
func (ctl *PaymentController) CreateStripeIntent(c *gin.Context) {
	if _, ok := bindAmount(c); !ok {
		return
	}
	c.JSON(http.StatusOK, dto.PaymentIntentResponse{
		Envelope:     dto.Message("Payment intent created"),
		ClientSecret: "mock_client_secret_" + uuid.NewString(),
	})
}

// POST /payment/stripe/confirm
func (ctl *PaymentController) ConfirmStripe(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := ctl.Service.ConfirmPayment(c.Request.Context(), middleware.Actor(c), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Payment confirmed", Data: order})
}

// POST /payment/razorpay/create-order
func (ctl *PaymentController) CreateRazorpayOrder(c *gin.Context) {
	amount, ok := bindAmount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.RazorpayOrderResponse{
		Envelope: dto.Message("Razorpay order created"),
		Order: dto.RazorpayOrder{
			ID:     "mock_order_" + uuid.NewString(),
			Amount: amount.Shift(2).Round(0),
		},
	})
}

// POST /payment/razorpay/verify
func (ctl *PaymentController) VerifyRazorpay(c *gin.Context) {
	var req dto.RazorpayVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := ctl.Service.ConfirmPayment(c.Request.Context(), middleware.Actor(c), req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "Payment verified successfully", Data: order})
}
