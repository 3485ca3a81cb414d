package controller

import (
	"log/slog"
	"net/http"
	"time"

	"quickeats-order-service/internal/dto"
	"quickeats-order-service/internal/middleware"
	"quickeats-order-service/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Orders         *OrderController
	Delivery       *DeliveryController
	Catalog        *CatalogController
	Payment        *PaymentController
	Auth           middleware.TokenValidator
	Realtime       http.Handler
	AllowedOrigins []string
	Log            *slog.Logger
}

// NewRouter mounts the API under /api plus /health and /ws.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(cfg.Log))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	// cors.New panics on an empty origin list.
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.Message("QuickEats API is running"))
	})
	if cfg.Realtime != nil {
		r.GET("/ws", gin.WrapH(cfg.Realtime))
	}

	api := r.Group("/api")
	protect := middleware.Protect(cfg.Auth)
	owners := middleware.Authorize(model.RoleRestaurant, model.RoleAdmin)

	orders := api.Group("/orders", protect)
	orders.POST("", middleware.Authorize(model.RoleCustomer), cfg.Orders.CreateOrder)
	orders.GET("", middleware.AdminOnly(), cfg.Orders.GetAllOrders)
	orders.GET("/my-orders", cfg.Orders.GetMyOrders)
	orders.GET("/restaurant/:restaurantId", owners, cfg.Orders.GetRestaurantOrders)
	orders.GET("/:id", cfg.Orders.GetOrder)
	orders.GET("/:id/history", cfg.Orders.GetOrderHistory)
	orders.PUT("/:id/status", cfg.Orders.UpdateStatus)

	delivery := api.Group("/delivery", protect)
	delivery.POST("/assign", owners, cfg.Delivery.Assign)
	delivery.GET("/my-deliveries", middleware.Authorize(model.RoleDelivery), cfg.Delivery.MyDeliveries)
	delivery.PUT("/:id/status", middleware.Authorize(model.RoleDelivery), cfg.Delivery.UpdateStatus)

	payment := api.Group("/payment", protect)
	payment.POST("/stripe/create-intent", cfg.Payment.CreateStripeIntent)
	payment.POST("/stripe/confirm", cfg.Payment.ConfirmStripe)
	payment.POST("/razorpay/create-order", cfg.Payment.CreateRazorpayOrder)
	payment.POST("/razorpay/verify", cfg.Payment.VerifyRazorpay)

	restaurants := api.Group("/restaurants")
	restaurants.GET("", cfg.Catalog.ListRestaurants)
	restaurants.POST("/nearby", cfg.Catalog.NearbyRestaurants)
	restaurants.GET("/:id", cfg.Catalog.GetRestaurant)
	restaurants.POST("", protect, owners, cfg.Catalog.CreateRestaurant)
	restaurants.PUT("/:id", protect, owners, cfg.Catalog.UpdateRestaurant)
	restaurants.DELETE("/:id", protect, middleware.AdminOnly(), cfg.Catalog.DeleteRestaurant)

	menu := api.Group("/menu")
	menu.GET("", cfg.Catalog.ListAllMenu)
	menu.GET("/restaurant/:restaurantId", cfg.Catalog.ListMenu)
	menu.GET("/:id", cfg.Catalog.GetMenuItem)
	menu.POST("", protect, owners, cfg.Catalog.CreateMenuItem)
	menu.PUT("/:id", protect, owners, cfg.Catalog.UpdateMenuItem)
	menu.DELETE("/:id", protect, owners, cfg.Catalog.DeleteMenuItem)

	return r
}
