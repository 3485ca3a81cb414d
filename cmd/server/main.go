package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"quickeats-order-service/internal/config"
	"quickeats-order-service/internal/controller"
	"quickeats-order-service/internal/logger"
	"quickeats-order-service/internal/rabbit"
	"quickeats-order-service/internal/realtime"
	"quickeats-order-service/internal/repository"
	"quickeats-order-service/internal/repository/memstore"
	"quickeats-order-service/internal/service"
)

type stores struct {
	orders      service.OrderRepository
	restaurants service.RestaurantRepository
	menu        service.MenuRepository
	client      *mongo.Client
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		return &stores{
			orders:      memstore.NewOrderStore(),
			restaurants: memstore.NewRestaurantStore(),
			menu:        memstore.NewMenuStore(),
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := repository.Connect(connectCtx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDBName)
	if err := repository.EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &stores{
		orders:      repository.NewMongoOrderRepository(db),
		restaurants: repository.NewMongoRestaurantRepository(db),
		menu:        repository.NewMongoMenuRepository(db),
		client:      client,
	}, nil
}

// relay fans events out through RabbitMQ so every instance's hub sees them.
func relay(ctx context.Context, cfg *config.Config, hub *realtime.Hub, lgr *slog.Logger) (service.Notifier, *amqp091.Connection, error) {
	conn, err := rabbit.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, err
	}

	pubCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	if err := rabbit.DeclareExchange(pubCh, cfg.RabbitExchange); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	subCh, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	consumer := rabbit.NewEventConsumer(hub, lgr)
	if err := rabbit.SetupConsumers(ctx, subCh, cfg.RabbitExchange, consumer, lgr); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return rabbit.NewPublisher(pubCh, cfg.RabbitExchange), conn, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lgr := logger.New(cfg.LogLevel, cfg.LogFormat)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		lgr.Error("failed to open store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	lgr.Info("store ready", "store", cfg.Store)

	hub := realtime.NewHub(lgr)

	var notifier service.Notifier = hub
	var mqConn *amqp091.Connection
	if cfg.RabbitURL != "" {
		notifier, mqConn, err = relay(ctx, cfg, hub, lgr)
		if err != nil {
			lgr.Error("failed to set up event relay", "error", err)
			os.Exit(1)
		}
		lgr.Info("event relay connected", "exchange", cfg.RabbitExchange)
	}

	orderService := service.NewOrderService(st.orders, st.restaurants, st.menu, notifier, service.OrderConfig{
		Currency:            cfg.CurrencyUnit(),
		StrictTransitions:   cfg.StrictTransitions,
		CashRequiresPayment: cfg.CashRequiresPayment,
	}, lgr)
	catalogService := service.NewCatalogService(st.restaurants, st.menu, lgr)
	authService := service.NewAuthService(cfg.JWTSecret)

	router := controller.NewRouter(controller.RouterConfig{
		Orders:         controller.NewOrderController(orderService),
		Delivery:       controller.NewDeliveryController(orderService),
		Catalog:        controller.NewCatalogController(catalogService),
		Payment:        controller.NewPaymentController(orderService),
		Auth:           authService,
		Realtime:       realtime.NewWSHandler(hub, cfg.AllowedOrigins, lgr),
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            lgr,
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		lgr.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	lgr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		lgr.Error("shutdown error", "error", err)
	}
	if mqConn != nil {
		_ = mqConn.Close()
	}
	if st.client != nil {
		if err := st.client.Disconnect(shutdownCtx); err != nil {
			lgr.Error("mongo disconnect", "error", err)
		}
	}
}
