package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/cart"
	"github.com/cryptoclub/cryptoclub-backend-go/checkout"
	"github.com/cryptoclub/cryptoclub-backend-go/config"
	"github.com/cryptoclub/cryptoclub-backend-go/database"
	"github.com/cryptoclub/cryptoclub-backend-go/handlers"
	custommw "github.com/cryptoclub/cryptoclub-backend-go/middleware"
	"github.com/cryptoclub/cryptoclub-backend-go/routes"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
	"github.com/cryptoclub/cryptoclub-backend-go/utils"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(custommw.Metrics())

	backend := newBackend(cfg, logger)

	products := store.NewEntity(backend, "products")
	orders := store.NewEntity(backend, "orders")
	shippingMethods := store.NewEntity(backend, "shipping_methods")
	pageViews := store.NewEntity(backend, "page_views")
	carts := store.NewEntity(backend, "carts")

	cartService := cart.NewService(carts, logger)

	// Exactly one checkout flow is live per deployment: with a Stripe key
	// the pipeline hands off to the hosted session, without one it
	// completes orders synchronously.
	var sessions checkout.SessionCreator
	if cfg.StripeSecretKey != "" {
		processor, err := utils.NewStripeProcessor(cfg.StripeSecretKey)
		if err != nil {
			logger.Fatal("Invalid Stripe configuration", zap.Error(err))
		}
		sessions = processor
		logger.Info("checkout flow: Stripe hosted session")
	} else {
		logger.Warn("checkout flow: synchronous, no payment provider configured")
	}

	checkoutService := checkout.NewService(orders, shippingMethods, cartService, sessions, logger)
	uploader := utils.NewUploader(context.Background(), cfg.AWSRegion, cfg.AWSBucket, logger)

	h := &handlers.Handler{
		Products:        products,
		Orders:          orders,
		ShippingMethods: shippingMethods,
		PageViews:       pageViews,
		Cart:            cartService,
		Checkout:        checkoutService,
		Uploader:        uploader,
		StripeKey:       cfg.StripeSecretKey,
		Log:             logger,
	}
	routes.SetupRoutes(e, h)

	logger.Info("Server starting", zap.String("port", cfg.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// newBackend connects to MongoDB, or degrades to the in-memory backend
// when no URI is configured so the storefront stays runnable.
func newBackend(cfg config.Config, logger *zap.Logger) store.Backend {
	if cfg.MongoURI == "" {
		logger.Warn("MONGODB_URI not set, using in-memory store; data will not survive restarts")
		return store.NewMemoryBackend()
	}

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))
	return store.NewMongoBackend(db)
}
