package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"productstore/internal/config"
	"productstore/internal/database"
	"productstore/internal/handlers"
	"productstore/internal/repositories"
	"productstore/internal/services"
	"productstore/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	// --- Persistence ---
	productRepo, closeStore, err := newProductRepository(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize product store: %v", err)
	}
	defer closeStore()

	// --- Product events (optional) ---
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeProductEvents(rabbitmq.LogProductEvent(log)); err != nil {
			log.WithError(err).Warn("Failed to start RabbitMQ consumer")
		}
	} else {
		log.Info("RABBITMQ_URL not set, product events are disabled")
	}

	// --- Services and handlers ---
	productService := services.NewProductService(productRepo, publisher, log)
	productHandler := handlers.NewProductHandler(productService, log)

	app := newApp(log)
	handlers.RegisterHealthRoutes(app)
	productHandler.RegisterRoutes(app)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Infof("Starting server on port %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
}

// newApp builds the Fiber app with the service-wide error handler and middleware.
func newApp(log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "productstore",
		ErrorHandler: handlers.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))
	return app
}

// newProductRepository picks the product store named by the configuration.
// The returned func releases the store.
func newProductRepository(cfg *config.Config, log *logrus.Logger) (repositories.ProductRepository, func(), error) {
	if cfg.UseMemoryStore() {
		log.Warn("Using the in-memory product store, data will not survive a restart")
		return repositories.NewInMemoryProductRepository(), func() {}, nil
	}

	db, err := database.Open(cfg.DatabaseURI, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database connection established")

	closeStore := func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}
	return repositories.NewGORMProductRepository(db), closeStore, nil
}
