package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel/trace"

	_ "catalog/docs"
	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/identity"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/database"
	"catalog/pkg/logger"
	"catalog/pkg/rabbitmq"
	"catalog/pkg/tracing"
)

// application is the wired service and the resources it owns.
type application struct {
	cfg     *config.Config
	app     *fiber.App
	service *services.ProductService
	metrics *prometheus.Registry
	mq      *rabbitmq.Client
	tracer  trace.TracerProvider
	closers []func() error
}

func main() {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(cfg.AppName, cfg.IsDevelopment(), cfg.LogLevel)

	a, err := newApplication(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer a.close()

	if a.mq != nil {
		if err := a.mq.Consume(logProductEvent); err != nil {
			log.Error().Err(err).Msg("Failed to start product event consumer")
		}
	}

	go func() {
		log.Info().
			Str("port", cfg.AppPort).
			Str("store", cfg.StoreDriver).
			Str("id_policy", cfg.IDPolicy).
			Msg("Starting server")
		if err := a.app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if err := a.app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	log.Info().Msg("Server gracefully stopped")
}

// newApplication wires storage, messaging, the catalog service and the HTTP app.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	a := &application{cfg: cfg}

	policy, err := identity.New(cfg.IDPolicy)
	if err != nil {
		return nil, err
	}

	repo, err := a.openRepository()
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cfg.AppName, cfg.JaegerEndpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Tracing unavailable")
		} else {
			a.tracer = tp
			a.closers = append(a.closers, func() error {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				return tracing.Shutdown(ctx, tp)
			})
			repo = repositories.NewTracingProductRepository(repo, tp)
		}
	}

	// A nil *rabbitmq.Client must not end up inside the interface.
	var publisher services.EventPublisher
	if cfg.RabbitMQEnabled {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExch,
			Queue:    cfg.RabbitMQQueue,
		})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, product events disabled")
		} else {
			a.mq = mq
			a.closers = append(a.closers, mq.Close)
			publisher = mq
		}
	}

	a.service = services.NewProductService(repo, policy, publisher)

	var seed []models.Product
	if cfg.SeedProducts {
		seed = models.DefaultCatalog()
	}
	if err := a.service.Bootstrap(ctx, seed); err != nil {
		a.close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	a.metrics = registry
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products currently in the catalog",
		}, func() float64 {
			n, err := a.service.CountProducts(context.Background())
			if err != nil {
				return 0
			}
			return float64(n)
		}),
	)

	a.app = fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: errorHandler,
	})
	a.app.Use(recover.New())
	a.app.Use(requestid.New())
	if a.tracer != nil {
		a.app.Use(middleware.Tracing(a.tracer))
	}
	a.app.Use(middleware.RequestLogger(log.Logger))
	a.app.Use(middleware.NewMetrics(registry).Handler())

	handlers.NewProductHandler(a.service).RegisterRoutes(a.app)

	a.app.Get("/health", a.handleHealth)
	a.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	if cfg.DocsEnabled {
		handlers.RegisterDocsRoutes(a.app)
	}

	return a, nil
}

func (a *application) openRepository() (repositories.ProductRepository, error) {
	if a.cfg.StoreDriver == config.StoreMemory {
		return repositories.NewMemoryProductRepository(), nil
	}

	db, err := database.Open(database.Config{
		Driver: a.cfg.StoreDriver,
		DSN:    a.cfg.DatabaseDSN,
		Debug:  a.cfg.LogLevel == "debug",
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return database.Close(db) })

	repo := repositories.NewGORMProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Error().Err(err).Msg("Error releasing resource")
		}
	}
	a.closers = nil
}

func (a *application) handleHealth(c *fiber.Ctx) error {
	rabbitStatus := "disabled"
	if a.mq != nil {
		rabbitStatus = "connected"
	} else if a.cfg.RabbitMQEnabled {
		rabbitStatus = "unavailable"
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"time":      time.Now().Format(time.RFC3339),
		"store":     a.cfg.StoreDriver,
		"id_policy": a.service.IDPolicy(),
		"rabbitmq":  rabbitStatus,
	})
}

// errorHandler renders errors no handler dealt with.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// logProductEvent writes a consumed product event to the audit log.
func logProductEvent(msg amqp.Delivery) error {
	var event services.ProductEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("invalid product event: %w", err)
	}

	log.Info().
		Str("event", event.Event).
		Str("routing_key", msg.RoutingKey).
		Str("id", event.Product.ID.String()).
		Str("title", event.Product.Title).
		Time("occurred_at", event.OccurredAt).
		Msg("Product event")
	return nil
}
