package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docclean/docs"
	"docclean/internal/bootstrap"
	"docclean/internal/config"
	handlers "docclean/internal/http/handler"
	"docclean/internal/http/middleware"
	"docclean/internal/logging"
	"docclean/internal/otel"
)

const shutdownTimeout = 10 * time.Second

// @title docclean API
// @version 1.0
// @BasePath /
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}

	svcs, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize services")
	}
	defer svcs.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := newApp(cfg, svcs, reg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build http app")
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.WithError(err).Error("http shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.Info("listening", logging.F("addr", addr), logging.F("storage_backend", cfg.Storage.Backend))
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.WithError(err).Warn("tracing shutdown")
	}
}

// newApp builds the Fiber app with middleware, API routes, metrics and docs.
func newApp(cfg *config.AppConfig, svcs *bootstrap.Services, reg *prometheus.Registry, log logging.Logger) (*fiber.App, error) {
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	probes := []handlers.Probe{handlers.StorageProbe(svcs.Backend)}
	if svcs.DB != nil {
		probes = append(probes, handlers.DatabaseProbe(svcs.DB))
	}
	handlers.RegisterRoutes(app, handlers.Deps{
		Documents: svcs.Documents,
		Cleaning:  svcs.Cleaning,
		Words:     svcs.Words,
		Probes:    probes,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	return app, nil
}
