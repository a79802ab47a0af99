package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cmv-api/internal/application/report"
	"github.com/jhoicas/cmv-api/internal/application/usecase"
	"github.com/jhoicas/cmv-api/internal/bootstrap"
	"github.com/jhoicas/cmv-api/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/cmv-api/internal/interfaces/http"
	"github.com/jhoicas/cmv-api/pkg/config"
	"github.com/jhoicas/cmv-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := bootstrap.OpenRepositories(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer repos.Close()

	var (
		m             *metrics.Metrics
		reportMetrics report.ReportMetrics
	)
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Prefix)
		reportMetrics = m
	}

	reportUC, err := bootstrap.NewReportUseCase(cfg, repos, reportMetrics, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar reportes")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.AccessLog(log))
	if m != nil {
		app.Use(httpRouter.Metrics(m))
	}

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "CMV API",
		}))
	} else {
		log.Warn().Str("file", cfg.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(repos.Products),
		SupplierUC:  usecase.NewSupplierUseCase(repos.Suppliers),
		PurchaseUC:  usecase.NewPurchaseUseCase(repos.Tx, repos.Purchases, repos.Products, repos.Suppliers),
		InventoryUC: usecase.NewInventoryUseCase(repos.Tx, repos.Snapshots, repos.Products),
		ReportUC:    reportUC,
		Metrics:     m,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
