package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/farmacia-pms/internal/application/auth"
	"github.com/jhoicas/farmacia-pms/internal/application/transfer"
	"github.com/jhoicas/farmacia-pms/internal/application/usecase"
	"github.com/jhoicas/farmacia-pms/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-pms/internal/infrastructure/restapi"
	httpRouter "github.com/jhoicas/farmacia-pms/internal/interfaces/http"
	"github.com/jhoicas/farmacia-pms/pkg/config"
	"github.com/jhoicas/farmacia-pms/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	txRepo := postgres.NewStockTransactionRepository(pool)

	productUC := usecase.NewProductUseCase(productRepo)
	branchUC := usecase.NewBranchUseCase(branchRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	stockUC := usecase.NewStockQueryUseCase(stockRepo, txRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Motor de traslados bodega → sucursal. El modo (shadow/actual) y la vía
	// de acceso a stock (direct/fallback) se releen del entorno en cada
	// petición, así el cambio de modo no requiere reinicio.
	fallbackClient := restapi.NewStockClient(cfg.Fallback.BaseURL, cfg.Fallback.PageSize)
	modeResolver := config.NewEnvModeResolver()
	transferUC := transfer.NewUseCase(stockRepo, txRepo, fallbackClient, modeResolver, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		BranchUC:    branchUC,
		WarehouseUC: warehouseUC,
		StockUC:     stockUC,
		Transfers:   transferUC,
		JWTSecret:   cfg.JWT.Secret,
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
