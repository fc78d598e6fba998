package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sistemita-api/internal/application/billing"
	"github.com/jhoicas/sistemita-api/internal/application/imputation"
	"github.com/jhoicas/sistemita-api/internal/application/payment"
	"github.com/jhoicas/sistemita-api/internal/application/ports"
	"github.com/jhoicas/sistemita-api/internal/domain/repository"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/memory"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sistemita-api/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/sistemita-api/internal/interfaces/http"
	"github.com/jhoicas/sistemita-api/pkg/config"
	"github.com/jhoicas/sistemita-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		tx    txRunner
		repos repository.Repositories
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repositories()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepositories(pool)
	}

	var locker ports.Locker = ports.NopLocker{}
	if cfg.Redis.Enabled() {
		client, err := redislock.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = redislock.New(client, cfg.Redis.LockTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueos distribuidos con Redis")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Counterparties: billing.NewCounterpartyUseCase(repos.Counterparties),
		Invoices:       billing.NewInvoiceUseCase(repos.Invoices, repos.Counterparties),
		Importer:       billing.NewAFIPImporter(tx, log),
		PaymentMethods: billing.NewPaymentMethodUseCase(repos.PaymentMethods),
		Imputations:    imputation.NewService(tx, repos, locker, log),
		Payments:       payment.NewService(tx, repos, locker, log),
		JWTSecret:      cfg.JWT.Secret,
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
