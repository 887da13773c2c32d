package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/tutor_market/internal/app"
	"github.com/Freeeeeet/tutor_market/internal/config"
	"github.com/Freeeeeet/tutor_market/internal/controller/httpapi"
	"github.com/Freeeeeet/tutor_market/internal/repository"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Sugar().Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Sugar().Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Sugar().Fatalf("Failed to apply migrations: %v", err)
	}
	if err := migrator.Close(); err != nil {
		logger.Sugar().Errorf("Failed to close migrator: %v", err)
	}

	store := repository.NewStore(pool)

	bookingService := service.NewBookingService(store, logger)
	slotService := service.NewSlotService(store, logger)
	reviewService := service.NewReviewService(store, logger)

	router := httpapi.NewRouter(
		httpapi.RouterConfig{
			JWTSecret:   cfg.JWTSecret,
			Environment: cfg.Environment,
		},
		httpapi.NewBookingHandler(bookingService),
		httpapi.NewSlotHandler(slotService),
		httpapi.NewReviewHandler(reviewService),
		logger,
	)

	logger.Sugar().Infow("Starting tutor market server",
		"environment", cfg.Environment,
		"addr", cfg.HTTPAddr)

	if err := app.RunServer(ctx, cfg.HTTPAddr, router, logger); err != nil {
		logger.Sugar().Fatalf("Server stopped with error: %v", err)
	}
}
