package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "gymcore/docs"

	"gymcore/internal/config"
	"gymcore/internal/db"
	"gymcore/internal/email"
	"gymcore/internal/logger"
	"gymcore/internal/scheduler"
	"gymcore/internal/server"

	"github.com/redis/go-redis/v9"
)

// @title GymCore API
// @version 1.0
// @description Multi-tenant gym management: memberships, plan limits, billing, lockers and CRM.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "json")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()
	logger.Info("starting gymcore", "port", cfg.Port, "timezone", cfg.Location.String())

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("migrations completed")

	emailService := email.New(
		redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
		email.SMTPConfig{
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Pass:     cfg.SMTPPass,
		},
	)
	defer emailService.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	services := server.NewServices(database, cfg, emailService)

	sweeps := scheduler.New(services.Tasks(), cfg.SweepSchedule, cfg.Location, nil)
	if err := sweeps.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	srv := server.New(database, cfg, services, emailService)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())
	case err := <-serverErrChan:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}
	sweeps.Stop(shutdownCtx)
	cancel()

	logger.Info("server stopped")
}
