package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sigma-lms-be/internal/bootstrap"
	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/server"
	"sigma-lms-be/internal/tracer"
	"sigma-lms-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	if cfg.Auth.JwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Database (optional, keeps the import history)
	var db *gorm.DB
	if cfg.Database.Connection != "" || cfg.Database.Driver == database.DriverSqlite {
		var err error
		db, err = database.Open(cfg.Database.Driver, cfg.Database.Connection, database.Options{
			Verbose: cfg.App.Environment != "production",
		})
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
	}

	// 4. Bootstrap Dependencies
	container, err := bootstrap.NewContainer(db, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}
	defer container.Close()

	// 5. Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if container.ConsumerService != nil {
		if err := container.ConsumerService.Consume(ctx); err != nil {
			sysLogger.Error("MAIN", "Failed to start import audit consumer", map[string]interface{}{"error": err.Error()})
		}
	}

	// 6. Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		sysLogger.Info("MAIN", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		sysLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
