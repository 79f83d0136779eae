package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"recipe-steps-be/internal/bootstrap"
	"recipe-steps-be/internal/config"
	"recipe-steps-be/internal/server"
	"recipe-steps-be/internal/tracer"
	"recipe-steps-be/pkg/database"

	"gorm.io/gorm/logger"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	logLevel := logger.Info
	if cfg.App.Environment == "production" {
		logLevel = logger.Warn
	}
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.WithLogLevel(logLevel))
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	if err := container.CandidateService.Start(); err != nil {
		log.Printf("[WARN] Candidate refresh disabled: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
