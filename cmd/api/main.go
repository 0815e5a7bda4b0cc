package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/taxflow/internal/config"
	"github.com/Dan9191/taxflow/internal/handler"
	"github.com/Dan9191/taxflow/internal/jobs"
	"github.com/Dan9191/taxflow/internal/repository"
	"github.com/Dan9191/taxflow/internal/service"
	"github.com/Dan9191/taxflow/internal/utils/email"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	calc, err := cfg.Calculator()
	if err != nil {
		logger.Fatalf("Failed to build tax calculator: %v", err)
	}

	// Initialize database
	db, err := repository.Open(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	defer repo.Close()
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, calc, mailer, logger)
	h := handler.NewHandler(svc, logger)

	if cfg.ProfileRetention > 0 {
		retention, err := jobs.NewRetention(svc, cfg.PurgeSchedule, cfg.ProfileRetention, logger)
		if err != nil {
			logger.Fatalf("Failed to schedule profile retention: %v", err)
		}
		retention.Start()
		defer retention.Stop()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Starting server on %s (regime %s)", addr, calc.RegimeName())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
