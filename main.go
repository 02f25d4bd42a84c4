package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"hackportal/config"
	"hackportal/middleware"
	"hackportal/routes"
	"hackportal/services"
	"hackportal/utils"
	"hackportal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithField("service", "hackportal")
	cfg.LogSummary(log)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			log.WithError(err).Warn("Failed to initialize Sentry")
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection
	db, err := config.ConnectDB(cfg, log.WithField("component", "db"))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	storage := middleware.NewStorage(cfg.Redis)
	if redisStorage, ok := storage.(*middleware.RedisStorage); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStorage.Ping(ctx)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisStorage.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Welcome mail goes through a background worker when SMTP is configured
	var notifier services.Notifier
	workerDone := make(chan struct{})
	if mailer := utils.NewMailer(cfg.SMTP, log.WithField("component", "mailer")); mailer != nil {
		welcomeWorker := worker.NewWelcomeWorker(mailer, log.WithField("component", "welcome_worker"), 256)
		notifier = welcomeWorker
		go func() {
			welcomeWorker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	svc := services.New(db, services.AdminCredentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, notifier, log)

	if err := svc.Boards.SeedSponsors(ctx); err != nil {
		log.WithError(err).Warn("Failed to seed default sponsors")
	}

	app := routes.NewApp(routes.Deps{
		Config:   cfg,
		Log:      logger,
		Storage:  storage,
		Services: svc,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.WithField("port", cfg.ServerPort).Info("Server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}

	cancel()
	<-workerDone

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server stopped")
}
