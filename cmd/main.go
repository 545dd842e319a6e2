package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artmarket/internal/config"
	"artmarket/internal/infrastructure/database/postgres"
	"artmarket/internal/infrastructure/mail"
	"artmarket/internal/infrastructure/notification"
	"artmarket/internal/logger"
	"artmarket/internal/routes"
	"artmarket/pkg/mqtt"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	publisher, mqttClient := newPublisher(cfg)
	if mqttClient != nil {
		defer mqttClient.Disconnect()
	}

	// Background work (reset cleanup, rate limiter sweepers) stops with this context
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	services := routes.NewServices(cfg, db, mail.NewSender(cfg.SMTP), publisher)
	router := routes.SetupRoutes(bgCtx, cfg, db, services)

	go services.Users.StartResetCleanupJob(bgCtx, cfg.Reset.CleanupInterval(), cfg.Reset.CleanupGrace())

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start goroutine
	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	bgCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

// newPublisher connects to the MQTT broker when one is configured. Without a
// broker, or when the broker is unreachable at start-up, events are only logged.
func newPublisher(cfg *config.Config) (notification.Publisher, *mqtt.Client) {
	if !cfg.MQTT.Enabled() {
		logger.Info("MQTT broker not configured, domain events will only be logged")
		return notification.NopPublisher{}, nil
	}

	mqttConfig := mqtt.DefaultConfig(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	mqttConfig.Username = cfg.MQTT.Username
	mqttConfig.Password = cfg.MQTT.Password

	client := mqtt.NewClient(mqttConfig)
	if err := client.Connect(); err != nil {
		logger.Warn("MQTT broker unreachable, domain events will only be logged", zap.Error(err))
		return notification.NopPublisher{}, nil
	}

	return notification.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS), client
}
