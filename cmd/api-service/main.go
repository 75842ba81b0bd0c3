package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/auth"
	"github.com/cuongbtq/jobboard-be/internal/api/events"
	"github.com/cuongbtq/jobboard-be/internal/api/handler"
	"github.com/cuongbtq/jobboard-be/internal/api/router"
	"github.com/cuongbtq/jobboard-be/internal/api/service"
	"github.com/cuongbtq/jobboard-be/internal/api/storage"
	"github.com/cuongbtq/jobboard-be/internal/config"
	"github.com/cuongbtq/jobboard-be/shared/logger"
	"github.com/cuongbtq/jobboard-be/shared/mongodb"
	"github.com/cuongbtq/jobboard-be/shared/postgresql"
	"github.com/cuongbtq/jobboard-be/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("auth_enabled", cfg.Auth.Enabled),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	store, err := initStore(startupCtx, &cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	appLogger.Info("Store initialized")

	var rabbitClient *rabbitmq.Client
	var publisher service.EventPublisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled {
		rabbitClient, err = initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
		if err != nil {
			store.Close(startupCtx)
			return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		publisher = events.NewRabbitPublisher(rabbitClient, appLogger.Logger)
		appLogger.Info("RabbitMQ connection established")
	}

	deps := &handler.Dependencies{
		Logger:      appLogger.Logger,
		ServiceName: cfg.App.Name,
		Store:       store,
		Jobs:        service.NewJobService(store, publisher, appLogger.Logger),
		AuthEnabled: cfg.Auth.Enabled,
	}
	if cfg.Auth.Enabled {
		deps.Users = service.NewUserService(store, initTokenService(&cfg.Auth), cfg.Auth.BcryptCost, appLogger.Logger)
	}

	r := initRouter(cfg.App.Environment, deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		appLogger.Error("Server failed", slog.Any("error", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	// Cleanup function to close all resources
	cleanup := func() {
		defer cancel()
		if err := store.Close(ctx); err != nil {
			appLogger.Error("Failed to close store", slog.Any("error", err))
		}
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initStore connects the backend selected by database.driver
func initStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return storage.NewMemoryStore(), nil

	case config.DriverPostgres:
		client, err := postgresql.NewClient(&postgresql.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			Database:        cfg.Postgres.Database,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
		}, logger)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewPostgresStore(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		return store, nil

	default:
		client, err := mongodb.NewClient(&mongodb.Config{
			URI:            cfg.MongoDB.URI,
			Database:       cfg.MongoDB.Database,
			ConnectTimeout: cfg.MongoDB.ConnectTimeout,
			MaxPoolSize:    cfg.MongoDB.MaxPoolSize,
		}, logger)
		if err != nil {
			return nil, err
		}
		store, err := storage.NewMongoStore(ctx, client, logger)
		if err != nil {
			client.Close(ctx)
			return nil, err
		}
		return store, nil
	}
}

// initTokenService builds the key store from the active and retired keys
func initTokenService(cfg *config.AuthConfig) *auth.TokenService {
	keys := auth.NewKeyStore(cfg.KeyID, []byte(cfg.Secret))
	for _, k := range cfg.PreviousKeys {
		keys.Add(k.ID, []byte(k.Secret))
	}

	return auth.NewTokenService(keys, auth.TokenConfig{
		Issuer: cfg.Issuer,
		TTL:    cfg.TokenTTL,
	}, nil)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, deps *handler.Dependencies) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps)
}
