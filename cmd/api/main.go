package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/taskapi/docs" // Swagger docs
	"github.com/redmonkez12/taskapi/internal/auth"
	"github.com/redmonkez12/taskapi/internal/config"
	"github.com/redmonkez12/taskapi/internal/database"
	httpServer "github.com/redmonkez12/taskapi/internal/http"
	"github.com/redmonkez12/taskapi/internal/logging"
	"github.com/redmonkez12/taskapi/internal/ratelimit"
	"github.com/redmonkez12/taskapi/internal/task"
	"github.com/redmonkez12/taskapi/internal/user"
)

// @title           Task API
// @version         1.0
// @description     Task management API with token authentication.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskapi",
		Short:         "Task management REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return run()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	if cfg.Server.IsTest() {
		logger = logging.Discard()
	}
	return cfg, logger, nil
}

func migrate(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	db, driver, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db.DB, driver)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database migrated", "driver", driver, "applied", applied)
	return nil
}

func run() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"app_path", cfg.Server.AppPath,
		"token_format", cfg.Auth.TokenFormat,
	)

	ctx := context.Background()

	// Initialize database connection
	db, driver, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db.DB, driver)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database migrated", "driver", driver, "applied", applied)
	}

	// Initialize rate limiter
	limiter, closeLimiter, err := initLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLimiter()

	// Initialize token service
	tokenService, err := auth.NewTokenService(cfg.Auth.TokenFormat, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize repositories and services
	userRepo := user.NewRepository(db)
	taskRepo := task.NewRepository(db)

	authService := auth.NewService(
		userRepo,
		auth.NewArgon2Hasher(auth.DefaultArgon2Params),
		tokenService,
		logger,
	)
	taskService := task.NewService(taskRepo)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:  auth.NewHandler(authService),
		Tasks: task.NewHandler(taskService),
	}
	authMiddleware := auth.NewMiddleware(tokenService)

	docs.SwaggerInfo.BasePath = cfg.Server.AppPath

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, limiter, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initLimiter uses Redis when REDIS_URL is set and an in-process limiter otherwise.
func initLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) (ratelimit.Limiter, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Info("rate limiter using process memory")
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("rate limiter using redis", "addr", opts.Addr)
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit.Max, cfg.RateLimit.Window), func() { client.Close() }, nil
}
