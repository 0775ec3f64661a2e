package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pickup/gamehub/internal/config"
	"pickup/gamehub/internal/handler"
	"pickup/gamehub/internal/model"
	"pickup/gamehub/internal/repository"
	"pickup/gamehub/internal/service"
	jwtpkg "pickup/gamehub/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled (production uses cmd/migrate)
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		stateStore = repository.NewRedisStateStore(redisClient, cfg.Database.Redis.KeyPrefix)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize event publisher
	var publisher service.EventPublisher
	switch cfg.Events.Backend {
	case "amqp":
		publisher, err = service.NewAMQPEventPublisher(cfg.Events)
		if err != nil {
			logger.Fatal("failed to connect to amqp broker", zap.Error(err))
		}
		logger.Info("publishing game events to amqp", zap.String("exchange", cfg.Events.Exchange))
	case "log", "":
		publisher = service.NewLogEventPublisher(logger)
	default:
		logger.Fatal("unknown events backend", zap.String("backend", cfg.Events.Backend))
	}
	defer publisher.Close()

	mailer, err := service.NewMailSender(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("failed to init mail sender", zap.Error(err))
	}

	// 7. Initialize repositories
	userRepo := repository.NewPGUserRepository(db)
	identityRepo := repository.NewPGIdentityRepository(db)
	profileRepo := repository.NewPGProfileRepository(db)
	accountRepo := repository.NewPGAccountRepository(db)
	locationRepo := repository.NewPGLocationRepository(db)
	gameRepo := repository.NewPGGameRepository(db)
	attendeeRepo := repository.NewPGAttendeeRepository(db)

	// 8. Initialize JWT manager
	if cfg.JWT.SigningKey == "" {
		logger.Fatal("jwt.signing_key is required")
	}
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	// 9. Initialize services
	authService := service.NewAuthService(userRepo, identityRepo, profileRepo, accountRepo, stateStore, jwtManager)
	resetService := service.NewPasswordResetService(
		identityRepo, stateStore, mailer,
		cfg.PasswordReset.TokenTTL, cfg.PasswordReset.ResetURL, logger,
	)
	profileService := service.NewProfileService(profileRepo)
	directoryService := service.NewDirectoryService(gameRepo, locationRepo)
	participationService := service.NewParticipationService(
		gameRepo, locationRepo, attendeeRepo, accountRepo, publisher, logger,
	)

	// 10. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, resetService)
	gameHandler := handler.NewGameHandler(directoryService, participationService, cfg.Directory)
	locationHandler := handler.NewLocationHandler(directoryService)
	profileHandler := handler.NewProfileHandler(profileService, participationService)

	// 11. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, authHandler, gameHandler, locationHandler, profileHandler)

	// 12. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 13. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("server exited gracefully")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
