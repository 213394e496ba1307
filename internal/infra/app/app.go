package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/core/port"
	"github.com/barisuyucak/nobetpazari/internal/infra/config"
	"github.com/barisuyucak/nobetpazari/internal/infra/database"
	kafkainfra "github.com/barisuyucak/nobetpazari/internal/infra/kafka"
	"github.com/barisuyucak/nobetpazari/internal/infra/logger"
	redisinfra "github.com/barisuyucak/nobetpazari/internal/infra/redis"
	"github.com/barisuyucak/nobetpazari/internal/infra/roster"
	"github.com/barisuyucak/nobetpazari/internal/infra/security"
	"github.com/barisuyucak/nobetpazari/internal/infra/telemetry"
	postgresrepo "github.com/barisuyucak/nobetpazari/internal/repository/postgres"
	redisrepo "github.com/barisuyucak/nobetpazari/internal/repository/redis"
	"github.com/barisuyucak/nobetpazari/internal/transport/http/middleware"
	"github.com/barisuyucak/nobetpazari/internal/transport/http/routes"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// Application owns the composed service graph and its lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

// New composes the application from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	if cfg.Postgres.Migrate {
		if err := database.RunMigrations(ctx, cfg.Postgres); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	keyProvider, err := security.NewKeyProvider(cfg.JWT.KeyID, cfg.JWT.KeyFile)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init key provider: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)
	sessionStore := redisrepo.NewSessionStore(redisClient.Client(), cfg.Redis.SessionPrefix)

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	passwordPolicy := security.NewPasswordPolicy()
	eligibility := roster.NewFormatChecker()

	registrationService := usecase.NewRegistrationService(
		repos.Users,
		repos.Tokens,
		eligibility,
		passwordPolicy,
		eventPublisher,
		log,
	).WithCodeSettings(cfg.Verification.CodeLength, cfg.Verification.CodeTTL)

	authService := usecase.NewAuthService(repos.Users, sessionStore, keyProvider, cfg.App.Name, cfg.JWT.AccessTokenTTL)
	profileService := usecase.NewProfileService(repos.Profiles, repos.Users, repos.Tokens, log)
	passwordResetService := usecase.NewPasswordResetService(repos.Users, repos.Tokens, passwordPolicy, cfg.Verification.ResetTTL)
	marketTZ, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn("invalid app timezone, using UTC", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
		marketTZ = time.UTC
	}

	shiftService := usecase.NewShiftService(repos.Shifts, eventPublisher, log).WithLocation(marketTZ)
	purchaseService := usecase.NewPurchaseService(repos.Shifts, eventPublisher, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		log.Warn("failed to init http metrics", zap.Error(err))
	}

	engine := routes.Register(routes.Dependencies{
		Config:  cfg,
		Logger:  log,
		Pool:    pool,
		Redis:   redisClient,
		Metrics: metrics,
		Services: routes.ServiceSet{
			Auth:          authService,
			Registration:  registrationService,
			Profiles:      profileService,
			PasswordReset: passwordResetService,
			Shifts:        shiftService,
			Purchases:     purchaseService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracer.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
