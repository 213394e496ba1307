package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/barisuyucak/nobetpazari/internal/infra/config"
	appRedis "github.com/barisuyucak/nobetpazari/internal/infra/redis"
	"github.com/barisuyucak/nobetpazari/internal/transport/http/handlers"
	"github.com/barisuyucak/nobetpazari/internal/transport/http/middleware"
	"github.com/barisuyucak/nobetpazari/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Registration  *usecase.RegistrationService
	Profiles      *usecase.ProfileService
	PasswordReset *usecase.PasswordResetService
	Shifts        *usecase.ShiftService
	Purchases     *usecase.PurchaseService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Pool     *pgxpool.Pool
	Redis    *appRedis.Client
	Metrics  *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	healthHandler := handlers.NewHealthHandler(deps.Pool, deps.Redis)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		isDev := deps.Config.App.Env == "development"
		dispatcher := handlers.NewLoggingNotificationDispatcher(deps.Logger)

		authGroup := api.Group("/auth")
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, int(deps.Config.JWT.AccessTokenTTL.Seconds()))
		authHandler.RegisterRoutes(authGroup)

		protectedAuth := authGroup.Group("")
		protectedAuth.Use(authMiddleware)
		authHandler.RegisterProtectedRoutes(protectedAuth)

		userGroup := api.Group("/user")
		registrationHandler := handlers.NewRegistrationHandler(
			deps.Services.Registration,
			deps.Services.Profiles,
			dispatcher,
			deps.Logger,
			isDev,
		)
		registrationHandler.RegisterRoutes(userGroup)

		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, dispatcher, deps.Logger, isDev)
		passwordHandler.RegisterRoutes(userGroup)

		profileHandler := handlers.NewProfileHandler(deps.Services.Profiles)
		profileGroup := userGroup.Group("")
		profileGroup.Use(authMiddleware)
		profileHandler.RegisterRoutes(profileGroup)

		marketGroup := api.Group("")
		marketGroup.Use(authMiddleware)
		shiftHandler := handlers.NewShiftHandler(deps.Services.Shifts, deps.Services.Purchases)
		shiftHandler.RegisterRoutes(marketGroup)
	}

	return r
}
