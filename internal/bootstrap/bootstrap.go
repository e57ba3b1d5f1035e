package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/unisphere-courses/internal/app/controllers"
	"github.com/yigit/unisphere-courses/internal/app/discussion"
	appMigrations "github.com/yigit/unisphere-courses/internal/app/migrations"
	appRepos "github.com/yigit/unisphere-courses/internal/app/repositories"
	appRoutes "github.com/yigit/unisphere-courses/internal/app/routes"
	appServices "github.com/yigit/unisphere-courses/internal/app/services"
	"github.com/yigit/unisphere-courses/internal/config"
	"github.com/yigit/unisphere-courses/internal/db"
	appMiddleware "github.com/yigit/unisphere-courses/internal/middleware"
	pkgAuth "github.com/yigit/unisphere-courses/internal/pkg/auth"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
	"github.com/yigit/unisphere-courses/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos            *appRepos.Repositories
	Services         *appServices.Services
	CourseController *appControllers.CourseController
	SystemController *appControllers.SystemController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	JWTService       *pkgAuth.JWTService
	Notifier         discussion.Notifier
	Propagator       *discussion.Propagator // nil when the discussion service is not configured
	Registry         *prometheus.Registry
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "courses",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds sample data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Courses.SeedSampleData {
		if err := seed.CreateSampleCourses(ctx, appRepos.NewCourseRepository(dbPool), lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create sample courses, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupRedis connects the listing cache. It returns a nil client when no address is configured.
func SetupRedis(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis address not set, course listing cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.CacheTTL()).Msg("Course listing cache enabled")
	return rdb, nil
}

// NewNotifier builds the discussion propagator, or a no-op notifier when no base URL is configured.
func NewNotifier(cfg *config.Config, metrics *discussion.Metrics, lgr zerolog.Logger) (discussion.Notifier, *discussion.Propagator) {
	if cfg.Discussion.BaseURL == "" {
		lgr.Warn().Msg("Discussion service base URL not set, course changes will not be mirrored")
		return discussion.NoopNotifier{}, nil
	}

	client := discussion.NewClient(cfg.Discussion.BaseURL, nil, lgr)
	propagator := discussion.NewPropagator(client, discussion.Config{
		Timeout:   cfg.DiscussionTimeout(),
		Workers:   cfg.Discussion.Workers,
		QueueSize: cfg.Discussion.QueueSize,
	}, lgr, metrics)

	lgr.Info().Str("baseURL", cfg.Discussion.BaseURL).Dur("timeout", cfg.DiscussionTimeout()).Msg("Discussion propagation enabled")
	return propagator, propagator
}

// BuildDependencies initializes application repositories, services, and controllers.
// dbPool and rdb may be nil in tests; readiness checks are registered only for non-nil clients.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := discussion.NewMetrics(deps.Registry)

	deps.Repos = appRepos.NewRepositories(dbPool, rdb, cfg.CacheTTL())
	deps.Notifier, deps.Propagator = NewNotifier(cfg, metrics, lgr)
	deps.Services = appServices.NewServices(deps.Repos, deps.Notifier, cfg.CourseIDPolicy())

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	checks := map[string]appControllers.Pinger{}
	if dbPool != nil {
		checks["database"] = dbPool
	}
	if rdb != nil {
		checks["redis"] = appControllers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	deps.CourseController = appControllers.NewCourseController(deps.Services.CourseService)
	deps.SystemController = appControllers.NewSystemController(checks)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	appRoutes.SetupCORS(router, cfg.Server.AllowedOrigins)
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.SystemController,
		deps.AuthMiddleware,
		promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
	)

	return router
}
