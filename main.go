package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/adapters"
	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/database"
	"github.com/meridianfp/advisor-engine/pkg/handlers"
	"github.com/meridianfp/advisor-engine/pkg/middleware"
	"github.com/meridianfp/advisor-engine/pkg/repositories"
	"github.com/meridianfp/advisor-engine/pkg/services"
	"github.com/meridianfp/advisor-engine/pkg/services/evaluators"
)

// Version is set at build time via ldflags
var Version = "dev"

// generationLockTTL bounds how long a crashed generation run can keep a
// user locked.
const generationLockTTL = 2 * time.Minute

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("modules_base_url", cfg.Modules.BaseURL),
		zap.Bool("redis_enabled", cfg.Redis.Host != ""))

	ctx := context.Background()

	// Migrations run through database/sql (required by golang-migrate);
	// the service itself uses the pgx pool.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	var locker services.UserLocker
	if redisClient != nil {
		locker = services.NewRedisLocker(redisClient, generationLockTTL)
	} else {
		logger.Warn("Redis not configured, using in-process generation locks (single instance only)")
		locker = services.NewLocalLocker()
	}

	// Repositories
	recRepo := repositories.NewRecommendationRepository(db)
	actionRepo := repositories.NewUserActionRepository(db)

	// Module adapters: remote financial modules over HTTP, behavior
	// stats derived locally from the action log.
	moduleTimeout := time.Duration(cfg.Modules.TimeoutSeconds) * time.Second
	httpClient := adapters.NewHTTPClient(cfg.Modules.BaseURL, moduleTimeout, cfg.Modules.MaxRetries, logger)
	modules := adapters.NewModules(httpClient)
	modules.Behavior = services.NewStoreBehaviorAdapter(actionRepo)

	// Pipeline
	builder := services.NewContextBuilder(modules, moduleTimeout, logger)
	registry := evaluators.NewRegistry(cfg.Policy)
	scorer := services.NewScorer(cfg.Policy)
	resolver := services.NewResolver(cfg.Policy)
	ranker := services.NewRanker(cfg.Policy)
	explainer := services.NewExplainer(logger)

	recService := services.NewRecommendationService(
		builder, registry, scorer, resolver, ranker, explainer,
		locker, recRepo, actionRepo, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, db, logger)
	healthHandler.RegisterRoutes(mux)

	recHandler := handlers.NewRecommendationsHandler(recService, logger)
	recHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting advisor-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
