package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"groundwater-backend/internal/catalog"
	"groundwater-backend/internal/chat"
	"groundwater-backend/internal/interpreter"
	"groundwater-backend/internal/regions"
	"groundwater-backend/internal/services/health"
	"groundwater-backend/internal/shared/config"
	"groundwater-backend/internal/shared/metrics"
	"groundwater-backend/internal/shared/server"
	"groundwater-backend/internal/shared/server/middleware"
	"groundwater-backend/internal/shared/storage/db"
	"groundwater-backend/internal/shared/storage/object"
	localstore "groundwater-backend/internal/shared/storage/object/local"
	s3store "groundwater-backend/internal/shared/storage/object/s3"
	"groundwater-backend/internal/shared/telemetry"
	"groundwater-backend/internal/users"
)

// Version is stamped at build time with -ldflags "-X groundwater-backend/internal/bootstrap.Version=...".
var Version = "dev"

const historyPerUser = 100

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Catalog     *catalog.Catalog
	Interpreter *interpreter.Interpreter
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry

	UsersRepo    users.Repo
	UsersService *users.Service
	QueryLog     chat.QueryLog
}

// Options let callers replace process-wide pieces, mostly for tests.
type Options struct {
	Clock clockwork.Clock
	// Store overrides the object store chosen by CATALOG_SOURCE.
	Store object.Store
}

// Build wires the catalog, interpreter, persistence and HTTP router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(context.Background(), cfg, Options{})
}

func BuildWithOptions(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	telemetry.SetLevel(cfg.LogLevel)

	cat, err := loadCatalog(ctx, cfg, opts.Store)
	if err != nil {
		return nil, err
	}
	interp, err := interpreter.New(cat, interpreter.WithClock(opts.Clock))
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetCatalogRegions(cat.Len())

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Catalog:     cat,
		Interpreter: interp,
		Metrics:     m,
		Registry:    reg,
	}
	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.QueryLog = &chat.PGLog{DB: sqlDB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.QueryLog = chat.NewMemoryLog(historyPerUser)
	}
	app.UsersService = users.NewService(app.UsersRepo)
	if cfg.SeedDemoUsers {
		if err := app.UsersService.SeedDemoUsers(ctx); err != nil {
			return nil, err
		}
	}

	healthSvc := health.NewService(opts.Clock)
	healthSvc.Version = Version
	healthSvc.Env = cfg.Env
	healthSvc.Regions = cat.Len()
	if sqlDB != nil {
		healthSvc.DB = sqlDB
	}
	if db.IsLambdaRuntime() {
		healthSvc.Platform = "aws-lambda"
	}

	chatHandler := chat.NewHandler(interp, app.QueryLog, m, cfg.MaxMessageLength)
	chatHandler.Clock = opts.Clock

	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Metrics: m,
		Limiter: middleware.NewRateLimiter(opts.Clock),
		Health:  health.NewHandler(healthSvc),
		Regions: regions.NewHandler(cat),
		Chat:    chatHandler,
		Users:   users.NewHandler(app.UsersService, m),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":             cfg.Env,
		"version":         Version,
		"catalog_source":  cfg.CatalogSource,
		"catalog_regions": cat.Len(),
		"database":        sqlDB != nil,
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func loadCatalog(ctx context.Context, cfg config.Config, store object.Store) (*catalog.Catalog, error) {
	if store == nil && cfg.CatalogSource != config.CatalogEmbedded {
		var err error
		store, err = BuildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}
	if store == nil {
		return catalog.Default()
	}
	cat, err := catalog.LoadFromStore(ctx, store, cfg.CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", cfg.CatalogSource, err)
	}
	return cat, nil
}

// BuildStore returns the object store selected by CATALOG_SOURCE. The embedded
// source has no store.
func BuildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.CatalogSource {
	case config.CatalogS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("CATALOG_SOURCE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case config.CatalogLocal:
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.DefaultOptions())
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions())
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
