package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appControllers "github.com/disa/mapa/internal/app/controllers"
	appMigrations "github.com/disa/mapa/internal/app/migrations"
	"github.com/disa/mapa/internal/app/models"
	appRepos "github.com/disa/mapa/internal/app/repositories"
	appRoutes "github.com/disa/mapa/internal/app/routes"
	appServices "github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/config"
	"github.com/disa/mapa/internal/db"
	appMiddleware "github.com/disa/mapa/internal/middleware"
	pkgAuth "github.com/disa/mapa/internal/pkg/auth"
	"github.com/disa/mapa/internal/pkg/cache"
	"github.com/disa/mapa/internal/pkg/helpers"
	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/disa/mapa/internal/pkg/websocket"
	"github.com/disa/mapa/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories
	Cache cache.Cache
	Hub   *websocket.Hub

	InstitutionService appServices.InstitutionService
	PersonnelService   appServices.PersonnelService
	LookupService      appServices.LookupService
	MapService         appServices.MapService
	StatsService       appServices.StatsService
	AuthService        appServices.AuthService

	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the pool without touching the schema.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// Migrate applies every pending migration of the configured directory.
func Migrate(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	dir := cfg.Database.MigrationsDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		lgr.Error().Str("path", dir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	lgr.Info().Str("path", dir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, dir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and seeds the default reference data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	database, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}

	// A failed seed leaves the lookup tables editable by hand, so startup continues
	if err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupCache connects to Redis when enabled and falls back to the no-op cache otherwise.
func SetupCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		lgr.Info().Msg("Cache disabled")
		return cache.Noop{}
	}

	c, err := cache.New(ctx, cache.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      helpers.ParseDuration(cfg.Cache.TTL, 5*time.Minute),
	})
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Cache.Addr).Msg("Cache unreachable, continuing without it")
		return cache.Noop{}
	}
	lgr.Info().Str("addr", cfg.Cache.Addr).Msg("Cache connected")
	return c
}

// BuildServices wires repositories and services. The HTTP layer is left out so the CLI
// commands can reuse it.
func BuildServices(cfg *config.Config, pool *pgxpool.Pool, c cache.Cache, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr, Cache: c}

	deps.Repos = appRepos.NewRepositories(pool)
	deps.Hub = websocket.NewHub(logger.Component("events"))

	deps.InstitutionService = appServices.NewInstitutionService(deps.Repos.InstitutionRepository, c, deps.Hub)
	deps.PersonnelService = appServices.NewPersonnelService(appServices.PersonnelDeps{
		Personnel:    deps.Repos.PersonnelRepository,
		Institutions: deps.Repos.InstitutionRepository,
		Specialties:  deps.Repos.SpecialtyRepository,
		Cache:        c,
		Events:       deps.Hub,
		Lock:         appRepos.NewImportLock(pool),
	})
	deps.LookupService = appServices.NewLookupService(c, deps.Hub,
		deps.Repos.PersonnelTypeRepository,
		deps.Repos.SpecialtyRepository,
	)
	deps.MapService = appServices.NewMapService(deps.InstitutionService, deps.PersonnelService)
	deps.StatsService = appServices.NewStatsService(deps.PersonnelService)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.Auth.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.Auth.TokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.Auth.Issuer,
	})
	deps.AuthService = appServices.NewAuthService(cfg.Auth.Operators, deps.JWTService)

	return deps
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, c cache.Cache, lgr zerolog.Logger) *Dependencies {
	deps := BuildServices(cfg, database.Pool, c, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:        appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Institution: appControllers.NewInstitutionController(deps.InstitutionService),
		Personnel: appControllers.NewPersonnelController(
			deps.PersonnelService,
			cfg.Import.MaxUploadBytes,
			logger.Component("import"),
		),
		PersonnelType: appControllers.NewLookupController(deps.LookupService, models.LookupPersonnelType, "personnel type"),
		Specialty:     appControllers.NewLookupController(deps.LookupService, models.LookupSpecialty, "specialty"),
		Dashboard:     appControllers.NewDashboardController(deps.LookupService, deps.MapService, deps.StatsService),
		Events:        websocket.NewHandler(deps.Hub, cfg.AllowedOrigins(), logger.Component("events")),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes, wrapped in the CORS handler.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) (http.Handler, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	health := func(c *gin.Context) error {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		return database.Pool.Ping(ctx)
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, health)
	appRoutes.SetupSwagger(router)

	origins := cfg.AllowedOrigins()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", appMiddleware.RequestIDKey},
		ExposedHeaders:   []string{appMiddleware.RequestIDKey},
		AllowCredentials: !containsWildcard(origins),
	})

	return corsHandler.Handler(router), nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
