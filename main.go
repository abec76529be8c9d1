package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stokeshomestead/farmops/pkg/auth"
	"github.com/stokeshomestead/farmops/pkg/config"
	"github.com/stokeshomestead/farmops/pkg/database"
	"github.com/stokeshomestead/farmops/pkg/engine"
	"github.com/stokeshomestead/farmops/pkg/handlers"
	"github.com/stokeshomestead/farmops/pkg/logging"
	"github.com/stokeshomestead/farmops/pkg/middleware"
	"github.com/stokeshomestead/farmops/pkg/repositories"
	"github.com/stokeshomestead/farmops/pkg/services"
	"github.com/stokeshomestead/farmops/pkg/twilio"
	"github.com/stokeshomestead/farmops/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("farm", cfg.FarmName),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Int("authorized_numbers", len(cfg.Twilio.AuthorizedNumbers)))
	if cfg.Twilio.AuthToken == "" {
		logger.Warn("TWILIO_AUTH_TOKEN not set, webhook signature validation disabled")
	}

	ctx := context.Background()

	// Migrations run over database/sql; the app itself uses a pgx pool.
	migDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(migDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	eng, err := engine.New()
	if err != nil {
		logger.Fatal("Failed to load command rules", zap.Error(err))
	}

	cattleRepo := repositories.NewCattleRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	statsService := services.NewStatsService(cattleRepo, saleRepo, eventRepo, logger)
	commandService := services.NewCommandService(cattleRepo, eventRepo, saleRepo, locationRepo, statsService, logger)

	validator := twilio.NewValidator(cfg.Twilio.AuthToken, cfg.Twilio.PublicURL)
	senders := auth.NewSenderAllowList(cfg.Twilio.AuthorizedNumbers)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSMSHandler(eng, commandService, messageRepo, validator, senders, logger).RegisterRoutes(mux)
	handlers.NewVoiceHandler(eng, commandService, messageRepo, validator, senders, logger).RegisterRoutes(mux)
	handlers.NewAPIHandler(statsService, cattleRepo, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Serve the dashboard
	dist, err := fs.Sub(ui.DistFS(), "dist")
	if err != nil {
		logger.Fatal("Failed to load dashboard assets", zap.Error(err))
	}
	mux.Handle("/", http.FileServerFS(dist))

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting farmops",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
