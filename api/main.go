package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "github.com/rogerio-castellano/stocktrack/docs"
	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/config"
	"github.com/rogerio-castellano/stocktrack/internal/db"
	apihttp "github.com/rogerio-castellano/stocktrack/internal/http"
	"github.com/rogerio-castellano/stocktrack/internal/http/handlers"
	rl "github.com/rogerio-castellano/stocktrack/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/logger"
	"github.com/rogerio-castellano/stocktrack/internal/notify"
	"github.com/rogerio-castellano/stocktrack/internal/redissvc"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/rogerio-castellano/stocktrack/internal/report"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title StockTrack API
// @version 1.0
// @description REST API for products, stock movements, alerts, users and reports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	appLogger, err := logger.New(logger.Config{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repo.Store
	switch cfg.Database.Storage {
	case config.StoragePostgres:
		database, err := db.Connect(db.Options{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			appLogger.Fatal("could not connect to database", zap.Error(err))
		}
		defer database.Close()
		if err := db.Migrate(ctx, database); err != nil {
			appLogger.Fatal("could not apply migrations", zap.Error(err))
		}
		store = repo.NewPostgresStore(database)
		appLogger.Info("connected to PostgreSQL")
	default:
		store = repo.NewMemoryStore()
		appLogger.Warn("using in-memory storage, data is lost on restart")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		redisService, err := redissvc.Connect(ctx, redissvc.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("could not connect to Redis", zap.Error(err))
		}
		defer redisService.Close()
		rdb = redisService.Rdb()
		appLogger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	notifier := notify.New(notify.SMTPConfig{
		Server:       cfg.SMTP.Server,
		Port:         cfg.SMTP.Port,
		User:         cfg.SMTP.User,
		Password:     cfg.SMTP.Password,
		From:         cfg.SMTP.From,
		To:           cfg.SMTP.To,
		AuthDisabled: cfg.SMTP.AuthDisabled,
	}, rdb, appLogger)
	defer notifier.Wait()

	settingsSvc := settings.NewService(store, appLogger)
	if added, err := settingsSvc.SeedDefaults(ctx); err != nil {
		appLogger.Fatal("could not seed settings", zap.Error(err))
	} else if added > 0 {
		appLogger.Info("default settings created", zap.Int("count", added))
	}

	authOpts := []auth.Option{auth.WithNotifier(notifier)}
	if rdb != nil {
		authOpts = append(authOpts, auth.WithCache(auth.NewRedisSessionCache(rdb)))
	}
	authSvc := auth.NewService(store, auth.NewTokens(cfg.JWT.Secret), appLogger, authOpts...)
	if created, err := authSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		appLogger.Fatal("could not create administrator", zap.Error(err))
	} else if created {
		appLogger.Info("administrator account created", zap.String("email", cfg.Admin.Email))
	}

	inventorySvc := inventory.NewService(store, settingsSvc, notifier, appLogger)
	reportSvc := report.NewService(store, settingsSvc, appLogger)

	go authSvc.StartSessionCleaner(ctx, cfg.Sessions.CleanupInterval)
	go notifier.StartDailySummary(ctx)

	limiter := rl.New(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, cfg.RateLimit.Idle)
	limiter.StartCleanupLoop(ctx, cfg.RateLimit.CleanupInterval)

	h := handlers.NewHandler(handlers.Services{
		Inventory: inventorySvc,
		Auth:      authSvc,
		Reports:   reportSvc,
		Settings:  settingsSvc,
	}, appLogger, handlers.WithSecureCookies(cfg.Server.SecureCookies))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: apihttp.NewRouter(h, apihttp.RouterConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AuthLimiter:    limiter,
			Logger:         appLogger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server running", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
