package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reconcileapp "github.com/junta/backend/internal/application/reconcile"
	scoringapp "github.com/junta/backend/internal/application/scoring"
	"github.com/junta/backend/internal/infrastructure/auth"
	"github.com/junta/backend/internal/infrastructure/config"
	"github.com/junta/backend/internal/infrastructure/event"
	"github.com/junta/backend/internal/infrastructure/logger"
	"github.com/junta/backend/internal/infrastructure/persistence"
	"github.com/junta/backend/internal/infrastructure/progress"
	"github.com/junta/backend/internal/interfaces/http/handler"
	"github.com/junta/backend/internal/interfaces/http/middleware"
	"github.com/junta/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Junta backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	applicantRepo := persistence.NewGormApplicantRepository(db.DB)
	inscriptionRepo := persistence.NewGormInscriptionRepository(db.DB)
	selectionRepo := persistence.NewGormSelectionRepository(db.DB)
	recordRepo := persistence.NewGormEvaluationRecordRepository(db.DB)
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)

	// Progress store: Redis when reachable, in-memory otherwise. The
	// in-memory fallback only serves single-instance deployments.
	var progressStore progress.Store
	redisStore, err := progress.NewRedisStore(cfg.Redis, time.Hour)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory progress store", zap.Error(err))
		progressStore = progress.NewMemoryStore(time.Hour)
	} else {
		progressStore = redisStore
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis progress store connected")
	}

	// Initialize event bus and the audit handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(scoringapp.NewEvaluationAuditHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	gridService := scoringapp.NewGridService(selectionRepo, recordRepo, eventBus)
	importService := reconcileapp.NewImportService(
		applicantRepo,
		inscriptionRepo,
		selectionRepo,
		recordRepo,
		historyRepo,
		progressStore,
		eventBus,
		cfg.Import,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, security headers, CORS, body limit, JWT auth
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		Logger: log,
	}
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Initialize HTTP handlers
	systemHandler := handler.NewSystemHandler(db)
	gridHandler := handler.NewGridHandler(gridService)
	importHandler := handler.NewImportHandler(importService, historyRepo, progressStore, cfg.HTTP.MaxBodySize)
	registryHandler := handler.NewRegistryHandler(applicantRepo, inscriptionRepo)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(gridHandler).
		Register(importHandler).
		Register(registryHandler)
	r.Setup()

	// Liveness endpoint outside API versioning, for load balancers
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
