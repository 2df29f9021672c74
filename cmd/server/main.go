package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/creatorhub/backend/internal/application/audit"
	identityapp "github.com/creatorhub/backend/internal/application/identity"
	ledgerapp "github.com/creatorhub/backend/internal/application/ledger"
	settingsapp "github.com/creatorhub/backend/internal/application/settings"
	submissionapp "github.com/creatorhub/backend/internal/application/submission"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/infrastructure/auth"
	"github.com/creatorhub/backend/internal/infrastructure/config"
	identityinfra "github.com/creatorhub/backend/internal/infrastructure/identity"
	"github.com/creatorhub/backend/internal/infrastructure/logger"
	"github.com/creatorhub/backend/internal/infrastructure/persistence"
	"github.com/creatorhub/backend/internal/infrastructure/storage"
	"github.com/creatorhub/backend/internal/infrastructure/telemetry"
	"github.com/creatorhub/backend/internal/interfaces/http/handler"
	"github.com/creatorhub/backend/internal/interfaces/http/middleware"
	"github.com/creatorhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			CreatorHub Backend API
//	@version		1.0
//	@description	Content submission and moderation platform backend

//	@contact.name	API Support
//	@contact.url	https://github.com/creatorhub/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting CreatorHub Backend",
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

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Register database tracing callbacks
	dbTracingConfig := telemetry.DefaultDBTracingConfig()
	dbTracingConfig.Enabled = cfg.Telemetry.DBTraceEnabled
	dbTracing := telemetry.NewDBTracingPlugin(dbTracingConfig, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Token blacklist: Redis when configured, in-memory fallback for
	// single-instance deployments
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for token blacklist", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// JWT and external identity provider
	jwtService := auth.NewJWTService(cfg.JWT)
	providerClient := identityinfra.NewHTTPProviderClient(cfg.OAuth, log)

	// Object storage for submission files
	var objectStorage submissionapp.ObjectStorage
	if cfg.Storage.Mode == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage backed by S3", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("Using stub object storage, uploads are not persisted")
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	adminLogRepo := persistence.NewGormAdminLogRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	policy := identity.NewAccessPolicy()
	auditService := auditapp.NewAuditService(adminLogRepo, userRepo, policy, log)
	identityService := identityapp.NewIdentityService(
		userRepo, providerClient, jwtService, blacklist, cfg.OAuth.AdminExternalIDs, log)
	userService := identityapp.NewUserService(userRepo, policy, auditService, log)
	ledgerService := ledgerapp.NewLedgerService(userRepo, payoutRepo, txScope, policy, auditService, log)
	settingsService := settingsapp.NewSettingsService(settingRepo, userRepo, policy, auditService, log)

	// Submission limits come from stored settings, with defaults for a fresh
	// database
	limits, err := settingsService.LoadLimits(context.Background())
	if err != nil {
		log.Fatal("Failed to load submission limits", zap.Error(err))
	}
	log.Info("Submission limits loaded",
		zap.Int64("max_file_size_bytes", limits.MaxFileSizeBytes),
		zap.String("bonus_cap", limits.BonusCap.String()),
	)

	submissionService := submissionapp.NewSubmissionService(
		submissionRepo, userRepo, objectStorage, txScope, policy, auditService, limits, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(identityService, userService)
	userHandler := handler.NewUserHandler(userService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	auditHandler := handler.NewAuditHandler(auditService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing - OpenTelemetry spans (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit. Submission uploads exceed the default JSON body cap, so
	// the multipart limit is enforced separately in the submission service.
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxUploadSize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Request tracing (if enabled)
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Public endpoints (OAuth login flow, health, ping) are skipped.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/authorize-url",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth routes (OAuth code flow, session management)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.GET("/authorize-url", authHandler.GetAuthorizeURL)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)

	// Submission routes. Review endpoints require staff role.
	submissionRoutes := router.NewDomainGroup("submissions", "/submissions")
	submissionRoutes.POST("", submissionHandler.Create)
	submissionRoutes.GET("", submissionHandler.List)
	submissionRoutes.POST("/bulk-review", middleware.RequireStaff(), submissionHandler.BulkReview)
	submissionRoutes.GET("/:id", submissionHandler.Get)
	submissionRoutes.DELETE("/:id", submissionHandler.Delete)
	submissionRoutes.POST("/:id/review", middleware.RequireStaff(), submissionHandler.Review)

	// User routes. Listing and updates are staff operations; Get allows
	// self-reads and is enforced in the service.
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("", middleware.RequireStaff(), userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", middleware.RequireStaff(), userHandler.Update)

	// Ledger routes (balance and payout history)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/payouts", middleware.RequireStaff(), ledgerHandler.Credit)
	ledgerRoutes.GET("/payouts", ledgerHandler.ListPayouts)
	ledgerRoutes.GET("/balance", ledgerHandler.GetBalance)

	// Admin routes (runtime settings, audit trail)
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.GET("/settings", middleware.RequireStaff(), settingsHandler.List)
	adminRoutes.PUT("/settings", middleware.RequireAdmin(), settingsHandler.Update)
	adminRoutes.GET("/audit-log", middleware.RequireStaff(), auditHandler.List)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(submissionRoutes).
		Register(userRoutes).
		Register(ledgerRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
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
	}
}
