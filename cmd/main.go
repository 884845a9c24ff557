package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ajo-pools/internal/auth"
	"ajo-pools/internal/blockchain"
	"ajo-pools/internal/config"
	"ajo-pools/internal/database"
	"ajo-pools/internal/handlers"
	"ajo-pools/internal/jobs"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/metrics"
	"ajo-pools/internal/middleware"
	"ajo-pools/internal/repository"
	"ajo-pools/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.App.Env, cfg.App.LogLevel)

	verifier, err := auth.NewVerifier(cfg.App.JWTSecret, cfg.Identity)
	if err != nil {
		logger.Logger.Fatalf("Failed to configure token verifier: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.GetDSN())
	if err != nil {
		logger.Logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Logger.Fatalf("Failed to run migrations: %v", err)
	}

	nonces := newNonceStore(cfg.Redis)

	repo := repository.NewRepository(db)
	solanaClient := blockchain.NewSolanaClient(cfg.Solana)

	// Initialize services
	userService := services.NewUserService(repo)
	authService := services.NewAuthService(userService, nonces, verifier)
	poolService := services.NewPoolService(repo, userService, solanaClient)
	verificationService := services.NewVerificationService(repo, solanaClient)
	proposalService := services.NewProposalService(repo, userService)
	contributionService := services.NewContributionService(repo, userService, solanaClient)
	payoutService := services.NewPayoutService(poolService, repo, solanaClient)
	adminService := services.NewAdminService(repo)

	routes := handlers.Routes{
		Verifier:    verifier,
		RateLimiter: middleware.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst),
		AdminAPIKey: cfg.App.AdminAPIKey,
		Auth:        handlers.NewAuthHandler(authService, userService),
		Pools:       handlers.NewPoolHandler(poolService, verificationService),
		Proposals:   handlers.NewProposalHandler(proposalService),
		Ledger:      handlers.NewLedgerHandler(contributionService, payoutService),
		Health:      handlers.NewHealthHandler(db, solanaClient),
		Admin:       handlers.NewAdminHandler(adminService),
	}
	if cfg.App.EnableDebugRoutes {
		routes.Debug = handlers.NewDebugHandler(services.NewDebugService(userService, repo), cfg.App.DebugWalletAddress)
		logger.Logger.Warn("Debug routes enabled")
	}

	// Start payout date job
	payoutDateJob := jobs.NewPayoutDateJob(adminService, cfg.App.PayoutRefreshPeriod)
	go payoutDateJob.Start()

	cleanupDone := make(chan struct{})
	routes.RateLimiter.StartCleanup(10*time.Minute, cleanupDone)

	// Set up Gin router
	if cfg.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(), metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "wallet-address", handlers.AdminKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterRoutes(router, routes)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	payoutDateJob.Stop()
	close(cleanupDone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Fatalf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Logger.Info("Server exited")
}

// newNonceStore connects to Redis, falling back to process memory when it
// is unreachable. The fallback only works with a single API instance.
func newNonceStore(cfg config.RedisConfig) auth.NonceStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.WithError(err).Warn("Redis unavailable, keeping sign-in nonces in memory")
		rdb.Close()
		return auth.NewMemoryNonceStore()
	}

	logger.Logger.WithField("addr", cfg.Addr).Info("Redis connection established")
	return auth.NewRedisNonceStore(rdb)
}
