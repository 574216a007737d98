package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/config"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/handler"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/importer"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/middleware"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/pkg/logger"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx := context.Background()

	// Initialize the contract store
	store, err := service.NewContractStore(ctx, cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to initialize contract store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Payload archiving is optional; the import pipeline works without it
	var archive handler.PayloadArchiver
	if cfg.Minio.Endpoint != "" {
		a, err := service.NewImportArchive(&cfg.Minio)
		if err != nil {
			slog.Warn("import archiving disabled", "error", err)
		} else if err := a.EnsureBucket(ctx); err != nil {
			slog.Warn("import archiving disabled", "error", err)
		} else {
			archive = a
		}
	}

	fetcher := service.NewCSVFetcher(
		time.Duration(cfg.Import.FetchTimeoutSeconds)*time.Second,
		cfg.Import.MaxFetchMB*1024*1024,
	)

	imp := importer.New(store)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	importHandler := handler.NewImportHandler(imp, fetcher, archive, cfg.Import.MaxUploadMB*1024*1024)
	contractHandler := handler.NewContractHandler(store)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(100, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.GET("/contratos", contractHandler.List)
		protected.GET("/contratos/busca", contractHandler.Get)
	}

	// Import routes are admin-only and rate limited harder: each request
	// parses a whole document in memory
	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin(), middleware.RateLimit(10, time.Minute))
	{
		admin.POST("/contratos/import", importHandler.ImportText)
		admin.POST("/contratos/import/arquivo", importHandler.ImportFile)
		admin.POST("/contratos/import/url", importHandler.ImportURL)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
