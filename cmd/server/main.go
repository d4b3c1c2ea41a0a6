package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hydrolab/quoteflow/internal/config"
	"github.com/hydrolab/quoteflow/internal/document"
	"github.com/hydrolab/quoteflow/internal/external/confluence"
	"github.com/hydrolab/quoteflow/internal/external/jira"
	"github.com/hydrolab/quoteflow/internal/external/msgraph"
	"github.com/hydrolab/quoteflow/internal/pipeline"
	"github.com/hydrolab/quoteflow/internal/quote"
	"github.com/hydrolab/quoteflow/internal/webhook"
	"github.com/hydrolab/quoteflow/pkg/utils"
)

func main() {
	// Local development keeps credentials in .env; absence is fine.
	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting quote generation service",
		zap.Int("port", cfg.Server.Port))

	pricing, threshold, err := parsePricing(cfg.Pricing)
	if err != nil {
		logger.Fatal("Invalid pricing configuration", zap.Error(err))
	}

	// Initialize external clients
	jiraClient := jira.NewClient(jira.Config{
		BaseURL:  cfg.Jira.BaseURL,
		Username: cfg.Jira.Username,
		APIToken: cfg.Jira.APIToken,
		Timeout:  cfg.Jira.APITimeout,
	}, logger)
	tracker := jira.NewTracker(jiraClient)

	templates := confluence.NewClient(confluence.Config{
		BaseURL:      cfg.Confluence.BaseURL,
		APIToken:     cfg.Confluence.APIToken,
		PageID:       cfg.Confluence.PageID,
		TemplateName: cfg.Confluence.TemplateName,
		Timeout:      cfg.Confluence.APITimeout,
	}, logger)

	store := msgraph.NewDriveClient(msgraph.Config{
		TenantID:     cfg.Graph.TenantID,
		ClientID:     cfg.Graph.ClientID,
		ClientSecret: cfg.Graph.ClientSecret,
		SiteID:       cfg.Graph.SiteID,
		Folder:       cfg.Graph.Folder,
		Scope:        cfg.Graph.Scope,
	}, logger)

	// Assemble the quote pipeline
	quotePipeline := pipeline.New(pipeline.Deps{
		Extractor: quote.NewExtractor(logger),
		Builder:   quote.NewBuilder(pricing, logger),
		Templates: templates,
		Renderer:  document.NewRenderer(logger),
		Converter: document.NewConverter(cfg.Converter.SofficePath, cfg.Converter.Timeout, logger),
		Store:     store,
		Tracker:   tracker,
		Router:    pipeline.NewRouter(tracker, threshold, cfg.Jira.ReviewerEmail, logger),
		WorkDir:   cfg.Converter.WorkDir,
		Logger:    logger,
	})

	webhookHandler := webhook.NewHandler(quotePipeline, logger)

	// Set Gin mode based on logger level
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize HTTP router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/", webhook.Greeting)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "quoteflow",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Webhook endpoint
	router.POST(cfg.Jira.WebhookPath, webhookHandler.Handle)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// parsePricing converts the configured decimal strings into rates.
func parsePricing(cfg config.PricingConfig) (quote.Pricing, decimal.Decimal, error) {
	var pricing quote.Pricing
	var err error

	if pricing.CollectionFlatRate, err = decimal.NewFromString(cfg.CollectionFlatRate); err != nil {
		return pricing, decimal.Zero, fmt.Errorf("collection_flat_rate: %w", err)
	}
	if pricing.CollectionVolumeRate, err = decimal.NewFromString(cfg.CollectionVolumeRate); err != nil {
		return pricing, decimal.Zero, fmt.Errorf("collection_volume_rate: %w", err)
	}
	if pricing.CollectionVolumeThreshold, err = decimal.NewFromString(cfg.CollectionVolumeThreshold); err != nil {
		return pricing, decimal.Zero, fmt.Errorf("collection_volume_threshold: %w", err)
	}
	if pricing.ShippingRatePerBox, err = decimal.NewFromString(cfg.ShippingRatePerBox); err != nil {
		return pricing, decimal.Zero, fmt.Errorf("shipping_rate_per_box: %w", err)
	}

	threshold, err := decimal.NewFromString(cfg.ApprovalThreshold)
	if err != nil {
		return pricing, decimal.Zero, fmt.Errorf("approval_threshold: %w", err)
	}
	return pricing, threshold, nil
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
