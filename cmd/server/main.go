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
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/config"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/handlers"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/middleware"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/internal/services"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/logger"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/metrics"
	"github.com/Shahid-Nawaz-Pahore/integrate-moonpay-with-dapp/pkg/ratelimiter"
)

// Server represents the main application server
type Server struct {
	httpServer  *http.Server
	config      *config.Config
	ethClient   *services.EthereumClient
	dispatcher  *services.ContractDispatcher
	rateSource  services.RateSource
	rateLimiter *ratelimiter.RateLimiter
	collector   *metrics.Collector
	router      *handlers.Router
}

func main() {
	// Optional .env file, matching local development setups
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	if err := logger.Initialize(&logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		OutputPaths: cfg.Logging.OutputPaths,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.GetLogger()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting NFT gateway server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("rpc_endpoint", cfg.Chain.RPCEndpoint),
		zap.String("price_source", cfg.Pricing.Source),
		zap.String("nft_contract", cfg.Chain.NFTContract),
		zap.String("marketplace_contract", cfg.Chain.MarketplaceContract),
		zap.String("log_level", cfg.Logging.Level),
	)

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	if err := server.Start(); err != nil {
		log.Fatal("Server failed to start", zap.Error(err))
	}
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.GetLogger()

	log.Debug("Initializing Ethereum RPC client")
	ethClient, err := services.NewEthereumClient(&cfg.Chain)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Ethereum client: %w", err)
	}

	if err := ethClient.IsHealthy(); err != nil {
		log.Warn("Ethereum RPC health check failed", zap.Error(err))
	} else {
		log.Info("Ethereum RPC connection healthy")
	}

	collector := metrics.NewCollector()

	log.Debug("Initializing contract dispatcher")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	dispatcher, err := services.NewContractDispatcher(ctx, ethClient, &cfg.Chain, collector)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize contract dispatcher: %w", err)
	}
	log.Info("Contract dispatcher ready",
		zap.String("signer", dispatcher.SignerAddress().Hex()),
	)

	log.Debug("Initializing MoonPay client")
	moonpay := services.NewMoonPayClient(&cfg.MoonPay)

	log.Debug("Initializing price oracle", zap.String("source", cfg.Pricing.Source))
	rateSource, err := services.NewRateSource(&cfg.Pricing, moonpay)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate source: %w", err)
	}

	purchases := services.NewPurchaseService(rateSource, ethClient)

	healthChecker := services.NewGatewayHealthChecker(ethClient, rateSource)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := handlers.NewRouter(moonpay, rateSource, purchases, dispatcher, healthHandler, cfg.Pricing.NFTPriceETH)

	rateLimiter := ratelimiter.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.WindowSize)

	log.Info("Server components initialized successfully")

	return &Server{
		config:      cfg,
		ethClient:   ethClient,
		dispatcher:  dispatcher,
		rateSource:  rateSource,
		rateLimiter: rateLimiter,
		collector:   collector,
		router:      router,
	}, nil
}

// Start starts the HTTP server with graceful shutdown handling
func (s *Server) Start() error {
	log := logger.GetLogger()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	s.setupMiddleware(engine)
	s.setupRoutes(engine)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:           engine,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       s.config.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Info("HTTP server configured",
		zap.String("address", s.httpServer.Addr),
		zap.Duration("read_timeout", s.config.Server.ReadTimeout),
		zap.Duration("write_timeout", s.config.Server.WriteTimeout),
	)

	s.startCleanupRoutines()

	go func() {
		log.Info("Starting HTTP server", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	return s.waitForShutdown()
}

// setupMiddleware configures the middleware stack
func (s *Server) setupMiddleware(engine *gin.Engine) {
	engine.Use(logger.RecoveryMiddleware())
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(s.collector))
	engine.Use(s.corsMiddleware())
	engine.Use(s.rateLimiter.Middleware())
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes(engine *gin.Engine) {
	s.router.SetupHealthRoutes(engine)
	s.router.SetupRoutes(engine)

	engine.GET("/metrics", s.metricsHandler)
	engine.GET("/status", s.statusHandler)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// metricsHandler exposes in-process counters
func (s *Server) metricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "nft-gateway",
		"metrics": s.collector.Snapshot(),
	})
}

// statusHandler provides detailed status information
func (s *Server) statusHandler(c *gin.Context) {
	rpcHealthy := s.ethClient.IsHealthy() == nil

	c.JSON(http.StatusOK, gin.H{
		"service":      "nft-gateway",
		"status":       "running",
		"rpc_healthy":  rpcHealthy,
		"price_source": s.rateSource.Name(),
		"uptime":       time.Since(startTime).String(),
	})
}

// startCleanupRoutines starts background cleanup tasks
func (s *Server) startCleanupRoutines() {
	go func() {
		ticker := time.NewTicker(s.config.RateLimit.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			s.rateLimiter.Cleanup()
		}
	}()
}

// waitForShutdown waits for interrupt signal and performs graceful shutdown
func (s *Server) waitForShutdown() error {
	log := logger.GetLogger()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.cleanup()

	log.Info("Server gracefully stopped")
	return nil
}

// cleanup releases client connections before exit
func (s *Server) cleanup() {
	log := logger.GetLogger()

	if s.ethClient != nil {
		log.Debug("Closing Ethereum client")
		s.ethClient.Close()
	}

	if err := log.Sync(); err != nil {
		fmt.Printf("Error syncing logger: %v\n", err)
	}
}

// Global variable to track server start time for uptime calculation
var startTime = time.Now()
