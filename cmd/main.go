package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foody/internal/analytics"
	"foody/internal/api"
	"foody/internal/auth"
	"foody/internal/cart"
	"foody/internal/config"
	"foody/internal/database"
	"foody/internal/logging"
	"foody/internal/monitoring"
	"foody/internal/orders"
	"foody/internal/recommend"
	"foody/internal/tracking"

	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	db, err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.CloseDB()

	if cfg.Database.Seed {
		if err := database.SeedDefaultData(db); err != nil {
			logging.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	store := database.NewStore(db)
	collector := analytics.NewCollector()
	monitor := monitoring.NewMonitor()
	hub := tracking.NewHub(cfg.Server.AllowedOrigins, monitor)
	authn := auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.StaffPIN, cfg.Auth.TokenTTL)
	svc := orders.NewService(store, cart.Pricer{TaxPercent: cfg.Cart.TaxPercent}, cfg.Orders.DefaultPrepMinutes, hub, collector)
	engine := newEngine(cfg.Recommend)

	foody := api.NewFoodyAPI(store, engine, svc, authn, hub, collector, monitor, api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimit:      cfg.Server.RateLimit,
	})

	// Start metrics server
	metricsServer := startMetricsServer(cfg.Server.MetricsPort, collector)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           foody.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logging.Info().Msg("shutting down servers")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("API server shutdown error")
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("metrics server shutdown error")
		}
	}()

	logging.Info().Int("port", cfg.Server.Port).Str("driver", cfg.Database.Driver).Msg("starting API server")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal().Err(err).Msg("API server error")
	}
}

func newEngine(cfg config.RecommendConfig) *recommend.Engine {
	opts := []recommend.Option{recommend.WithTopN(cfg.TopN)}
	if cfg.StrictFallback {
		opts = append(opts, recommend.WithFallback(recommend.DietaryFallback))
	}
	return recommend.NewEngine(opts...)
}

func startMetricsServer(port int, collector *analytics.Collector) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET("/metrics", gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Int("port", port).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error().Err(err).Msg("metrics server error")
		}
	}()
	return metricsServer
}
