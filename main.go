package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/Sayan-Mondal2022/travAi/app/db"
	appLogger "github.com/Sayan-Mondal2022/travAi/app/logger"
	"github.com/Sayan-Mondal2022/travAi/app/observability/metrics"
	"github.com/Sayan-Mondal2022/travAi/app/tracer"
	"github.com/Sayan-Mondal2022/travAi/config"
	generativeAI "github.com/Sayan-Mondal2022/travAi/internal/api/generative_ai"
	"github.com/Sayan-Mondal2022/travAi/internal/api/geo"
	"github.com/Sayan-Mondal2022/travAi/internal/api/itinerary"
	"github.com/Sayan-Mondal2022/travAi/internal/api/parser"
	"github.com/Sayan-Mondal2022/travAi/internal/api/places"
	"github.com/Sayan-Mondal2022/travAi/internal/api/weather"
	"github.com/Sayan-Mondal2022/travAi/internal/cache"
	api "github.com/Sayan-Mondal2022/travAi/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, v, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	durableStore := cache.NewPostgresStore(pool, logger)
	tieredCache := cache.NewTieredCache(durableStore, cfg.Cache.MaxSize, logger)

	placesAPIKey := os.Getenv("GOOGLE_PLACES_API_KEY")
	placesClient := places.NewGoogleClient(placesAPIKey, logger)
	geocoder := geo.NewGoogleGeocoder(placesAPIKey, logger)
	weatherService := weather.NewGoogleWeather(os.Getenv("GOOGLE_WEATHER_API_KEY"), logger)

	catalog := places.NewQueryCatalog(v)
	placesService := places.NewService(placesClient, geocoder, catalog, tieredCache, cfg.Cache.PlacesTTL, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.AI.Model, logger)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		os.Exit(1)
	}

	itineraryParser := parser.NewParser(logger)
	itineraryService := itinerary.NewService(placesService, weatherService, aiClient, itineraryParser, tieredCache, cfg.Cache.TTL, logger)
	itineraryHandler := itinerary.NewItineraryHandler(itineraryService, logger)
	weatherHandler := weather.NewWeatherHandler(weatherService, geocoder, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		ItineraryHandler: itineraryHandler,
		WeatherHandler:   weatherHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
