package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/RichBen03/SafeRoute/internal/adapters/http"
	"github.com/RichBen03/SafeRoute/internal/adapters/memory"
	"github.com/RichBen03/SafeRoute/internal/adapters/nominatim"
	"github.com/RichBen03/SafeRoute/internal/adapters/ors"
	"github.com/RichBen03/SafeRoute/internal/adapters/postgres"
	"github.com/RichBen03/SafeRoute/internal/adapters/valkey"
	"github.com/RichBen03/SafeRoute/internal/core/ports"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
	"github.com/RichBen03/SafeRoute/internal/pkg/config"
	"github.com/RichBen03/SafeRoute/internal/pkg/logging"
	"github.com/RichBen03/SafeRoute/internal/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), 50)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache: Valkey with in-process fallback
	var cache ports.CacheService
	if vk, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, using in-process cache", "error", err)
		mem := memory.New()
		mem.StartJanitor(ctx, time.Minute)
		cache = mem
	} else {
		defer vk.Close()
		cache = vk
	}

	// Providers
	router, err := ors.New(cfg.Routing.BaseURL, cfg.Routing.APIKey,
		time.Duration(cfg.Routing.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatalf("routing provider: %v", err)
	}
	geocoder := nominatim.New(cfg.Geocoding.BaseURL, cfg.Geocoding.ContactEmail,
		time.Duration(cfg.Geocoding.TimeoutSeconds)*time.Second)

	// Repos
	serviceRepo := postgres.NewServiceRepo(db)
	routeRepo := postgres.NewRouteRepo(db)
	searchRepo := postgres.NewSearchRepo(db)

	// Use cases
	registry := usecases.NewServiceRegistry(serviceRepo)
	planner := usecases.NewRoutePlanner(router, cache, serviceRepo, routeRepo,
		cfg.Routing.Profile, cfg.Cache.RouteTTLSeconds, cfg.Cache.CorridorStride)
	search := usecases.NewSearchService(serviceRepo, searchRepo)
	geocode := usecases.NewGeocodeService(geocoder, cache, cfg.Cache.GeocodeTTLSeconds)

	deps := &http.Dependencies{
		Registry: registry,
		Planner:  planner,
		Search:   search,
		Geocode:  geocode,
		DB:       db,
		Cache:    cache,
	}

	// Periodic DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "SafeRoute API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
