package main // Entry point package

import (
	"context" // context bounds graceful shutdown
	"log"     // Logging library
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // godotenv loads a local .env file in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-booking/internal/config"   // Internal config loader
	"github.com/iliyamo/hotel-booking/internal/database" // MySQL pool setup
	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/lock"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	"github.com/iliyamo/hotel-booking/internal/router" // Internal router setup
	"github.com/iliyamo/hotel-booking/internal/worker"
)

func main() {
	// Load a .env file when present; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter and the public response cache.  A nil
	// client disables both; the service stays functional without Redis.
	rdb := config.NewRedisClient()
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	bookingRepo := repository.NewBookingRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	hotelRepo := repository.NewHotelRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	bookingHandler := handler.NewBookingHandler(bookingRepo, roomRepo, hotelRepo, auditRepo)
	publicHandler := handler.NewPublicHandler(hotelRepo, roomRepo, bookingRepo)
	managerHandler := handler.NewManagerHandler(roomRepo, hotelRepo, bookingRepo)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	router.RegisterRoutes(e) // Health check
	router.RegisterPublic(e, publicHandler, rateMW, cacheMW)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret, rateMW)
	router.RegisterManager(e, managerHandler, cfg.JWTSecret)

	// Background pending-booking reaper.  The MySQL named lock keeps a
	// single sweep per tick across all server instances.
	var reaper *worker.TTLReaper
	if cfg.BookingTTL.Enabled {
		reaper = worker.NewTTLReaper(
			bookingRepo,
			lock.NewMySQLLocker(db),
			cfg.BookingTTL.TTLMinutes,
			cfg.BookingTTL.SweepInterval,
			cfg.BookingTTL.InitialDelay,
		)
		reaper.Start()
	} else {
		log.Printf("[ttl] booking TTL worker disabled")
	}

	// Consume booking lifecycle events published by the handlers.  The
	// consumer reconnects on its own; it never takes the server down.
	go queue.StartBookingEventsConsumer()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil { // Start HTTP server
			log.Printf("http server stopped: %v", err)
		}
	}()

	// Block until SIGINT/SIGTERM, then drain: stop the reaper first so no
	// sweep races the closing DB pool, then shut the HTTP server down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if reaper != nil {
		reaper.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
