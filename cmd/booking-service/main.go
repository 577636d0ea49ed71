package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"ms-booking/internal/booking"
	"ms-booking/internal/booking/api"
	"ms-booking/internal/booking/qr"
	"ms-booking/internal/catalog"
	"ms-booking/internal/config"
	"ms-booking/internal/database/migrations"
	"ms-booking/internal/inventory"
	invredis "ms-booking/internal/inventory/redis"
	"ms-booking/internal/kafka"
	"ms-booking/internal/ledger"
	"ms-booking/internal/logger"
	"ms-booking/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	ctx := context.Background()

	// --- PostgreSQL ---
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", "Failed to connect to Postgres: "+err.Error())
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	if err := migrations.Run(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", "Migrations failed: "+err.Error())
	}

	// --- Per-showtime lock ---
	var locks inventory.Locker = inventory.NewKeyedMutex()
	if cfg.Redis.Enabled {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("INVENTORY", "Failed to connect to Redis: "+err.Error())
		}
		locks = invredis.NewLocker(redisClient, cfg.Redis.LockTTL, log)
		log.Info("INVENTORY", "Using Redis showtime locks at "+cfg.Redis.Addr)
	}

	// --- Kafka ---
	var events booking.EventPublisher
	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.BookingConfirmed, cfg.Kafka.Topics.BookingRejected}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", "Topic setup failed: "+err.Error())
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, kafka.Topics{
			BookingConfirmed: cfg.Kafka.Topics.BookingConfirmed,
			BookingRejected:  cfg.Kafka.Topics.BookingRejected,
		}, log)
		defer producer.Close()
		events = producer
	}

	// --- Services ---
	inventoryService := inventory.NewService(&inventory.DB{Bun: bunDB}, locks, log)
	ledgerService := ledger.NewService(&ledger.DB{Bun: bunDB}, log)
	catalogDB := &catalog.DB{Bun: bunDB}
	usersDB := &users.DB{Bun: bunDB}

	bookingService := booking.NewBookingService(inventoryService, ledgerService, catalogDB, usersDB, events, log)
	handler := &api.Handler{
		BookingService: bookingService,
		QR:             qr.NewGenerator(os.Getenv("QR_SECRET")),
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Post("/api/v1/bookings", handler.CreateBooking)
	r.Get("/api/v1/bookings/{bookingId}", handler.GetBooking)
	r.Get("/api/v1/bookings/{bookingId}/qr", handler.GetBookingQR)
	r.Get("/api/v1/showtimes/{showtimeId}/availability", handler.GetAvailability)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", "Booking service listening on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "HTTP server error: "+err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("SERVER", "Shutdown signal received")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("SERVER", "Forced shutdown: "+err.Error())
	}

	log.Info("SERVER", "Server exited gracefully")
}
