package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/config"
	"github.com/iliyamo/room-booking/internal/database"
	"github.com/iliyamo/room-booking/internal/handler"
	"github.com/iliyamo/room-booking/internal/logger"
	"github.com/iliyamo/room-booking/internal/queue"
	"github.com/iliyamo/room-booking/internal/repository"
	"github.com/iliyamo/room-booking/internal/router"
	"github.com/iliyamo/room-booking/internal/service"
)

func main() {
	// .env is a local development convenience; in production the
	// environment is injected by the platform.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	primary, err := database.Open(context.Background(), cfg.DB)
	if err != nil {
		log.Fatal("primary database connection failed", zap.Error(err))
	}

	cluster := database.NewCluster(primary, openReplica(cfg, log), log)
	defer func() { _ = cluster.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, primary); err != nil {
		cancel()
		log.Fatal("schema setup failed", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient()

	bookingRepo := repository.NewBookingRepo(cluster)
	roomRepo := repository.NewRoomRepo(cluster)
	store := service.NewStore(bookingRepo, roomRepo)

	publisher := queue.NewPublisher(log)
	bookingSvc := service.NewBookingService(store, publisher, log)
	roomSvc := service.NewRoomService(store, log)
	freeSvc := service.NewFreeRoomService(store)

	// The consumer appends booking events to the audit log; it owns its
	// reconnect loop and never takes the API down with it.
	go queue.StartBookingConsumer(log)

	e := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Rooms:     handler.NewRoomHandler(roomSvc, freeSvc),
		Bookings:  handler.NewBookingHandler(bookingSvc),
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	})

	addr := ":" + cfg.Port
	log.Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.Bool("replica", cluster.HasReplica()),
	)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// openReplica opens the optional read replica pool.  The replica shares
// the primary's credentials and pool settings; only host and port
// differ.  A replica that is configured but unreachable is logged and
// skipped; the service runs fine on the primary alone.
func openReplica(cfg config.Config, log *zap.Logger) *sql.DB {
	if cfg.ReplicaHost == "" {
		return nil
	}
	rcfg := cfg.DB
	rcfg.Host, rcfg.Port = cfg.ReplicaHost, cfg.ReplicaPort
	db, err := database.Open(context.Background(), rcfg)
	if err != nil {
		log.Warn("replica connection failed, reads fall back to primary", zap.Error(err))
		return nil
	}
	return db
}
