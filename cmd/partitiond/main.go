package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/config"
	"github.com/iliyamo/room-booking/internal/database"
	"github.com/iliyamo/room-booking/internal/logger"
	"github.com/iliyamo/room-booking/internal/partition"
)

// partitiond maintains the bookings table partitions: it provisions
// upcoming monthly partitions ahead of time and drops partitions past
// the retention window.  It runs as its own process so DDL never shares
// a deadline with request handling.
func main() {
	_ = godotenv.Load()

	// Only the database and partition settings matter here; the HTTP
	// port and JWT secret belong to the API server.
	dbcfg := config.LoadDB()
	log := logger.New(os.Getenv("APP_ENV"))
	defer func() { _ = log.Sync() }()

	db, err := database.Open(context.Background(), dbcfg)
	if err != nil {
		log.Fatal("primary database connection failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	pcfg := config.LoadPartitionConfig()
	log.Info("partition maintainer starting",
		zap.Int("months_ahead", pcfg.MonthsAhead),
		zap.Int("retention_months", pcfg.RetentionMonths),
		zap.Duration("sweep_interval", pcfg.SweepInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	partition.NewManager(db, pcfg, log).Run(ctx)
	log.Info("partition maintainer stopped")
}
