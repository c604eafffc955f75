package partition

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/config"
)

// Manager executes partition maintenance against the primary database.
// It is owned by the partitiond process and is safe to run while the
// service handles live traffic: REORGANIZE and DROP take metadata locks
// briefly but never touch rows the request path is mutating in other
// partitions.
type Manager struct {
	db  *sql.DB
	cfg config.PartitionConfig
	log *zap.Logger
}

// NewManager constructs a Manager for the bookings table.
func NewManager(db *sql.DB, cfg config.PartitionConfig, log *zap.Logger) *Manager {
	return &Manager{db: db, cfg: cfg, log: log}
}

// Run sweeps immediately and then on every tick until the context is
// cancelled.  A failed sweep is logged and retried on the next tick;
// the overflow partition keeps writes safe in the meantime.
func (m *Manager) Run(ctx context.Context) {
	m.sweep(ctx)
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Manager) sweep(ctx context.Context) {
	now := time.Now().UTC()
	if err := m.EnsureUpcoming(ctx, now); err != nil {
		m.log.Error("partition provisioning failed", zap.Error(err))
	}
	if err := m.DropExpired(ctx, now); err != nil {
		m.log.Error("partition retirement failed", zap.Error(err))
	}
}

// EnsureUpcoming splits monthly partitions for the current month plus
// the configured look-ahead out of the overflow partition.  Rows that
// already landed in pmax for those months are redistributed by MySQL as
// part of the REORGANIZE.
func (m *Manager) EnsureUpcoming(ctx context.Context, now time.Time) error {
	existing, err := m.listManaged(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	missing := Missing(existing, PlanUpcoming(now, m.cfg.MonthsAhead))
	if len(missing) == 0 {
		return nil
	}

	defs := make([]string, 0, len(missing)+1)
	for _, p := range missing {
		defs = append(defs, fmt.Sprintf("PARTITION %s VALUES LESS THAN ('%s')", p.Name, p.UpperBound))
	}
	defs = append(defs, "PARTITION pmax VALUES LESS THAN (MAXVALUE)")

	stmt := fmt.Sprintf("ALTER TABLE bookings REORGANIZE PARTITION %s INTO (%s)",
		overflowPartition, strings.Join(defs, ", "))
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("reorganize %s: %w", overflowPartition, err)
	}
	for _, p := range missing {
		m.log.Info("provisioned partition", zap.String("partition", p.Name), zap.String("upper_bound", p.UpperBound))
	}
	return nil
}

// DropExpired retires managed partitions whose whole date range is
// older than the retention window.  Dropping a partition discards its
// rows.
func (m *Manager) DropExpired(ctx context.Context, now time.Time) error {
	existing, err := m.listManaged(ctx)
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	for _, name := range existing {
		if !Expired(name, now, m.cfg.RetentionMonths) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE bookings DROP PARTITION %s", name)
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
		m.log.Info("retired partition", zap.String("partition", name))
	}
	return nil
}

// listManaged returns the partition names currently defined on the
// bookings table, the overflow partition included.
func (m *Manager) listManaged(ctx context.Context) ([]string, error) {
	const q = `SELECT PARTITION_NAME
	           FROM information_schema.PARTITIONS
	           WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'bookings' AND PARTITION_NAME IS NOT NULL
	           ORDER BY PARTITION_ORDINAL_POSITION`
	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
