package config

import "time"

// PartitionConfig controls the partition maintenance daemon.  The
// bookings table is range-partitioned by date into monthly partitions;
// the daemon keeps MonthsAhead partitions provisioned beyond the
// current month and drops partitions once their newest date is older
// than RetentionMonths.  Maintenance runs on a fixed interval, never in
// the request path.
type PartitionConfig struct {
	MonthsAhead     int           // how many upcoming monthly partitions to keep provisioned
	RetentionMonths int           // drop partitions older than this many months
	SweepInterval   time.Duration // how often the daemon inspects partition state
}

// LoadPartitionConfig reads partition maintenance settings from the
// environment.  Defaults: three months provisioned ahead, six months
// retained, sweep twice a day.
func LoadPartitionConfig() PartitionConfig {
	return PartitionConfig{
		MonthsAhead:     atoi(getenv("PARTITION_MONTHS_AHEAD", "3")),
		RetentionMonths: atoi(getenv("PARTITION_RETENTION_MONTHS", "6")),
		SweepInterval:   parseDur(getenv("PARTITION_SWEEP_INTERVAL", "12h")),
	}
}
