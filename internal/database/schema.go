package database

import (
	"context"
	"database/sql"
)

// Schema for the room catalog and the partitioned bookings table.
//
// The bookings table is range-partitioned by date.  MySQL requires the
// partition key in every unique key, so the primary key is (id, date)
// and the exact-slot uniqueness constraint (room_id, date, start_time,
// end_time) already qualifies.  The pmax partition catches any date
// outside the managed window so inserts never fail for lack of a
// partition; the maintenance daemon splits named monthly partitions out
// of it ahead of time.
//
// Composite indexes:
//
//	idx_room_date_time      – room-conflict lookups
//	idx_user_date_time      – user-conflict lookups
//	idx_date_start_end_room – busy-room scan for free-room search,
//	                          prunes to the queried date's partition
//
// MySQL does not support foreign keys on partitioned tables, so the
// room -> bookings cascade is enforced transactionally in the service
// layer instead of by the engine.
const (
	createRoomsTable = `
CREATE TABLE IF NOT EXISTS rooms (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    name       VARCHAR(100)    NOT NULL,
    capacity   INT UNSIGNED    NOT NULL,
    floor      INT             NOT NULL,
    created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_rooms_name (name)
) ENGINE=InnoDB`

	createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    user_id    BIGINT UNSIGNED NOT NULL,
    room_id    BIGINT UNSIGNED NOT NULL,
    date       DATE            NOT NULL,
    start_time TIME            NOT NULL,
    end_time   TIME            NOT NULL,
    created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    PRIMARY KEY (id, date),
    UNIQUE KEY uq_room_date_slot (room_id, date, start_time, end_time),
    KEY idx_room_date_time (room_id, date, start_time, end_time),
    KEY idx_user_date_time (user_id, date, start_time, end_time),
    KEY idx_date_start_end_room (date, start_time, end_time, room_id)
) ENGINE=InnoDB
PARTITION BY RANGE COLUMNS(date) (
    PARTITION pmax VALUES LESS THAN (MAXVALUE)
)`
)

// EnsureSchema creates the rooms and bookings tables when they do not
// exist yet.  It must run against the primary; replicas receive the
// schema through replication.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createRoomsTable, createBookingsTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
