package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/room-booking/internal/database"
	"github.com/iliyamo/room-booking/internal/model"
)

// BookingRepo provides persistence for bookings on the partitioned
// bookings table.  Every query that participates in a conflict check
// runs inside a caller-supplied transaction on the primary, so that
// validation and the eventual write observe the same snapshot.  Plain
// reads also target the primary: only the room catalog is
// replica-eligible in this service.
//
// The overlap predicates below lean on the composite indexes declared
// in the schema; each query prunes to a single date, which the range
// partitioning turns into a single-partition scan.
type BookingRepo struct {
	cluster *database.Cluster
}

// NewBookingRepo constructs a BookingRepo bound to the given cluster.
func NewBookingRepo(cluster *database.Cluster) *BookingRepo {
	return &BookingRepo{cluster: cluster}
}

// Primary exposes the authoritative pool so the service layer can open
// transactions spanning validation and write.
func (r *BookingRepo) Primary() *sql.DB {
	return r.cluster.Primary()
}

const bookingColumns = `id, user_id, room_id, date, start_time, end_time, created_at, updated_at`

// Parameterized query templates.  One template per operation; the
// exclude variants exist for updates, which must not conflict with the
// row being updated.  The overlap predicate is the half-open interval
// test: start_time < queryEnd AND end_time > queryStart.
const (
	qOverlapRoom = `SELECT ` + bookingColumns + ` FROM bookings
	                WHERE room_id = ? AND date = ? AND start_time < ? AND end_time > ?
	                ORDER BY start_time`
	qOverlapRoomExcl = `SELECT ` + bookingColumns + ` FROM bookings
	                WHERE room_id = ? AND date = ? AND start_time < ? AND end_time > ? AND id <> ?
	                ORDER BY start_time`
	qOverlapUser = `SELECT ` + bookingColumns + ` FROM bookings
	                WHERE user_id = ? AND date = ? AND start_time < ? AND end_time > ?
	                ORDER BY start_time`
	qOverlapUserExcl = `SELECT ` + bookingColumns + ` FROM bookings
	                WHERE user_id = ? AND date = ? AND start_time < ? AND end_time > ? AND id <> ?
	                ORDER BY start_time`
	qBusyRooms = `SELECT DISTINCT room_id FROM bookings
	                WHERE date = ? AND start_time < ? AND end_time > ?`
)

// FindOverlappingRoomTx returns bookings in the given room on the given
// date whose interval overlaps [start, end).  excludeID, when non-zero,
// removes one booking from consideration (the booking being updated).
func (r *BookingRepo) FindOverlappingRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	if excludeID != 0 {
		return queryBookings(ctx, tx, qOverlapRoomExcl, roomID, date, end, start, excludeID)
	}
	return queryBookings(ctx, tx, qOverlapRoom, roomID, date, end, start)
}

// FindOverlappingUserTx returns bookings held by the given user on the
// given date whose interval overlaps [start, end), regardless of room.
func (r *BookingRepo) FindOverlappingUserTx(ctx context.Context, tx *sql.Tx, userID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	if excludeID != 0 {
		return queryBookings(ctx, tx, qOverlapUserExcl, userID, date, end, start, excludeID)
	}
	return queryBookings(ctx, tx, qOverlapUser, userID, date, end, start)
}

// BusyRoomIDs returns the set of rooms with at least one booking
// overlapping [start, end) on the given date.  It always reads the
// primary: the busy set feeds free-room results that users act on
// immediately, so a lagging replica would advertise phantom free rooms.
func (r *BookingRepo) BusyRoomIDs(ctx context.Context, date, start, end string) (map[uint64]struct{}, error) {
	rows, err := r.cluster.Primary().QueryContext(ctx, qBusyRooms, date, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	busy := make(map[uint64]struct{})
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		busy[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return busy, nil
}

// CreateTx inserts a booking within the scope of an existing
// transaction and reads the row back to populate generated fields.
// ErrDuplicateSlot is returned when the exact slot already exists.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, room_id, date, start_time, end_time) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.RoomID, b.Date, b.StartTime, b.EndTime)
	if err != nil {
		return classifyBookingErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	got, err := r.GetByIDTx(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// UpdateTx rewrites the slot columns of a booking within an existing
// transaction.  The owning user never changes on update.  The date
// column is the partition key; MySQL moves the row between partitions
// transparently when it changes.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings SET room_id = ?, date = ?, start_time = ?, end_time = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, b.RoomID, b.Date, b.StartTime, b.EndTime, b.ID); err != nil {
		return classifyBookingErr(err)
	}
	got, err := r.GetByIDTx(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByIDTx retrieves a booking by ID within a transaction.  It returns
// ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// GetByID retrieves a booking by ID from the primary.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.cluster.Primary().QueryRowContext(ctx, q, id))
}

// DeleteTx removes a booking within an existing transaction.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// DeleteByRoomTx removes every booking that references the given room.
// It backs the cascade when a room is deleted.
func (r *BookingRepo) DeleteByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE room_id = ?`, roomID)
	return err
}

// ListByUser returns all bookings owned by the given user ordered by
// date then start time.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY date, start_time`
	rows, err := r.cluster.Primary().QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// ListAll returns every booking ordered by date then start time.  Used
// by administrators.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date, start_time`
	rows, err := r.cluster.Primary().QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryBookings(ctx context.Context, q queryer, query string, args ...any) ([]*model.Booking, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]*model.Booking, error) {
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanBooking reads a single-row result.  The DATE column arrives as a
// time.Time because the DSN sets parseTime=true; TIME columns arrive as
// strings already in canonical HH:MM:SS form.
func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var date time.Time
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &date, &b.StartTime, &b.EndTime, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	b.Date = date.Format("2006-01-02")
	return &b, nil
}

func scanBookingRow(rows *sql.Rows) (*model.Booking, error) {
	var b model.Booking
	var date time.Time
	if err := rows.Scan(&b.ID, &b.UserID, &b.RoomID, &date, &b.StartTime, &b.EndTime, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Date = date.Format("2006-01-02")
	return &b, nil
}

// classifyBookingErr maps a duplicate-key driver error onto the
// sentinel the validator treats as a room conflict.
func classifyBookingErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return ErrDuplicateSlot
	}
	return err
}
