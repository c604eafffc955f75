package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error comparisons
	"strings"      // strings builds the optional filter clauses

	"github.com/go-sql-driver/mysql" // mysql exposes driver error numbers

	"github.com/iliyamo/room-booking/internal/database"
	"github.com/iliyamo/room-booking/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique key violation.
const mysqlDupEntry = 1062

// RoomFilter narrows catalog queries.  Nil fields are ignored.
type RoomFilter struct {
	Floor       *int32  // exact floor match
	MinCapacity *uint32 // capacity >= MinCapacity
}

// RoomRepo provides persistence for the room catalog.  Writes always go
// to the primary.  List may be served from the replica because the
// catalog tolerates staleness; every other read is authoritative.
type RoomRepo struct {
	cluster *database.Cluster
}

// NewRoomRepo constructs a RoomRepo bound to the given cluster.
func NewRoomRepo(cluster *database.Cluster) *RoomRepo {
	return &RoomRepo{cluster: cluster}
}

// roomColumns is the select list shared by every room query.
const roomColumns = `id, name, capacity, floor, created_at, updated_at`

// Create inserts a new room and reads the row back so that generated
// timestamps are populated.  ErrDuplicateRoomName is returned when the
// name is already taken.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (name, capacity, floor) VALUES (?, ?, ?)`
	res, err := r.cluster.Primary().ExecContext(ctx, qInsert, room.Name, room.Capacity, room.Floor)
	if err != nil {
		return classifyRoomErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return r.cluster.Primary().QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor, &room.CreatedAt, &room.UpdatedAt)
}

// GetByID retrieves a room from the primary.  It returns
// ErrRoomNotFound when no row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.cluster.Primary().QueryRowContext(ctx, q, id))
}

// GetByIDTx retrieves a room within an existing transaction.  The
// lifecycle manager uses this to pin the room's existence to the same
// snapshot as the conflict checks.
func (r *RoomRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(tx.QueryRowContext(ctx, q, id))
}

// Update rewrites the mutable columns of a room.  The caller supplies
// the full post-update state.  ErrRoomNotFound is returned when the row
// does not exist and ErrDuplicateRoomName when the new name collides.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET name = ?, capacity = ?, floor = ? WHERE id = ?`
	res, err := r.cluster.Primary().ExecContext(ctx, q, room.Name, room.Capacity, room.Floor, room.ID)
	if err != nil {
		return classifyRoomErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op
		// update; distinguish with a lookup.
		if _, getErr := r.GetByID(ctx, room.ID); getErr != nil {
			return getErr
		}
	}
	const qSelect = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return r.cluster.Primary().QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor, &room.CreatedAt, &room.UpdatedAt)
}

// DeleteTx removes a room within an existing transaction.  The caller
// deletes dependent bookings in the same transaction first; MySQL
// cannot enforce the cascade on a partitioned child table.
func (r *RoomRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// List returns catalog rooms matching the filter, ordered by floor then
// name so results page deterministically.  The query prefers the
// replica and degrades to the primary when the replica read fails.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]*model.Room, error) {
	rooms, err := r.listFrom(ctx, r.cluster.Read(), f)
	if err != nil && r.cluster.HasReplica() {
		r.cluster.ReportReplicaError(err)
		return r.listFrom(ctx, r.cluster.Primary(), f)
	}
	return rooms, err
}

// ListAuthoritative returns matching rooms from the primary.  The
// free-room finder must use this variant: a stale catalog could list a
// room created or deleted moments ago incorrectly.
func (r *RoomRepo) ListAuthoritative(ctx context.Context, f RoomFilter) ([]*model.Room, error) {
	return r.listFrom(ctx, r.cluster.Primary(), f)
}

func (r *RoomRepo) listFrom(ctx context.Context, db *sql.DB, f RoomFilter) ([]*model.Room, error) {
	where := []string{}
	args := []any{}
	if f.Floor != nil {
		where = append(where, "floor = ?")
		args = append(args, *f.Floor)
	}
	if f.MinCapacity != nil {
		where = append(where, "capacity >= ?")
		args = append(args, *f.MinCapacity)
	}
	q := `SELECT ` + roomColumns + ` FROM rooms`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY floor ASC, name ASC`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		room := new(model.Room)
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRoom(row *sql.Row) (*model.Room, error) {
	var room model.Room
	err := row.Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// classifyRoomErr maps a duplicate-key driver error onto the sentinel
// the service layer expects; other errors pass through untouched.
func classifyRoomErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDupEntry {
		return ErrDuplicateRoomName
	}
	return err
}
