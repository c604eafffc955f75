package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/repository"
)

// Tx is the transactional storage surface the lifecycle manager and the
// conflict validator operate on.  Every method runs inside one database
// transaction on the primary, so conflict validation and the eventual
// write observe the same logically consistent snapshot.
type Tx interface {
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	DeleteRoom(ctx context.Context, id uint64) error

	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id uint64) error
	DeleteRoomBookings(ctx context.Context, roomID uint64) error

	FindOverlappingRoom(ctx context.Context, roomID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error)
	FindOverlappingUser(ctx context.Context, userID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error)
}

// Store is the storage dependency of the services.  InTx runs the given
// function inside a SERIALIZABLE transaction; the remaining methods are
// single reads that need no transactional scope.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error

	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListBookingsByUser(ctx context.Context, userID uint64) ([]*model.Booking, error)
	ListAllBookings(ctx context.Context) ([]*model.Booking, error)
	BusyRoomIDs(ctx context.Context, date, start, end string) (map[uint64]struct{}, error)

	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id uint64) (*model.Room, error)
	UpdateRoom(ctx context.Context, room *model.Room) error
	ListRooms(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error)
	ListRoomsAuthoritative(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error)
}

// sqlStore implements Store on top of the MySQL repositories.
type sqlStore struct {
	bookings *repository.BookingRepo
	rooms    *repository.RoomRepo
}

// NewStore bridges the repositories into the Store interface consumed
// by the services.
func NewStore(bookings *repository.BookingRepo, rooms *repository.RoomRepo) Store {
	if bookings == nil || rooms == nil {
		panic("nil repository passed to NewStore")
	}
	return &sqlStore{bookings: bookings, rooms: rooms}
}

// InTx opens a SERIALIZABLE transaction on the primary and runs fn
// inside it.  SERIALIZABLE turns the overlap SELECTs into locking reads
// with next-key locks, so of two concurrent transactions racing for the
// same slot one is aborted by InnoDB; callers retry on such aborts.
func (s *sqlStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.bookings.Primary().BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx, store: s}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *sqlStore) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *sqlStore) ListBookingsByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *sqlStore) ListAllBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *sqlStore) BusyRoomIDs(ctx context.Context, date, start, end string) (map[uint64]struct{}, error) {
	return s.bookings.BusyRoomIDs(ctx, date, start, end)
}

func (s *sqlStore) CreateRoom(ctx context.Context, room *model.Room) error {
	return s.rooms.Create(ctx, room)
}

func (s *sqlStore) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *sqlStore) UpdateRoom(ctx context.Context, room *model.Room) error {
	return s.rooms.Update(ctx, room)
}

func (s *sqlStore) ListRooms(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error) {
	return s.rooms.List(ctx, f)
}

func (s *sqlStore) ListRoomsAuthoritative(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error) {
	return s.rooms.ListAuthoritative(ctx, f)
}

// sqlTx adapts one *sql.Tx to the Tx interface.
type sqlTx struct {
	tx    *sql.Tx
	store *sqlStore
}

func (t *sqlTx) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return t.store.rooms.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlTx) DeleteRoom(ctx context.Context, id uint64) error {
	return t.store.rooms.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return t.store.bookings.GetByIDTx(ctx, t.tx, id)
}

func (t *sqlTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	return t.store.bookings.CreateTx(ctx, t.tx, b)
}

func (t *sqlTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	return t.store.bookings.UpdateTx(ctx, t.tx, b)
}

func (t *sqlTx) DeleteBooking(ctx context.Context, id uint64) error {
	return t.store.bookings.DeleteTx(ctx, t.tx, id)
}

func (t *sqlTx) DeleteRoomBookings(ctx context.Context, roomID uint64) error {
	return t.store.bookings.DeleteByRoomTx(ctx, t.tx, roomID)
}

func (t *sqlTx) FindOverlappingRoom(ctx context.Context, roomID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	return t.store.bookings.FindOverlappingRoomTx(ctx, t.tx, roomID, date, start, end, excludeID)
}

func (t *sqlTx) FindOverlappingUser(ctx context.Context, userID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	return t.store.bookings.FindOverlappingUserTx(ctx, t.tx, userID, date, start, end, excludeID)
}
