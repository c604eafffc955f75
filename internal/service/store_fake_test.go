package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/repository"
	"github.com/iliyamo/room-booking/internal/timerange"
)

// memStore is an in-memory Store used by the service tests.  It mirrors
// the repository semantics the services rely on: sentinel errors,
// (floor, name) catalog ordering and the half-open overlap predicate.
// createErrs lets a test inject one error per CreateBooking call to
// exercise the retry loop.
type memStore struct {
	mu            sync.Mutex
	rooms         map[uint64]*model.Room
	bookings      map[uint64]*model.Booking
	nextRoomID    uint64
	nextBookingID uint64

	createErrs     []error
	createAttempts int
}

func newMemStore() *memStore {
	return &memStore{
		rooms:    make(map[uint64]*model.Room),
		bookings: make(map[uint64]*model.Booking),
	}
}

// addRoom seeds a room directly, bypassing validation.
func (s *memStore) addRoom(name string, capacity uint32, floor int32) *model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRoomID++
	r := &model.Room{ID: s.nextRoomID, Name: name, Capacity: capacity, Floor: floor}
	s.rooms[r.ID] = r
	return r
}

func (s *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{s: s, ctx: ctx})
}

func (s *memStore) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getBooking(s, id)
}

func (s *memStore) ListBookingsByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookings(out)
	return out, nil
}

func (s *memStore) ListAllBookings(ctx context.Context) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		cp := *b
		out = append(out, &cp)
	}
	sortBookings(out)
	return out, nil
}

func (s *memStore) BusyRoomIDs(ctx context.Context, date, start, end string) (map[uint64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	busy := make(map[uint64]struct{})
	for _, b := range s.bookings {
		if b.Date == date && timerange.Overlaps(b.StartTime, b.EndTime, start, end) {
			busy[b.RoomID] = struct{}{}
		}
	}
	return busy, nil
}

func (s *memStore) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.Name == room.Name {
			return repository.ErrDuplicateRoomName
		}
	}
	s.nextRoomID++
	room.ID = s.nextRoomID
	room.CreatedAt = time.Now().UTC()
	room.UpdatedAt = room.CreatedAt
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *memStore) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getRoom(s, id)
}

func (s *memStore) UpdateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; !ok {
		return repository.ErrRoomNotFound
	}
	for _, r := range s.rooms {
		if r.ID != room.ID && r.Name == room.Name {
			return repository.ErrDuplicateRoomName
		}
	}
	cp := *room
	s.rooms[room.ID] = &cp
	return nil
}

func (s *memStore) ListRooms(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error) {
	return s.ListRoomsAuthoritative(ctx, f)
}

func (s *memStore) ListRoomsAuthoritative(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		if f.Floor != nil && r.Floor != *f.Floor {
			continue
		}
		if f.MinCapacity != nil && r.Capacity < *f.MinCapacity {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// memTx gives the transactional surface direct access to the maps; the
// store mutex is held for the whole InTx call.
type memTx struct {
	s   *memStore
	ctx context.Context
}

func (t *memTx) GetRoom(ctx context.Context, id uint64) (*model.Room, error) {
	return getRoom(t.s, id)
}

func (t *memTx) DeleteRoom(ctx context.Context, id uint64) error {
	if _, ok := t.s.rooms[id]; !ok {
		return repository.ErrRoomNotFound
	}
	delete(t.s.rooms, id)
	return nil
}

func (t *memTx) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return getBooking(t.s, id)
}

func (t *memTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	t.s.createAttempts++
	if len(t.s.createErrs) > 0 {
		err := t.s.createErrs[0]
		t.s.createErrs = t.s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range t.s.bookings {
		if existing.RoomID == b.RoomID && existing.Date == b.Date &&
			existing.StartTime == b.StartTime && existing.EndTime == b.EndTime {
			return repository.ErrDuplicateSlot
		}
	}
	t.s.nextBookingID++
	b.ID = t.s.nextBookingID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	t.s.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	if _, ok := t.s.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	cp := *b
	t.s.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) DeleteBooking(ctx context.Context, id uint64) error {
	if _, ok := t.s.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(t.s.bookings, id)
	return nil
}

func (t *memTx) DeleteRoomBookings(ctx context.Context, roomID uint64) error {
	for id, b := range t.s.bookings {
		if b.RoomID == roomID {
			delete(t.s.bookings, id)
		}
	}
	return nil
}

func (t *memTx) FindOverlappingRoom(ctx context.Context, roomID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0)
	for _, b := range t.s.bookings {
		if b.ID == excludeID || b.RoomID != roomID || b.Date != date {
			continue
		}
		if timerange.Overlaps(b.StartTime, b.EndTime, start, end) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (t *memTx) FindOverlappingUser(ctx context.Context, userID uint64, date, start, end string, excludeID uint64) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0)
	for _, b := range t.s.bookings {
		if b.ID == excludeID || b.UserID != userID || b.Date != date {
			continue
		}
		if timerange.Overlaps(b.StartTime, b.EndTime, start, end) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func getRoom(s *memStore, id uint64) (*model.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func getBooking(s *memStore, id uint64) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func sortBookings(out []*model.Booking) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
}
