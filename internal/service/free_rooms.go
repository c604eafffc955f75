package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/repository"
)

// FreeRoomService computes the rooms with no booking overlapping a
// requested window.  Both the busy set and the catalog are read from
// the authoritative primary: a user acts on this answer immediately, so
// a lagging replica would advertise rooms a concurrent booking just
// claimed.
type FreeRoomService struct {
	store Store
}

// NewFreeRoomService constructs a FreeRoomService.
func NewFreeRoomService(store Store) *FreeRoomService {
	if store == nil {
		panic("nil store passed to NewFreeRoomService")
	}
	return &FreeRoomService{store: store}
}

// FindFree returns the rooms matching the filter that have no booking
// overlapping [start, end) on the given date, ordered by floor
// ascending then name ascending.  The ordering is stable so pagination
// upstream stays deterministic.  No side effects.
func (s *FreeRoomService) FindFree(ctx context.Context, date, start, end string, f repository.RoomFilter) ([]*model.Room, error) {
	date, start, end, err := normalizeSlot(date, start, end)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidInterval
	}

	busy, err := s.store.BusyRoomIDs(ctx, date, start, end)
	if err != nil {
		return nil, fmt.Errorf("busy room query: %w", err)
	}
	rooms, err := s.store.ListRoomsAuthoritative(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("room catalog query: %w", err)
	}

	// The catalog arrives ordered (floor, name); subtracting the busy
	// set preserves that order.
	free := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, taken := busy[room.ID]; !taken {
			free = append(free, room)
		}
	}
	return free, nil
}
