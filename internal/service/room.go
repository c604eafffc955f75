package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/repository"
)

// RoomPatch carries the fields of a partial room update.  Nil pointers
// keep the stored value.
type RoomPatch struct {
	Name     *string `json:"name"`
	Capacity *uint32 `json:"capacity"`
	Floor    *int32  `json:"floor"`
}

// RoomService manages the room catalog.  Catalog mutation is an
// administrative operation; the handlers enforce the role, the service
// enforces the data invariants.
type RoomService struct {
	store Store
	log   *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(store Store, log *zap.Logger) *RoomService {
	if store == nil {
		panic("nil store passed to NewRoomService")
	}
	return &RoomService{store: store, log: log}
}

// Create adds a room to the catalog.  Names must be unique and capacity
// positive.
func (s *RoomService) Create(ctx context.Context, name string, capacity uint32, floor int32) (*model.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name must not be empty", ErrInvalidInput)
	}
	if capacity == 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	room := &model.Room{Name: name, Capacity: capacity, Floor: floor}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoomName) {
			return nil, fmt.Errorf("%w: room name %q already exists", ErrInvalidInput, name)
		}
		return nil, err
	}
	return room, nil
}

// Get returns a single room from the authoritative catalog.
func (s *RoomService) Get(ctx context.Context, id uint64) (*model.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, err
	}
	return room, nil
}

// Update applies a partial update to a room, defaulting omitted fields
// from the stored state.
func (s *RoomService) Update(ctx context.Context, id uint64, patch RoomPatch) (*model.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, fmt.Errorf("%w: room name must not be empty", ErrInvalidInput)
		}
		room.Name = *patch.Name
	}
	if patch.Capacity != nil {
		if *patch.Capacity == 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
		}
		room.Capacity = *patch.Capacity
	}
	if patch.Floor != nil {
		room.Floor = *patch.Floor
	}
	if err := s.store.UpdateRoom(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoomName) {
			return nil, fmt.Errorf("%w: room name %q already exists", ErrInvalidInput, room.Name)
		}
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, err
	}
	return room, nil
}

// Delete removes a room and cascades to its bookings inside one
// transaction.  MySQL cannot enforce a foreign key onto the partitioned
// bookings table, so the cascade happens here.
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
	err := s.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.GetRoom(ctx, id); err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				return fmt.Errorf("%w: room %d", ErrNotFound, id)
			}
			return err
		}
		if err := tx.DeleteRoomBookings(ctx, id); err != nil {
			return err
		}
		return tx.DeleteRoom(ctx, id)
	})
	if err != nil {
		return err
	}
	if s.log != nil {
		s.log.Info("room deleted with cascading bookings", zap.Uint64("room_id", id))
	}
	return nil
}

// List returns catalog rooms matching the filter.  This is the one
// replica-eligible read path; results may lag the primary briefly.
func (s *RoomService) List(ctx context.Context, f repository.RoomFilter) ([]*model.Room, error) {
	return s.store.ListRooms(ctx, f)
}
