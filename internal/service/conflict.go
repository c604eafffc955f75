package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/room-booking/internal/model"
)

// ConflictValidator checks a candidate booking against the exclusivity
// invariants: a room holds at most one booking per instant, and a user
// holds at most one booking per instant across all rooms.  Both checks
// run on the transaction that performs the eventual write, so no
// concurrently committed row can slip between validation and insert.
type ConflictValidator struct{}

// Validate returns nil when the candidate violates no invariant.
// excludeID, when non-zero, removes one booking from consideration so
// that an update does not conflict with its own stored row.  The
// returned errors wrap ErrInvalidInterval, ErrRoomConflict or
// ErrUserConflict with the colliding slot's details.
func (v *ConflictValidator) Validate(ctx context.Context, tx Tx, candidate *model.Booking, excludeID uint64) error {
	if candidate.StartTime >= candidate.EndTime {
		return ErrInvalidInterval
	}

	roomClashes, err := tx.FindOverlappingRoom(ctx, candidate.RoomID, candidate.Date, candidate.StartTime, candidate.EndTime, excludeID)
	if err != nil {
		return fmt.Errorf("room conflict query: %w", err)
	}
	if len(roomClashes) > 0 {
		c := roomClashes[0]
		return fmt.Errorf("%w: room %d is booked %s-%s on %s", ErrRoomConflict, c.RoomID, c.StartTime, c.EndTime, c.Date)
	}

	userClashes, err := tx.FindOverlappingUser(ctx, candidate.UserID, candidate.Date, candidate.StartTime, candidate.EndTime, excludeID)
	if err != nil {
		return fmt.Errorf("user conflict query: %w", err)
	}
	if len(userClashes) > 0 {
		c := userClashes[0]
		return fmt.Errorf("%w: existing booking %s-%s on %s in room %d", ErrUserConflict, c.StartTime, c.EndTime, c.Date, c.RoomID)
	}
	return nil
}
