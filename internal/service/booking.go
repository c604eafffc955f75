package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/iliyamo/room-booking/internal/model"
	"github.com/iliyamo/room-booking/internal/queue"
	"github.com/iliyamo/room-booking/internal/repository"
	"github.com/iliyamo/room-booking/internal/timerange"
)

// Roles carried in the access token.  ADMIN may manage the catalog and
// any booking; USER manages only their own bookings.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Actor identifies who is performing an operation.  Handlers build it
// from the verified token claims and pass it explicitly; nothing in the
// service layer reads identity from ambient state.
type Actor struct {
	ID   uint64
	Role string
}

func (a Actor) isAdmin() bool { return a.Role == RoleAdmin }

// EventPublisher emits booking lifecycle events to the message broker.
// Publishing is best effort: a broker outage must never fail a booking.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// MySQL error numbers that signal a concurrent-transaction abort under
// SERIALIZABLE isolation.  Both are transient and safe to retry after
// the whole validate+write sequence is rerun.
const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
)

// maxWriteAttempts bounds the retry loop around validate+write.
const maxWriteAttempts = 3

// BookingService is the booking lifecycle manager.  Create and Update
// run conflict validation and the persistence write as a single
// SERIALIZABLE transaction and retry a bounded number of times when
// InnoDB aborts one of two conflicting transactions.
type BookingService struct {
	store     Store
	validator *ConflictValidator
	events    EventPublisher // nil disables event publishing
	log       *zap.Logger
}

// NewBookingService constructs a BookingService.  events may be nil.
func NewBookingService(store Store, events EventPublisher, log *zap.Logger) *BookingService {
	if store == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{store: store, validator: &ConflictValidator{}, events: events, log: log}
}

// Create books a room for the acting user.  It returns the stored
// booking, or ErrInvalidInput / ErrInvalidInterval / ErrNotFound (room
// does not exist) / ErrRoomConflict / ErrUserConflict / ErrWriteConflict.
func (s *BookingService) Create(ctx context.Context, actor Actor, roomID uint64, date, start, end string) (*model.Booking, error) {
	date, start, end, err := normalizeSlot(date, start, end)
	if err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.withWriteRetries(ctx, func() error {
		b := &model.Booking{UserID: actor.ID, RoomID: roomID, Date: date, StartTime: start, EndTime: end}
		txErr := s.store.InTx(ctx, func(tx Tx) error {
			if _, err := tx.GetRoom(ctx, roomID); err != nil {
				if errors.Is(err, repository.ErrRoomNotFound) {
					return fmt.Errorf("%w: room %d", ErrNotFound, roomID)
				}
				return err
			}
			if err := s.validator.Validate(ctx, tx, b, 0); err != nil {
				return err
			}
			return tx.CreateBooking(ctx, b)
		})
		if txErr == nil {
			booking = b
		}
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventBookingCreated, booking)
	return booking, nil
}

// Update applies a partial update to a booking.  Unspecified fields
// default from the stored row before the result is re-validated, so an
// update can never sneak past the invariants on untouched fields.  Only
// the owner or an administrator may update a booking.
func (s *BookingService) Update(ctx context.Context, actor Actor, id uint64, patch model.BookingPatch) (*model.Booking, error) {
	patch, err := normalizePatch(patch)
	if err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.withWriteRetries(ctx, func() error {
		txErr := s.store.InTx(ctx, func(tx Tx) error {
			current, err := tx.GetBooking(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrBookingNotFound) {
					return fmt.Errorf("%w: booking %d", ErrNotFound, id)
				}
				return err
			}
			if current.UserID != actor.ID && !actor.isAdmin() {
				return ErrForbidden
			}

			candidate := applyPatch(*current, patch)
			if candidate.RoomID != current.RoomID {
				if _, err := tx.GetRoom(ctx, candidate.RoomID); err != nil {
					if errors.Is(err, repository.ErrRoomNotFound) {
						return fmt.Errorf("%w: room %d", ErrNotFound, candidate.RoomID)
					}
					return err
				}
			}
			if err := s.validator.Validate(ctx, tx, &candidate, id); err != nil {
				return err
			}
			if err := tx.UpdateBooking(ctx, &candidate); err != nil {
				return err
			}
			booking = &candidate
			return nil
		})
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.EventBookingUpdated, booking)
	return booking, nil
}

// Delete removes a booking.  Permitted for the booking's owner and for
// administrators; any other actor receives ErrForbidden.
func (s *BookingService) Delete(ctx context.Context, actor Actor, id uint64) error {
	var deleted *model.Booking
	err := s.withWriteRetries(ctx, func() error {
		return s.store.InTx(ctx, func(tx Tx) error {
			current, err := tx.GetBooking(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrBookingNotFound) {
					return fmt.Errorf("%w: booking %d", ErrNotFound, id)
				}
				return err
			}
			if current.UserID != actor.ID && !actor.isAdmin() {
				return ErrForbidden
			}
			if err := tx.DeleteBooking(ctx, id); err != nil {
				return err
			}
			deleted = current
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, queue.EventBookingCancelled, deleted)
	return nil
}

// Get returns a booking visible to the actor: owners see their own
// bookings, administrators see all.
func (s *BookingService) Get(ctx context.Context, actor Actor, id uint64) (*model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
		}
		return nil, err
	}
	if b.UserID != actor.ID && !actor.isAdmin() {
		return nil, ErrForbidden
	}
	return b, nil
}

// List returns the actor's bookings, or every booking for an
// administrator, ordered by date then start time.
func (s *BookingService) List(ctx context.Context, actor Actor) ([]*model.Booking, error) {
	if actor.isAdmin() {
		return s.store.ListAllBookings(ctx)
	}
	return s.store.ListBookingsByUser(ctx, actor.ID)
}

// withWriteRetries reruns the whole validate+write sequence on
// concurrent-transaction aborts, backing off briefly between attempts.
// The exact-duplicate constraint surfaces as a room conflict: an
// identical slot already committed, so retrying cannot help.
func (s *BookingService) withWriteRetries(ctx context.Context, attempt func() error) error {
	var err error
	for i := 0; i < maxWriteAttempts; i++ {
		err = attempt()
		if err == nil {
			return nil
		}
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return fmt.Errorf("%w: identical slot already booked", ErrRoomConflict)
		}
		if !isWriteConflict(err) {
			return err
		}
		if s.log != nil {
			s.log.Warn("write conflict, retrying booking transaction",
				zap.Int("attempt", i+1), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 25 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", ErrWriteConflict, err)
}

// isWriteConflict reports whether the error is a transient
// concurrent-transaction abort worth retrying.
func isWriteConflict(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout
	}
	return false
}

// publish emits a lifecycle event, logging and swallowing any broker
// error; events are an audit trail, not part of the booking contract.
func (s *BookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	if s.events == nil || b == nil {
		return
	}
	if err := s.events.PublishBookingEvent(ctx, queue.NewBookingEvent(eventType, b)); err != nil && s.log != nil {
		s.log.Warn("failed to publish booking event", zap.String("type", eventType), zap.Error(err))
	}
}

// normalizeSlot canonicalizes a booking slot: the date must be a valid
// YYYY-MM-DD calendar date and the clock values are normalized to
// HH:MM:SS so lexical comparison is chronological.
func normalizeSlot(date, start, end string) (string, string, string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: invalid date %q", ErrInvalidInput, date)
	}
	startN, err := timerange.NormalizeClock(start)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	endN, err := timerange.NormalizeClock(end)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return d.Format("2006-01-02"), startN, endN, nil
}

// normalizePatch canonicalizes the populated fields of a partial update.
func normalizePatch(patch model.BookingPatch) (model.BookingPatch, error) {
	if patch.Date != nil {
		d, err := time.Parse("2006-01-02", *patch.Date)
		if err != nil {
			return patch, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, *patch.Date)
		}
		v := d.Format("2006-01-02")
		patch.Date = &v
	}
	if patch.StartTime != nil {
		v, err := timerange.NormalizeClock(*patch.StartTime)
		if err != nil {
			return patch, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.StartTime = &v
	}
	if patch.EndTime != nil {
		v, err := timerange.NormalizeClock(*patch.EndTime)
		if err != nil {
			return patch, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		patch.EndTime = &v
	}
	return patch, nil
}

// applyPatch builds the proposed post-update state: the stored booking
// with every populated patch field overlaid.
func applyPatch(current model.Booking, patch model.BookingPatch) model.Booking {
	if patch.RoomID != nil {
		current.RoomID = *patch.RoomID
	}
	if patch.Date != nil {
		current.Date = *patch.Date
	}
	if patch.StartTime != nil {
		current.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		current.EndTime = *patch.EndTime
	}
	return current
}
