// Package queue defines the booking lifecycle events exchanged over the
// message broker, plus the publisher and the audit-log consumer.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-booking/internal/model"
)

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published on every booking lifecycle transition.  It
// carries enough information for downstream consumers to log, audit or
// trigger integrations without querying the primary database.
type BookingEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent builds an event for the given transition with a fresh
// event ID and the current UTC timestamp.
func NewBookingEvent(eventType string, b *model.Booking) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
