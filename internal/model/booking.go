package model

import "time"

// Booking represents a reservation of a room by a user for a time slot
// on a single date.  The interval is half-open: [StartTime, EndTime).
// Two bookings conflict when they are on the same date, share a room or
// a user, and their intervals overlap.  Touching endpoints (one booking
// ending exactly when another starts) do not conflict.
//
// Date is stored as a YYYY-MM-DD string and StartTime/EndTime as
// zero-padded HH:MM:SS strings, matching the DATE and TIME columns of
// the partitioned bookings table.  Both representations order lexically
// in chronological order.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user reference (subject of the access token).
//  RoomID    – booked room reference.
//  Date      – booking date, also the table's partition key.
//  StartTime – inclusive start of the slot.
//  EndTime   – exclusive end of the slot; always after StartTime.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    `json:"id"`         // bookings.id
	UserID    uint64    `json:"user_id"`    // bookings.user_id
	RoomID    uint64    `json:"room_id"`    // bookings.room_id
	Date      string    `json:"date"`       // bookings.date (YYYY-MM-DD)
	StartTime string    `json:"start_time"` // bookings.start_time (HH:MM:SS)
	EndTime   string    `json:"end_time"`   // bookings.end_time (HH:MM:SS)
	CreatedAt time.Time `json:"created_at"` // bookings.created_at
	UpdatedAt time.Time `json:"updated_at"` // bookings.updated_at
}

// BookingPatch carries the fields of a partial booking update.  Nil
// pointers mean "keep the stored value"; the lifecycle manager fills
// them in from the current row before re-validating, so a partial
// update can never bypass the conflict invariants on untouched fields.
type BookingPatch struct {
	RoomID    *uint64 `json:"room_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}
