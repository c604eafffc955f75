// Package repository holds data access logic for rooms and bookings.
// This file defines sentinel errors shared across repositories so that
// higher layers can distinguish failure scenarios with errors.Is
// without inspecting driver-specific error values.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateRoomName is returned when a room insert or update violates
// the unique name constraint.
var ErrDuplicateRoomName = errors.New("room name already exists")

// ErrDuplicateSlot is returned when a booking insert or update violates
// the exact-slot uniqueness constraint (room_id, date, start_time,
// end_time).  This is the last-line defense beneath the overlap check;
// callers should surface it as a room conflict.
var ErrDuplicateSlot = errors.New("identical booking slot already exists")
