// Package service implements the booking lifecycle manager, the
// conflict validator, the free-room finder and the room catalog
// service.  This file defines the error taxonomy the HTTP layer maps
// onto status codes.
package service

import "errors"

// ErrInvalidInput is returned for malformed dates, clock values or
// catalog fields.  Client error, no retry.
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidInterval is returned when a booking's start time is not
// strictly before its end time.  Client error, no retry.
var ErrInvalidInterval = errors.New("start time must be before end time")

// ErrRoomConflict is returned when the candidate booking overlaps an
// existing booking in the same room on the same date.
var ErrRoomConflict = errors.New("booking conflicts with an existing booking in this room")

// ErrUserConflict is returned when the user already holds an
// overlapping booking on the same date, in any room.
var ErrUserConflict = errors.New("user already has an overlapping booking at this time")

// ErrNotFound is returned when the referenced room or booking does not
// exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the acting user lacks the rights for
// the operation.  A booking that exists but belongs to someone else
// yields ErrForbidden, not ErrNotFound.
var ErrForbidden = errors.New("forbidden")

// ErrWriteConflict is returned after the bounded retry loop exhausts
// its attempts against concurrent-transaction aborts.  Transient; the
// client may try again.
var ErrWriteConflict = errors.New("concurrent booking conflict, try again")
