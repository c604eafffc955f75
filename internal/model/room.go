package model

import "time"

// Room represents a bookable meeting room.  Room names are unique across
// the catalog and capacity is always a positive integer.  Rooms change
// only through explicit updates; deleting a room removes every booking
// that references it.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique human readable room name.
//  Capacity  – number of people the room holds; always positive.
//  Floor     – floor the room is located on; may be negative (basement).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    `json:"id"`         // rooms.id
	Name      string    `json:"name"`       // rooms.name
	Capacity  uint32    `json:"capacity"`   // rooms.capacity
	Floor     int32     `json:"floor"`      // rooms.floor
	CreatedAt time.Time `json:"created_at"` // rooms.created_at
	UpdatedAt time.Time `json:"updated_at"` // rooms.updated_at
}
