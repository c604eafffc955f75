package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking/internal/repository"
	"github.com/iliyamo/room-booking/internal/service"
)

// RoomHandler exposes the room catalog and the free-room search.
// Catalog mutations are admin-only; the router enforces the role.
type RoomHandler struct {
	rooms *service.RoomService
	free  *service.FreeRoomService
}

// NewRoomHandler constructs a RoomHandler and panics on nil services.
func NewRoomHandler(rooms *service.RoomService, free *service.FreeRoomService) *RoomHandler {
	if rooms == nil || free == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{rooms: rooms, free: free}
}

// createRoomRequest is the body of POST /v1/rooms.
type createRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity uint32 `json:"capacity" validate:"required,gt=0"`
	Floor    int32  `json:"floor"`
}

// updateRoomRequest is the body of PATCH /v1/rooms/:id.
type updateRoomRequest struct {
	Name     *string `json:"name"`
	Capacity *uint32 `json:"capacity" validate:"omitempty,gt=0"`
	Floor    *int32  `json:"floor"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var body createRoomRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	room, err := h.rooms.Create(c.Request().Context(), body.Name, body.Capacity, body.Floor)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	room, err := h.rooms.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Update handles PATCH /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body updateRoomRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	room, err := h.rooms.Update(c.Request().Context(), id, service.RoomPatch{
		Name:     body.Name,
		Capacity: body.Capacity,
		Floor:    body.Floor,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Delete handles DELETE /v1/rooms/:id and cancels the room's bookings
// along with it.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.rooms.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/rooms with optional floor and min_capacity
// filters.
func (h *RoomHandler) List(c echo.Context) error {
	filter, err := roomFilterFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.rooms.List(c.Request().Context(), filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// FindFree handles GET /v1/rooms/free.  It returns the rooms free for
// the whole requested window, ordered by floor then name.
func (h *RoomHandler) FindFree(c echo.Context) error {
	date := c.QueryParam("date")
	start := c.QueryParam("start_time")
	end := c.QueryParam("end_time")
	if date == "" || start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, start_time and end_time are required"})
	}
	filter, err := roomFilterFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.free.FindFree(c.Request().Context(), date, start, end, filter)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// roomFilterFrom parses the optional floor and min_capacity query
// parameters shared by the catalog listing and the free-room search.
func roomFilterFrom(c echo.Context) (repository.RoomFilter, error) {
	var f repository.RoomFilter
	if v := c.QueryParam("floor"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return f, fmt.Errorf("invalid query parameter: floor")
		}
		floor := int32(n)
		f.Floor = &floor
	}
	if v := c.QueryParam("min_capacity"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return f, fmt.Errorf("invalid query parameter: min_capacity")
		}
		minCap := uint32(n)
		f.MinCapacity = &minCap
	}
	return f, nil
}
