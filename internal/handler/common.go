package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking/internal/middleware"
	"github.com/iliyamo/room-booking/internal/service"
)

// actor builds the service-layer identity from the claims JWTAuth stored
// in the context.
func actor(c echo.Context) (service.Actor, error) {
	uid, ok := c.Get(middleware.ContextUserID).(uint64)
	if !ok || uid == 0 {
		return service.Actor{}, errors.New("missing user identity in context")
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return service.Actor{ID: uid, Role: role}, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// invalid input and malformed intervals are 400, authorization failures
// 403, missing resources 404, and all conflicts (room, user, write)
// 409.  Anything else is an opaque 500.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRoomConflict), errors.Is(err, service.ErrUserConflict),
		errors.Is(err, service.ErrWriteConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
