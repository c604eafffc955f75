package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking/internal/service"
)

func TestWriteServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"invalid interval", service.ErrInvalidInterval, http.StatusBadRequest},
		{"wrapped invalid interval", fmt.Errorf("create: %w", service.ErrInvalidInterval), http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("%w: booking 7", service.ErrNotFound), http.StatusNotFound},
		{"room conflict", fmt.Errorf("%w: room 1 is booked", service.ErrRoomConflict), http.StatusConflict},
		{"user conflict", service.ErrUserConflict, http.StatusConflict},
		{"write conflict", service.ErrWriteConflict, http.StatusConflict},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := writeServiceError(c, tc.err); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestRoomFilterFrom(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?floor=2&min_capacity=8", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	f, err := roomFilterFrom(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Floor == nil || *f.Floor != 2 || f.MinCapacity == nil || *f.MinCapacity != 8 {
		t.Errorf("filter = %+v, want floor=2 min_capacity=8", f)
	}

	req = httptest.NewRequest(http.MethodGet, "/?floor=two", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	if _, err := roomFilterFrom(c); err == nil {
		t.Error("expected error for non-numeric floor")
	}
}
