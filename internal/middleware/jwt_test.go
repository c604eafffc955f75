package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", mw...)
	g.GET("/ping", func(c echo.Context) error {
		uid, _ := c.Get(ContextUserID).(uint64)
		role, _ := c.Get(ContextRole).(string)
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid, "role": role})
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	tok, err := utils.NewAccessToken(testSecret, 7, "USER", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec := doGet(e, tok.Token)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	if rec := doGet(e, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token status = %d, want 401", rec.Code)
	}
	if rec := doGet(e, "not-a-jwt"); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}

	tok, err := utils.NewAccessToken("other-secret", 7, "USER", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if rec := doGet(e, tok.Token); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	tok, err := utils.NewAccessToken(testSecret, 7, "USER", -time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if rec := doGet(e, tok.Token); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret), RequireRole("ADMIN"))

	admin, _ := utils.NewAccessToken(testSecret, 1, "ADMIN", time.Hour)
	user, _ := utils.NewAccessToken(testSecret, 2, "USER", time.Hour)

	if rec := doGet(e, admin.Token); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec := doGet(e, user.Token); rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}
}
