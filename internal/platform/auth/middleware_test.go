package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, secret []byte, roles []string, expiry time.Duration) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "analyst-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
		},
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, header string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, []string{"analyst"}, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := JWTMiddleware(testSecret)(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "analyst-1" {
			t.Errorf("expected subject analyst-1, got %s", UserIDFromContext(ctx))
		}
		roles := RolesFromContext(ctx)
		if len(roles) != 1 || roles[0] != "analyst" {
			t.Errorf("expected roles [analyst], got %v", roles)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	err := invoke(t, JWTMiddleware(testSecret), "")
	if err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	err := invoke(t, JWTMiddleware(testSecret), "Token abc")
	if err == nil {
		t.Fatal("expected error for malformed header")
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, []byte("another-secret-another-secret-00"), []string{"admin"}, time.Hour)
	err := invoke(t, JWTMiddleware(testSecret), "Bearer "+token)
	if err == nil {
		t.Fatal("expected error for wrong signing secret")
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, []string{"admin"}, -time.Hour)
	err := invoke(t, JWTMiddleware(testSecret), "Bearer "+token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := DevAuthMiddleware()(RequireRole("operator")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	if err := chain(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	token := signToken(t, testSecret, []string{"viewer"}, time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := JWTMiddleware(testSecret)(RequireRole("operator")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	err := chain(c)
	if err == nil {
		t.Fatal("expected forbidden error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}
