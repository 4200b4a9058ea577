package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lens-admin/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateRequest(t *testing.T, path, token string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	var reached bool
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec, reached
}

func TestPublicPathsBypassGate(t *testing.T) {
	for _, path := range []string{
		"/login",
		"/api/auth/login",
		"/api/auth/session",
		"/healthz",
		"/metrics",
		"/uploads/general/logo.png",
		"/favicon.ico",
	} {
		rec, reached := gateRequest(t, path, "")
		assert.True(t, reached, "path %s should bypass the gate", path)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestDottedAPIPathStaysGated(t *testing.T) {
	// The static-asset bypass must not extend to the API: SKUs and ids can
	// contain dots, and a dotted id on a write route is still a write.
	var reached bool
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		r := httptest.NewRequest(method, "/api/products/AV-1.5", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		assert.False(t, reached, "%s reached the handler without a session", method)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s", method)
	}
}

func TestMissingTokenOnAPIReturns401(t *testing.T) {
	rec, reached := gateRequest(t, "/api/orders", "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestMissingTokenOnPageRedirectsToLogin(t *testing.T) {
	rec, reached := gateRequest(t, "/orders", "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestExpiredTokenReturns401(t *testing.T) {
	expired := &utils.Claims{
		Email: "ops@example.com",
		Role:  "admin",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString(utils.JwtKey)
	require.NoError(t, err)

	rec, reached := gateRequest(t, "/api/orders", signed)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidTokenAttachesClaims(t *testing.T) {
	token, err := utils.GenerateJWT("ops@example.com", "manager", "Ops")
	require.NoError(t, err)

	var got *utils.Claims
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r)
	}))
	r := httptest.NewRequest("GET", "/api/orders", nil)
	r.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, "ops@example.com", got.Email)
	assert.Equal(t, "manager", got.Role)
}

func TestAdminMiddlewareBlocksNonAdmins(t *testing.T) {
	run := func(role string) (*httptest.ResponseRecorder, bool) {
		var reached bool
		handler := AuthMiddleware(AdminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		})))
		token, err := utils.GenerateJWT("ops@example.com", role, "Ops")
		require.NoError(t, err)
		r := httptest.NewRequest("GET", "/api/admin/users", nil)
		r.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		return rec, reached
	}

	rec, reached := run("viewer")
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, reached = run("admin")
	assert.True(t, reached)
}
