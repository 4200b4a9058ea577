package middleware

import (
	"context"
	"net/http"
	"strings"

	"lens-admin/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// publicPrefixes bypass the session gate: the login view, the auth endpoints
// themselves, health/metrics, and served assets.
var publicPrefixes = []string{
	"/login",
	"/api/auth/",
	"/healthz",
	"/metrics",
	"/uploads/",
}

func isPublicPath(p string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// Dotted paths outside the API are static assets (favicon, images). API
	// paths stay gated regardless; ids and SKUs may contain dots.
	return !strings.HasPrefix(p, "/api/") && strings.Contains(p, ".")
}

// AuthMiddleware verifies the session cookie on every non-public request and
// attaches the operator claims to the context. API callers get the error
// envelope; page requests are redirected to the login view.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(utils.SessionCookie)
		if err != nil {
			deny(w, r)
			return
		}
		claims, err := utils.ParseToken(cookie.Value)
		if err != nil {
			deny(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deny(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
}

// ClaimsFrom extracts the operator claims the gate attached to the request.
func ClaimsFrom(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// AdminMiddleware ensures the operator has the admin role
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok || claims.Role != "admin" {
			utils.WriteError(w, http.StatusForbidden, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
