package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
// A package-private type prevents other packages from colliding with (or
// shadowing) the userID value.
type contextKey string

const userIDKey contextKey = "userID"

// WithUser resolves the session cookie into a user ID in the request
// context. It never blocks a request: most pages are public and just render
// differently for signed-in guests. Routes that do require a login (the
// admin page) check UserIDFromContext themselves and redirect.
func WithUser(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if userID, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), userIDKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the signed-in user's ID from the request
// context. Returns (0, false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id != 0
}
