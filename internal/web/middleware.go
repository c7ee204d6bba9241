package web

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/store"
)

const tokenCookie = "token"

// SessionMiddleware decodes the token cookie, if any, and stores the
// resulting session in the request context. Invalid or revoked tokens
// clear the cookie and leave the request unauthenticated.
func SessionMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(tokenCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ValidateToken(secret, cookie.Value)
			if err != nil {
				clearAuthCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Check if the token has been revoked.
			if claims.ID != "" {
				revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
				if err != nil {
					slog.Error("failed to check token revocation", "error", err)
				}
				if err != nil || revoked {
					clearAuthCookie(w)
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := auth.WithSession(r.Context(), &auth.Session{Claims: claims, Token: cookie.Value})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession redirects unauthenticated requests to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.SessionFrom(r.Context()).Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
