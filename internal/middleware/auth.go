package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ayush/portfolio-backend/internal/httpx"
	"github.com/ayush/portfolio-backend/internal/token"
)

const userIDKey = "user_id"

// RevocationChecker answers whether a token id was revoked at logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth validates the auth cookie and injects the caller's user id
// into the request context. Revoked tokens are rejected even while their
// signature and expiry are still valid.
func RequireAuth(issuer *token.Issuer, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(token.Cookie)
			if err != nil || cookie.Value == "" {
				httpx.JSON(w, http.StatusUnauthorized,
					httpx.FailureResponse{Message: "authentication required"})
				return
			}

			claims, err := issuer.Verify(cookie.Value)
			if err != nil {
				httpx.JSON(w, http.StatusUnauthorized,
					httpx.FailureResponse{Message: "invalid or expired token"})
				return
			}

			dead, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				// fail closed: an unreachable revocation list must not
				// let a logged-out token through
				slog.Error("revocation check failed", "error", err)
			}
			if err != nil || dead {
				httpx.JSON(w, http.StatusUnauthorized,
					httpx.FailureResponse{Message: "invalid or expired token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated caller id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the caller id set by RequireAuth, or "" when absent.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
