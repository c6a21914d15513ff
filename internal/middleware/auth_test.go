package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ayush/portfolio-backend/internal/token"
)

type fakeChecker struct {
	revoked map[string]bool
	err     error
}

func (f *fakeChecker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[jti], nil
}

func newAuthedRequest(t *testing.T, issuer *token.Issuer, userID string) *http.Request {
	t.Helper()
	raw, err := issuer.Issue(userID)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: token.Cookie, Value: raw})
	return req
}

func TestRequireAuth(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAuth(issuer, &fakeChecker{})(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: token.Cookie, Value: "garbage"})
		w := httptest.NewRecorder()
		RequireAuth(issuer, &fakeChecker{})(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := token.NewIssuer("test-secret", -time.Minute)
		req := newAuthedRequest(t, expired, "u1")
		w := httptest.NewRecorder()
		RequireAuth(issuer, &fakeChecker{})(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		req := newAuthedRequest(t, issuer, "u1")
		cookie, err := req.Cookie(token.Cookie)
		require.NoError(t, err)
		claims, err := issuer.Verify(cookie.Value)
		require.NoError(t, err)

		checker := &fakeChecker{revoked: map[string]bool{claims.ID: true}}
		w := httptest.NewRecorder()
		RequireAuth(issuer, checker)(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("revocation list unreachable fails closed", func(t *testing.T) {
		req := newAuthedRequest(t, issuer, "u1")
		w := httptest.NewRecorder()
		RequireAuth(issuer, &fakeChecker{err: errors.New("redis down")})(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches handler with caller id", func(t *testing.T) {
		gotUserID = ""
		req := newAuthedRequest(t, issuer, "user-42")
		w := httptest.NewRecorder()
		RequireAuth(issuer, &fakeChecker{})(next).ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "user-42", gotUserID)
	})
}

func TestUserID_AbsentIsEmpty(t *testing.T) {
	require.Equal(t, "", UserID(context.Background()))
}
