package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixtic/Intellisynth2/internal/auth"
)

const testSecret = "middleware-test-secret"

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hit != nil {
			*hit = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestAuth(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid access token passes and fills context", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, userID, RoleAnalyst, time.Minute)
		require.NoError(t, err)

		var gotUser uuid.UUID
		var gotRole string
		handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = UserIDFromContext(r.Context())
			gotRole, _ = RoleFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/activities", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, RoleAnalyst, gotRole)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()

		var hit bool
		handler := Auth(testSecret)(okHandler(&hit))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, hit)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken("other-secret", userID, RoleAnalyst, time.Minute)
		require.NoError(t, err)

		handler := Auth(testSecret)(okHandler(nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueAccessToken(testSecret, userID, RoleAnalyst, -time.Minute)
		require.NoError(t, err)

		handler := Auth(testSecret)(okHandler(nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token cannot authenticate requests", func(t *testing.T) {
		t.Parallel()

		token, err := auth.IssueRefreshToken(testSecret, userID, RoleAnalyst, time.Minute)
		require.NoError(t, err)

		handler := Auth(testSecret)(okHandler(nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()

		handler := Auth(testSecret)(okHandler(nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// ---------------------------------------------------------------------------
// RBAC
// ---------------------------------------------------------------------------

func TestRequireRole(t *testing.T) {
	t.Parallel()

	withRole := func(req *http.Request, role string) *http.Request {
		ctx := context.WithValue(req.Context(), ContextKeyUserRole, role)
		return req.WithContext(ctx)
	}

	t.Run("allowed role passes", func(t *testing.T) {
		t.Parallel()

		var hit bool
		handler := RequireRole(RoleAdmin, RoleAnalyst)(okHandler(&hit))

		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), RoleAnalyst)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, hit)
	})

	t.Run("disallowed role is forbidden", func(t *testing.T) {
		t.Parallel()

		handler := RequireAdmin()(okHandler(nil))

		req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), RoleViewer)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no role in context is unauthorized", func(t *testing.T) {
		t.Parallel()

		handler := RequireAdmin()(okHandler(nil))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// ---------------------------------------------------------------------------
// Rate limiting
// ---------------------------------------------------------------------------

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	handler := RateLimitByIP(context.Background(), 1, 2)(okHandler(nil))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1234"), "burst exhausted")

	// A different IP gets its own bucket.
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestRateLimit_PerUser(t *testing.T) {
	t.Parallel()

	handler := RateLimit(context.Background(), 1, 1)(okHandler(nil))

	send := func(userID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), ContextKeyUserID, userID)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		return rec.Code
	}

	alice, bob := uuid.New(), uuid.New()

	assert.Equal(t, http.StatusOK, send(alice))
	assert.Equal(t, http.StatusTooManyRequests, send(alice))
	assert.Equal(t, http.StatusOK, send(bob), "limits are per user")
}

func TestRateLimit_SkipsAnonymous(t *testing.T) {
	t.Parallel()

	handler := RateLimit(context.Background(), 1, 1)(okHandler(nil))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
