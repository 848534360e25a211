package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/filesapi/auth/internal/apperrors"
	"github.com/filesapi/auth/internal/handlers/userctx"
	"github.com/filesapi/auth/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, access string) (models.AuthUser, error)

func (f authFunc) Authenticate(ctx context.Context, access string) (models.AuthUser, error) {
	return f(ctx, access)
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	// Simple handler that echoes the authenticated user id from context
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok, "middleware has to set identity before calling next handler")

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.UserID.String()))
		require.NoError(t, err, "should write user id to response")
	})

	get := func(t *testing.T, url string, authHeader string) (*http.Response, string) {
		t.Helper()

		req, err := http.NewRequest(http.MethodGet, url+"/test", nil)
		require.NoError(t, err)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(body)
	}

	t.Run("auth ok", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.AuthUser, error) {
			require.Equal(t, "good-token", access, "middleware should pass bearer token as is")
			return models.AuthUser{UserID: userID, SessionID: uuid.New(), Version: 1}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "Bearer good-token")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", body)
		require.Equal(t, userID.String(), body, "should return user id in response")
	})

	t.Run("auth fail", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.AuthUser, error) {
			return models.AuthUser{}, apperrors.ErrSessionRevoked
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "Bearer revoked-token")

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", body)
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Unauthorized"
			}`,
			body,
		)
	})

	t.Run("no header", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.AuthUser, error) {
			t.Fatal("auth service should not be called without bearer token")
			return models.AuthUser{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, _ := get(t, srv.URL, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("not bearer header", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.AuthUser, error) {
			t.Fatal("auth service should not be called without bearer token")
			return models.AuthUser{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, _ := get(t, srv.URL, "Basic dXNlcjpwYXNz")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
