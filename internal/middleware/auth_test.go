package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/auth"
	"postboard/internal/model"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestServer(tokens *auth.JWTService, policy Policy) *echo.Echo {
	e := echo.New()
	e.GET("/test", func(c echo.Context) error {
		claims, ok := Identity(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"id": claims.UserID})
	}, RequireAuth(tokens), Authorize(policy))
	return e
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewJWTService(testSecret)

	valid, err := tokens.Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-11 * time.Hour) }).Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	foreign, err := auth.NewJWTService("another-secret").Issue("user-1", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedMsg    string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "No token, authorization denied"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "No token, authorization denied"},
		{"malformed token", "Bearer malformed.token.here", http.StatusUnauthorized, "Token is not valid"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "Token is not valid"},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, "Token is not valid"},
	}

	e := newTestServer(tokens, AnyAuthenticated{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
			} else {
				assert.Equal(t, "user-1", body["id"])
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	tokens := auth.NewJWTService(testSecret)
	userToken, err := tokens.Issue("user-1", model.RoleUser)
	require.NoError(t, err)
	adminToken, err := tokens.Issue("admin-1", model.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name           string
		policy         Policy
		token          string
		expectedStatus int
	}{
		{"any authenticated admits user", AdminPolicy(false), userToken, http.StatusOK},
		{"role policy admits admin", AdminPolicy(true), adminToken, http.StatusOK},
		{"role policy denies user", AdminPolicy(true), userToken, http.StatusForbidden},
		{"explicit role mismatch", RequireRole("moderator"), adminToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tokens, tt.policy)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"message":"Access denied"}`, rec.Body.String())
			}
		})
	}
}

func TestPolicies_NilClaims(t *testing.T) {
	assert.False(t, AnyAuthenticated{}.Allow(nil))
	assert.False(t, RequireRole(model.RoleAdmin).Allow(nil))
}
