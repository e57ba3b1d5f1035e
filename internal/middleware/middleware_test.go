package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/app/models/dto"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
	"github.com/yigit/unisphere-courses/internal/pkg/auth"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, userID int64, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := auth.Claims{
		UserID:   userID,
		RoleType: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func principalRouter() *gin.Engine {
	m := NewAuthMiddleware(auth.NewJWTService(auth.JWTConfig{SecretKey: testSecret}))
	r := gin.New()
	r.Use(m.ResolvePrincipal())
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, PrincipalFrom(c))
	})
	return r
}

func whoami(t *testing.T, r *gin.Engine, authHeader string) models.Principal {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestResolvePrincipal(t *testing.T) {
	r := principalRouter()

	p := whoami(t, r, "Bearer "+signToken(t, 7, "staff", time.Hour))
	assert.Equal(t, models.Principal{ID: 7, Role: models.RoleStaff, Authenticated: true}, p)

	p = whoami(t, r, "Bearer "+signToken(t, 8, "JANITOR", time.Hour))
	assert.True(t, p.Authenticated)
	assert.Equal(t, models.RoleType(""), p.Role, "unknown roles carry no rank")
}

func TestResolvePrincipal_InvalidCredentialsAreAnonymous(t *testing.T) {
	r := principalRouter()

	assert.Equal(t, models.Anonymous, whoami(t, r, ""))
	assert.Equal(t, models.Anonymous, whoami(t, r, "Basic dXNlcjpwYXNz"))
	assert.Equal(t, models.Anonymous, whoami(t, r, "Bearer "+signToken(t, 7, "ADMIN", -time.Minute)))
	assert.Equal(t, models.Anonymous, whoami(t, r, "Bearer not.a.token"))
}

func errorRouter(err error, tokenErr error) *gin.Engine {
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		if tokenErr != nil {
			c.Set(authErrorKey, tokenErr)
		}
		HandleAPIError(c, err)
	})
	return r
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not authenticated", apperrors.ErrNotAuthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"validation", apperrors.NewValidationError("invalid course data", nil), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad request", fmt.Errorf("%w: malformed json", apperrors.ErrBadRequest), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			errorRouter(tt.err, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.status, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIError_ValidationDetails(t *testing.T) {
	err := apperrors.NewValidationError("invalid course data", map[string]interface{}{"title": "title is required"})
	w := httptest.NewRecorder()
	errorRouter(err, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var resp struct {
		Error struct {
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid course data", resp.Error.Message)
	assert.Equal(t, "title is required", resp.Error.Details["title"])
}

func TestHandleAPIError_ExpiredTokenDetail(t *testing.T) {
	w := httptest.NewRecorder()
	errorRouter(apperrors.ErrNotAuthenticated, auth.ErrExpiredToken).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeExpiredToken, resp.Error.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zerolog.New(&buf)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["requestID"])
	assert.Equal(t, "/ok", entry["path"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])

	// Without an incoming id one is generated.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
