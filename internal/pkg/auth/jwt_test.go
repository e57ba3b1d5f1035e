package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID int64, role string) Claims {
	return Claims{
		UserID:   userID,
		RoleType: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "unisphere.app",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestValidateAndExtractClaims(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "unisphere.app"})

	claims, err := svc.ValidateAndExtractClaims(sign(t, testSecret, validClaims(7, "STAFF")))
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "STAFF", claims.RoleType)
}

func TestValidateAndExtractClaims_Rejects(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: testSecret, TokenIssuer: "unisphere.app"})

	expired := validClaims(7, "STAFF")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongIssuer := validClaims(7, "STAFF")
	wrongIssuer.Issuer = "elsewhere"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrInvalidToken},
		{"bad signature", sign(t, "other-secret", validClaims(7, "STAFF")), ErrInvalidToken},
		{"expired", sign(t, testSecret, expired), ErrExpiredToken},
		{"wrong issuer", sign(t, testSecret, wrongIssuer), ErrInvalidToken},
		{"missing user id", sign(t, testSecret, validClaims(0, "STAFF")), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAndExtractClaims(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
