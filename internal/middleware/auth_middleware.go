package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/auth"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
)

// Context keys set by ResolvePrincipal.
const (
	principalKey = "principal"
	authErrorKey = "authError"
)

// AuthMiddleware resolves request credentials into a principal
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// ResolvePrincipal attaches the caller's principal to the context. It never
// aborts: a missing or invalid token yields the anonymous principal and the
// authorization check in the service decides what that may do.
func (m *AuthMiddleware) ResolvePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, m.resolve(c))
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) models.Principal {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return models.Anonymous
	}

	tokenString, err := auth.ExtractBearerToken(authHeader)
	if err != nil {
		c.Set(authErrorKey, err)
		return models.Anonymous
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected bearer token")
		c.Set(authErrorKey, err)
		return models.Anonymous
	}

	return models.Principal{
		ID:            claims.UserID,
		Role:          models.ParseRoleType(claims.RoleType),
		Authenticated: true,
	}
}

// PrincipalFrom returns the principal resolved for this request, or the
// anonymous principal when none was resolved.
func PrincipalFrom(c *gin.Context) models.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Anonymous
}

// SetPrincipal attaches p to the context.
func SetPrincipal(c *gin.Context, p models.Principal) {
	c.Set(principalKey, p)
}

func authErrorFrom(c *gin.Context) error {
	if v, ok := c.Get(authErrorKey); ok {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}
