package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unisphere-courses/internal/app/models/dto"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
	"github.com/yigit/unisphere-courses/internal/pkg/auth"
	"github.com/yigit/unisphere-courses/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(c, err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(c *gin.Context, err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized, unauthenticatedDetail(authErrorFrom(c))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		if fields := apperrors.DetailsOf(err); len(fields) > 0 {
			detail = detail.WithDetails(fields)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// unauthenticatedDetail explains a 401 using the token error recorded by ResolvePrincipal.
func unauthenticatedDetail(tokenErr error) *dto.ErrorDetail {
	switch {
	case tokenErr == nil:
		return dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Authorization header missing")
	case errors.Is(tokenErr, auth.ErrExpiredToken):
		return dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Authentication failed").
			WithDetails("Token has expired")
	case errors.Is(tokenErr, auth.ErrInvalidFormat):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("Invalid token format")
	default:
		return dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("Invalid token")
	}
}
