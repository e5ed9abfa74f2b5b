package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	domainerrors "github.com/unifiedui/mongo-viewer/internal/domain/errors"
)

// ErrorMiddleware handles error recovery and formatting.
type ErrorMiddleware struct{}

// NewErrorMiddleware creates a new ErrorMiddleware.
func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

// Recovery returns a gin middleware that recovers from panics.
func (m *ErrorMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetRequestLogger(c)
				logger.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("server error")

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error: "Internal server error",
					Code:  domainerrors.ErrCodeInternal,
				})
			}
		}()
		c.Next()
	}
}

// HandleError handles errors and sends appropriate HTTP responses.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	abort(c, err, ErrorBody(err))
}

// ErrorBody builds the error envelope for err.
func ErrorBody(err error) dto.ErrorResponse {
	if domainErr, ok := domainerrors.GetDomainError(err); ok {
		return dto.ErrorResponse{
			Error: domainErr.Message,
			Code:  domainErr.Code,
		}
	}
	return dto.ErrorResponse{
		Error: err.Error(),
		Code:  domainerrors.ErrCodeInternal,
	}
}

func errorStatus(err error) int {
	if domainErr, ok := domainerrors.GetDomainError(err); ok && domainErr.HTTPStatus != 0 {
		return domainErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HandleFailure is HandleError with "success": false in the body.
func HandleFailure(c *gin.Context, err error) {
	if err == nil {
		return
	}
	body := ErrorBody(err)
	success := false
	body.Success = &success
	abort(c, err, body)
}

func abort(c *gin.Context, err error, body dto.ErrorResponse) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger := GetRequestLogger(c)
		logger.Error().
			Int("status", status).
			Str("cause", domainerrors.Describe(err)).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

// NotFound returns a 404 handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "resource not found",
			Code:    domainerrors.ErrCodeNotFound,
			Details: c.Request.URL.Path,
		})
	}
}
