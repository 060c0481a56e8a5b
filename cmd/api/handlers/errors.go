package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/services"
	"techsphere/cmd/api/trace"
	"techsphere/cmd/internal/logger"
)

const internalErrorMessage = "Internal server error"

// respondError 는 서비스 계층 에러를 HTTP 상태 코드와 응답 본문으로 변환한다.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		generationErr *services.GenerationError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: validationErr.Error()})
	case errors.Is(err, services.ErrBlogNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "Blog not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "User not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponseDTO{Error: "Forbidden"})
	case errors.As(err, &maxBytesErr):
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{Error: "Request entity too large"})
	case errors.As(err, &generationErr):
		logger.ErrorWithFields(generationErr.Message, trace.LogFields(c.Request.Context(), logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}))
		c.JSON(http.StatusInternalServerError, dto.ErrorDetailsResponseDTO{
			Error:   generationErr.Message,
			Details: generationErr.Details,
		})
	default:
		logger.ErrorWithFields("request failed", trace.LogFields(c.Request.Context(), logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: internalErrorMessage})
	}
}

// bindJSON decodes the body into dst and writes the error response on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponseDTO{Error: "Request entity too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "Invalid JSON body"})
		return false
	}
	return true
}

// bindQuery decodes the query string into dst and writes 400 on failure.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "Invalid query parameters"})
		return false
	}
	return true
}
