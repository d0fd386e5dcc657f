package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appcheckout "github.com/babel-30/sugarplum-backend/internal/application/checkout"
	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/dto"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError sends a 400 response for a failed request body bind,
// carrying per-field validation details when available
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatBindingError(err))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// HandleError maps service-layer errors onto HTTP responses. Availability
// conflicts carry the per-line detail so the storefront can render every
// failing line at once; vendor failures surface as 502.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var conflict *appcheckout.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, dto.NewErrorResponseWithDetails(
			dto.ErrCodeItemsConflict,
			"Some items in your cart are no longer available",
			gin.H{"conflicts": conflict.Conflicts},
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, statusForDomainError(domainErr), domainErr.Code, domainErr.Message)
		return
	}

	if errors.Is(err, integration.ErrPlatformUnavailable) ||
		errors.Is(err, integration.ErrPlatformRequestFailed) ||
		errors.Is(err, integration.ErrPlatformInvalidResponse) {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUnavailable, "Commerce platform is unavailable")
		return
	}

	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Internal server error")
}

func statusForDomainError(err *shared.DomainError) int {
	switch err {
	case shared.ErrNotFound:
		return http.StatusNotFound
	case shared.ErrDuplicate:
		return http.StatusConflict
	case shared.ErrNoSnapshot:
		return http.StatusServiceUnavailable
	case shared.ErrInsufficientStock:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
