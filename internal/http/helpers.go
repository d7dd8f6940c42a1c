package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/redshift-manager/internal/agent"
	"github.com/mrlokans/redshift-manager/internal/configstore"
	"github.com/mrlokans/redshift-manager/internal/hotkeys"
	"github.com/mrlokans/redshift-manager/internal/presets"
	"github.com/mrlokans/redshift-manager/internal/suncalc"
)

// requestTimeout bounds how long a handler waits for the agent's task queue.
const requestTimeout = 10 * time.Second

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, op string) {
	log.Printf("Internal error (%s): %v", op, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// respondAgentError maps errors of agent operations to status codes.
func respondAgentError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, agent.ErrInvalidSettings):
		respondError(c, http.StatusBadRequest, "invalid_settings", err)
	case errors.Is(err, configstore.ErrInvalidFormat):
		respondError(c, http.StatusBadRequest, "invalid_format", err)
	case errors.Is(err, presets.ErrIndexOutOfRange), errors.Is(err, agent.ErrPresetNotFound):
		respondError(c, http.StatusNotFound, "preset_not_found", err)
	case errors.Is(err, hotkeys.ErrUnknownBinding):
		respondError(c, http.StatusNotFound, "binding_not_found", err)
	case errors.Is(err, presets.ErrDebounced):
		respondError(c, http.StatusTooManyRequests, "debounced", err)
	case errors.Is(err, agent.ErrDisabled):
		respondError(c, http.StatusConflict, "disabled", err)
	case errors.Is(err, suncalc.ErrNoSunriseSunset):
		respondError(c, http.StatusUnprocessableEntity, "no_sun_times", err)
	case errors.Is(err, agent.ErrStopped), errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusServiceUnavailable, "unavailable", err)
	default:
		respondInternalError(c, err, op)
	}
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parsePageParams reads page and limit query parameters.
func parsePageParams(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}

// requestContext derives the context handlers pass to the agent.
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}
