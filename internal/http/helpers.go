package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/auth"
	"github.com/bookfriends/server/internal/collection"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PageResponse wraps one page of a paginated list.
type PageResponse struct {
	Data     any  `json:"data"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondCollectionError maps a collection error to its status code and
// exposes its kind as the error code. Persistence failures are logged and
// their cause is hidden.
func respondCollectionError(c *gin.Context, err error, context string) {
	var cerr *collection.Error
	if !errors.As(err, &cerr) {
		respondInternalError(c, err, context)
		return
	}

	status := cerr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("Collection error (%s): %v", context, err)
	}
	message := cerr.Message
	if cerr.Kind == collection.KindPersistence {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Error: message, Code: string(cerr.Kind)})
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parsePageQuery reads the 1-based "page" query parameter, defaulting to 1.
// Responds with 400 and returns false when it is not a positive integer.
func parsePageQuery(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		respondBadRequest(c, "page must be a positive integer")
		return 0, false
	}
	return page, true
}
