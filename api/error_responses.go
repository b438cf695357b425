package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oerhub/discovery/services"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrorCodeMaterialNotFound ErrorCode = "MATERIAL_NOT_FOUND"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	// Server Error Codes (5xx)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response. Query echoes the
// effective search parameters on parameter errors for debuggability.
type APIError struct {
	Error     string                  `json:"error"`
	Code      ErrorCode               `json:"code"`
	Message   string                  `json:"message"`
	Details   []ErrorDetail           `json:"details,omitempty"`
	Query     *services.SearchRequest `json:"query,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
	RequestID string                  `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	sendErrorResponse(c, statusCode, APIErrorResponse(code, message, details...))
}

func sendErrorResponse(c *gin.Context, statusCode int, errorResponse *APIError) {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}
	c.JSON(statusCode, errorResponse)
}

// SendMissingParameterError reports an absent required search parameter,
// echoing the normalized query so callers can see what was understood.
func SendMissingParameterError(c *gin.Context, message string, query services.SearchRequest) {
	errorResponse := APIErrorResponse(ErrorCodeMissingParameter, message)
	errorResponse.Query = &query
	sendErrorResponse(c, http.StatusBadRequest, errorResponse)
}

// SendMaterialNotFoundError sends a standardized material not found error
func SendMaterialNotFoundError(c *gin.Context, materialID string) {
	SendError(c, http.StatusNotFound, ErrorCodeMaterialNotFound,
		"Material '"+materialID+"' not found")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error. Upstream
// detail is deliberately not included in the response.
func SendInternalError(c *gin.Context, operation string) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation)
}
