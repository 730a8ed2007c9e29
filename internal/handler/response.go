package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallery/internal/domain"
	"gallery/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidType):
		return http.StatusBadRequest, "INVALID_TYPE", "only image files are accepted"
	case errors.Is(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrListingFailed):
		return http.StatusBadGateway, "LISTING_FAILED", "loading images from storage failed"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		slog.Error("handler: request failed",
			"request_id", middleware.GetRequestID(c), "status", status, "error", err)
	}
	RespondError(c, status, code, msg)
}

// skipReasons explains why an upload request did not reach the store.
var skipReasons = map[domain.UploadStatus]string{
	domain.UploadStatusSkippedNoSelection: "no file selected",
	domain.UploadStatusSkippedInFlight:    "an upload is already in progress",
}

// RespondSkipped sends a 409 for an upload request that was a no-op.
func RespondSkipped(c *gin.Context, status domain.UploadStatus) {
	msg, ok := skipReasons[status]
	if !ok {
		msg = "upload skipped"
	}
	c.JSON(http.StatusConflict, APIResponse{
		Success: false,
		Data:    gin.H{"status": status},
		Error:   &APIError{Code: "UPLOAD_SKIPPED", Message: msg},
	})
}
