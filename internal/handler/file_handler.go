package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ObjectReader reads stored bytes directly. The in-process store implements it.
type ObjectReader interface {
	Read(bucket, id string) ([]byte, string, bool)
}

// FileHandler serves object bytes for stores without their own HTTP endpoint.
type FileHandler struct {
	objects ObjectReader
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(objects ObjectReader) *FileHandler {
	return &FileHandler{objects: objects}
}

// Get handles GET /files/:bucket/:id
func (h *FileHandler) Get(c *gin.Context) {
	data, contentType, ok := h.objects.Read(c.Param("bucket"), c.Param("id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "NOT_FOUND", "file not found")
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}
