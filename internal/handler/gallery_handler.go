package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gallery/internal/domain"
	"gallery/internal/export"
	"gallery/internal/filehandle"
	"gallery/internal/service"
)

var errMissingFile = errors.New("file field is required")

// GalleryHandler serves the JSON API over the selection guard and the
// gallery synchronizer.
type GalleryHandler struct {
	guard      service.SelectionGuard
	gallery    service.GallerySync
	maxBytes   int64
	exportName string
}

// NewGalleryHandler creates a new GalleryHandler. maxBytes bounds how much of
// an uploaded file is buffered; exportName prefixes export file names.
func NewGalleryHandler(guard service.SelectionGuard, gallery service.GallerySync, maxBytes int64, exportName string) *GalleryHandler {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxFileSizeBytes
	}
	return &GalleryHandler{guard: guard, gallery: gallery, maxBytes: maxBytes, exportName: exportName}
}

// selectionView is the JSON shape of the current selection.
type selectionView struct {
	Selected  bool                     `json:"selected"`
	Selection *domain.PendingSelection `json:"selection,omitempty"`
}

// GetSelection handles GET /api/v1/selection
// @Summary Get the current selection
// @Tags selection
// @Produce json
// @Success 200 {object} APIResponse "Current selection, if any"
// @Router /selection [get]
func (h *GalleryHandler) GetSelection(c *gin.Context) {
	sel := h.guard.Current()
	RespondOK(c, selectionView{Selected: sel != nil, Selection: sel})
}

// Select handles POST /api/v1/selection
// @Summary Choose a file for upload
// @Description Validates the file (image/*, size limit) and makes it the pending selection
// @Tags selection
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 201 {object} APIResponse "File selected"
// @Failure 400 {object} APIResponse "Missing file or not an image"
// @Failure 413 {object} APIResponse "File too large"
// @Router /selection [post]
func (h *GalleryHandler) Select(c *gin.Context) {
	input, err := readSelection(c, h.maxBytes)
	if err != nil {
		if errors.Is(err, errMissingFile) {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", err.Error())
			return
		}
		HandleError(c, err)
		return
	}

	sel, err := h.guard.Select(input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, selectionView{Selected: true, Selection: sel})
}

// ClearSelection handles DELETE /api/v1/selection
// @Summary Discard the current selection
// @Tags selection
// @Produce json
// @Success 200 {object} APIResponse "Selection cleared"
// @Router /selection [delete]
func (h *GalleryHandler) ClearSelection(c *gin.Context) {
	h.guard.Clear()
	RespondOK(c, selectionView{Selected: false})
}

// ListImages handles GET /api/v1/images
// @Summary List gallery images
// @Description Returns the in-memory image list with the synchronizer state
// @Tags images
// @Produce json
// @Success 200 {object} APIResponse{data=domain.GallerySnapshot} "Gallery snapshot"
// @Router /images [get]
func (h *GalleryHandler) ListImages(c *gin.Context) {
	RespondOK(c, h.gallery.Snapshot())
}

// Reload handles POST /api/v1/images/reload
// @Summary Reload images from storage
// @Tags images
// @Produce json
// @Success 200 {object} APIResponse{data=domain.GallerySnapshot} "Reloaded"
// @Failure 502 {object} APIResponse "Listing failed"
// @Router /images/reload [post]
func (h *GalleryHandler) Reload(c *gin.Context) {
	if err := h.gallery.Reload(context.WithoutCancel(c.Request.Context())); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, h.gallery.Snapshot())
}

// Upload handles POST /api/v1/images/upload
// @Summary Upload the current selection
// @Description Creates the selected file in storage and appends it to the gallery
// @Tags images
// @Produce json
// @Success 201 {object} APIResponse{data=domain.UploadResult} "Uploaded"
// @Failure 409 {object} APIResponse "Nothing selected or an upload is already in progress"
// @Failure 502 {object} APIResponse "Upload failed"
// @Router /images/upload [post]
func (h *GalleryHandler) Upload(c *gin.Context) {
	// The upload outlives a disconnecting client.
	result, err := h.gallery.Upload(context.WithoutCancel(c.Request.Context()), h.guard.Current())
	if err != nil {
		HandleError(c, err)
		return
	}
	if !result.Issued() {
		RespondSkipped(c, result.Status)
		return
	}
	RespondCreated(c, result)
}

// Export handles GET /api/v1/images/export
// @Summary Export the gallery manifest
// @Tags images
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {file} file "Manifest"
// @Failure 400 {object} APIResponse "Unsupported format"
// @Router /images/export [get]
func (h *GalleryHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(h.exportName, format, time.Now())
	c.Header("Content-Type", domain.ExportContentTypes[format])
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := export.Write(c.Writer, format, h.gallery.Images()); err != nil {
		// Headers are already sent; the body is truncated.
		_ = c.Error(err)
	}
}

// readSelection reads the multipart "file" field into memory. At most
// maxBytes+1 bytes are kept; the guard rejects anything larger by its
// declared size.
func readSelection(c *gin.Context, maxBytes int64) (service.SelectionInput, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return service.SelectionInput{}, errMissingFile
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return service.SelectionInput{}, fmt.Errorf("reading %s: %w", header.Filename, err)
	}

	return service.SelectionInput{
		Name:      header.Filename,
		SizeBytes: declaredSize(header, data),
		MimeType:  header.Header.Get("Content-Type"),
		File:      filehandle.Bytes(data),
	}, nil
}

func declaredSize(header *multipart.FileHeader, data []byte) int64 {
	if header.Size > 0 {
		return header.Size
	}
	return int64(len(data))
}
