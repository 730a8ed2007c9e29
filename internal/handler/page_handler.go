package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gallery/internal/domain"
	"gallery/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate is the name of the gallery page template.
const IndexTemplate = "index.html"

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// PageHandler serves the server-rendered gallery page and its form posts.
// Form posts redirect back to the page, carrying any message in ?flash=.
type PageHandler struct {
	guard    service.SelectionGuard
	gallery  service.GallerySync
	maxBytes int64
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(guard service.SelectionGuard, gallery service.GallerySync, maxBytes int64) *PageHandler {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxFileSizeBytes
	}
	return &PageHandler{guard: guard, gallery: gallery, maxBytes: maxBytes}
}

// PageData is the view model of the gallery page.
type PageData struct {
	Images      []domain.ImageRecord
	DisplayName string
	CanUpload   bool
	Uploading   bool
	Loading     bool
	Flash       string
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	snap := h.gallery.Snapshot()
	name := h.guard.DisplayName()

	flash := c.Query("flash")
	if flash == "" && snap.LastError != "" {
		flash = "Last storage operation failed. Try again."
	}

	c.HTML(http.StatusOK, IndexTemplate, PageData{
		Images:      snap.Images,
		DisplayName: name,
		CanUpload:   name != "" && !snap.UploadInFlight,
		Uploading:   snap.UploadInFlight,
		Loading:     snap.State == domain.SyncStateLoading,
		Flash:       flash,
	})
}

// Select handles POST /select
func (h *PageHandler) Select(c *gin.Context) {
	input, err := readSelection(c, h.maxBytes)
	if err != nil {
		if errors.Is(err, errMissingFile) {
			redirectHome(c, "Choose a file first.")
			return
		}
		redirectHome(c, flashMessage(err))
		return
	}

	if _, err := h.guard.Select(input); err != nil {
		redirectHome(c, flashMessage(err))
		return
	}
	redirectHome(c, "")
}

// Upload handles POST /upload
func (h *PageHandler) Upload(c *gin.Context) {
	result, err := h.gallery.Upload(context.WithoutCancel(c.Request.Context()), h.guard.Current())
	switch {
	case err != nil:
		redirectHome(c, flashMessage(err))
	case !result.Issued():
		redirectHome(c, skipReasons[result.Status])
	default:
		redirectHome(c, "")
	}
}

// Clear handles POST /clear
func (h *PageHandler) Clear(c *gin.Context) {
	h.guard.Clear()
	redirectHome(c, "")
}

func flashMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidType):
		return "Please choose an image file."
	case errors.Is(err, domain.ErrTooLarge):
		return "That file is too large."
	case errors.Is(err, domain.ErrUploadFailed):
		return "Upload failed. Your file is still selected; try again."
	case errors.Is(err, domain.ErrListingFailed):
		return "Could not load images."
	default:
		return "Something went wrong."
	}
}

func redirectHome(c *gin.Context, flash string) {
	target := "/"
	if flash != "" {
		target += "?flash=" + url.QueryEscape(flash)
	}
	c.Redirect(http.StatusSeeOther, target)
}
