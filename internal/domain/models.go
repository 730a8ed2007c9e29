package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// UniqueID asks the object store to generate a fresh identifier on create.
const UniqueID = "unique()"

// NewObjectID returns requested unchanged unless it is empty or UniqueID,
// in which case a new random identifier is generated.
func NewObjectID(requested string) string {
	if requested == "" || requested == UniqueID {
		return uuid.NewString()
	}
	return requested
}

// ImageRecord is a single image known to the gallery. Identity is ID.
type ImageRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FileHandle gives repeatable access to the bytes of a chosen file, so a
// failed upload can be retried without choosing the file again.
type FileHandle interface {
	Open() (io.ReadCloser, error)
}

// PendingSelection is the chosen, not yet uploaded file.
type PendingSelection struct {
	Token      uint64     `json:"token"`
	Name       string     `json:"name"`
	SizeBytes  int64      `json:"size_bytes"`
	MimeType   string     `json:"mime_type"`
	File       FileHandle `json:"-"`
	SelectedAt time.Time  `json:"selected_at"`
}

// UploadResult reports how an upload request was handled.
type UploadResult struct {
	Status UploadStatus `json:"status"`
	Image  *ImageRecord `json:"image,omitempty"`
}

// Issued reports whether the upload reached the object store.
func (r *UploadResult) Issued() bool {
	return r != nil && r.Status == UploadStatusCompleted
}

// GallerySnapshot is a point-in-time copy of the synchronizer state.
type GallerySnapshot struct {
	Images         []ImageRecord `json:"images"`
	State          SyncState     `json:"state"`
	UploadInFlight bool          `json:"upload_in_flight"`
	LastError      string        `json:"last_error,omitempty"`
}
