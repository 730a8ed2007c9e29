package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/port"
)

// GallerySync keeps the in-memory image list consistent with the object
// store. At most one upload is in flight at a time; reloads may overlap and
// the last one to finish wins.
type GallerySync interface {
	Reload(ctx context.Context) error
	Upload(ctx context.Context, sel *domain.PendingSelection) (*domain.UploadResult, error)
	Images() []domain.ImageRecord
	State() domain.SyncState
	UploadInFlight() bool
	Snapshot() domain.GallerySnapshot
}

type gallerySync struct {
	storage port.ObjectStorage
	guard   SelectionGuard
	metrics port.GalleryMetrics
	bucket  string

	mu       sync.Mutex
	images   []domain.ImageRecord
	inFlight bool
	loading  int
	lastErr  string
}

// NewGallerySync creates a new GallerySync implementation. metrics may be nil.
func NewGallerySync(
	storage port.ObjectStorage,
	guard SelectionGuard,
	metrics port.GalleryMetrics,
	cfg *config.StorageConfig,
) GallerySync {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &gallerySync{
		storage: storage,
		guard:   guard,
		metrics: metrics,
		bucket:  cfg.Bucket,
		images:  []domain.ImageRecord{},
	}
}

func (s *gallerySync) Reload(ctx context.Context) error {
	start := time.Now()

	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}()

	images, err := s.fetchAll(ctx)
	if err != nil {
		slog.Error("gallerySync.Reload: failed to load images", "bucket", s.bucket, "error", err)
		s.metrics.ObserveReload(port.OutcomeFailure, time.Since(start))
		s.setLastError(err)
		return fmt.Errorf("%w: %w", domain.ErrListingFailed, err)
	}

	s.mu.Lock()
	s.images = images
	s.lastErr = ""
	n := len(s.images)
	// Under the lock so the gauge follows the same order as the writes.
	s.metrics.SetImageCount(n)
	s.mu.Unlock()

	slog.Info("gallerySync.Reload: images loaded", "bucket", s.bucket, "count", n)
	s.metrics.ObserveReload(port.OutcomeSuccess, time.Since(start))
	return nil
}

func (s *gallerySync) fetchAll(ctx context.Context) ([]domain.ImageRecord, error) {
	objects, err := s.storage.List(ctx, s.bucket)
	if err != nil {
		return nil, err
	}

	images := make([]domain.ImageRecord, 0, len(objects))
	for _, obj := range objects {
		url, err := s.storage.ResolveViewURL(ctx, s.bucket, obj.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving view url for %s: %w", obj.ID, err)
		}
		name := obj.Name
		if name == "" {
			name = obj.ID
		}
		images = append(images, domain.ImageRecord{ID: obj.ID, Name: name, URL: url})
	}
	return images, nil
}

func (s *gallerySync) Upload(ctx context.Context, sel *domain.PendingSelection) (*domain.UploadResult, error) {
	if sel == nil {
		slog.Warn("gallerySync.Upload: no file selected")
		s.metrics.ObserveUpload(port.OutcomeSkipped, 0)
		return &domain.UploadResult{Status: domain.UploadStatusSkippedNoSelection}, nil
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		slog.Warn("gallerySync.Upload: upload already in flight", "name", sel.Name)
		s.metrics.ObserveUpload(port.OutcomeSkipped, 0)
		return &domain.UploadResult{Status: domain.UploadStatusSkippedInFlight}, nil
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	start := time.Now()
	slog.Info("gallerySync.Upload: uploading file",
		"name", sel.Name, "mime_type", sel.MimeType, "size_bytes", sel.SizeBytes, "bucket", s.bucket)

	record, err := s.createRecord(ctx, sel)
	if err != nil {
		slog.Error("gallerySync.Upload: upload failed", "name", sel.Name, "error", err)
		s.metrics.ObserveUpload(port.OutcomeFailure, time.Since(start))
		s.setLastError(err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}

	s.mu.Lock()
	s.images = append(s.images, *record)
	s.lastErr = ""
	s.metrics.SetImageCount(len(s.images))
	s.mu.Unlock()

	s.guard.ClearIfCurrent(sel.Token)

	slog.Info("gallerySync.Upload: upload successful", "id", record.ID, "name", record.Name)
	s.metrics.ObserveUpload(port.OutcomeSuccess, time.Since(start))

	return &domain.UploadResult{Status: domain.UploadStatusCompleted, Image: record}, nil
}

func (s *gallerySync) createRecord(ctx context.Context, sel *domain.PendingSelection) (*domain.ImageRecord, error) {
	if sel.File == nil {
		return nil, fmt.Errorf("selection %s has no file handle", sel.Name)
	}
	body, err := sel.File.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", sel.Name, err)
	}
	defer func() { _ = body.Close() }()

	obj, err := s.storage.Create(ctx, port.CreateInput{
		Bucket:      s.bucket,
		ID:          domain.UniqueID,
		Name:        sel.Name,
		Body:        body,
		ContentType: sel.MimeType,
		Size:        sel.SizeBytes,
	})
	if err != nil {
		return nil, err
	}

	url, err := s.storage.ResolveViewURL(ctx, s.bucket, obj.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving view url for %s: %w", obj.ID, err)
	}

	return &domain.ImageRecord{ID: obj.ID, Name: sel.Name, URL: url}, nil
}

func (s *gallerySync) Images() []domain.ImageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ImageRecord, len(s.images))
	copy(out, s.images)
	return out
}

func (s *gallerySync) State() domain.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *gallerySync) stateLocked() domain.SyncState {
	switch {
	case s.inFlight:
		return domain.SyncStateUploading
	case s.loading > 0:
		return domain.SyncStateLoading
	default:
		return domain.SyncStateIdle
	}
}

func (s *gallerySync) UploadInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *gallerySync) Snapshot() domain.GallerySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]domain.ImageRecord, len(s.images))
	copy(images, s.images)
	return domain.GallerySnapshot{
		Images:         images,
		State:          s.stateLocked(),
		UploadInFlight: s.inFlight,
		LastError:      s.lastErr,
	}
}

func (s *gallerySync) setLastError(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

type noopMetrics struct{}

func (noopMetrics) ObserveUpload(string, time.Duration) {}
func (noopMetrics) ObserveReload(string, time.Duration) {}
func (noopMetrics) SetImageCount(int)                   {}
