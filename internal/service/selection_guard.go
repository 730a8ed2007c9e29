package service

import (
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"gallery/internal/config"
	"gallery/internal/domain"
)

// SelectionInput describes a file the user has just chosen.
type SelectionInput struct {
	Name      string
	SizeBytes int64
	MimeType  string
	File      domain.FileHandle
}

// SelectionGuard owns the chosen, not yet uploaded file and enforces the
// type and size policy as soon as a file is chosen.
type SelectionGuard interface {
	Select(input SelectionInput) (*domain.PendingSelection, error)
	Clear()
	Current() *domain.PendingSelection
	DisplayName() string
	// ClearIfCurrent discards the selection only if it is still the one
	// identified by token.
	ClearIfCurrent(token uint64) bool
}

type selectionGuard struct {
	maxBytes int64
	now      func() time.Time

	mu      sync.Mutex
	current *domain.PendingSelection
	seq     uint64
}

// NewSelectionGuard creates a new SelectionGuard implementation.
func NewSelectionGuard(cfg *config.UploadConfig) SelectionGuard {
	maxBytes := domain.DefaultMaxFileSizeBytes
	if cfg != nil && cfg.MaxFileSizeBytes > 0 {
		maxBytes = cfg.MaxFileSizeBytes
	}
	return &selectionGuard{maxBytes: maxBytes, now: time.Now}
}

func (g *selectionGuard) Select(input SelectionInput) (*domain.PendingSelection, error) {
	mediaType := normalizeMediaType(input.MimeType)
	if needsSniffing(mediaType) && input.File != nil {
		if detected, err := sniffMediaType(input.File); err == nil {
			mediaType = detected
		} else {
			slog.Debug("selectionGuard.Select: content sniffing failed", "name", input.Name, "error", err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// A newly chosen file always replaces what was shown, even when rejected.
	g.current = nil

	if !isImageMediaType(mediaType) {
		if mediaType == "" {
			mediaType = "unknown"
		}
		return nil, fmt.Errorf("%w: %s has type %s", domain.ErrInvalidType, input.Name, mediaType)
	}
	if input.SizeBytes > g.maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrTooLarge, input.Name, input.SizeBytes, g.maxBytes)
	}

	g.seq++
	g.current = &domain.PendingSelection{
		Token:      g.seq,
		Name:       input.Name,
		SizeBytes:  input.SizeBytes,
		MimeType:   mediaType,
		File:       input.File,
		SelectedAt: g.now(),
	}

	sel := *g.current
	return &sel, nil
}

func (g *selectionGuard) Clear() {
	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()
}

func (g *selectionGuard) Current() *domain.PendingSelection {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return nil
	}
	sel := *g.current
	return &sel
}

func (g *selectionGuard) DisplayName() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return ""
	}
	return g.current.Name
}

func (g *selectionGuard) ClearIfCurrent(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil || g.current.Token != token {
		return false
	}
	g.current = nil
	return true
}

// normalizeMediaType strips parameters and lowercases a MIME type.
func normalizeMediaType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(v, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func needsSniffing(mediaType string) bool {
	return mediaType == "" || mediaType == "application/octet-stream"
}

func sniffMediaType(h domain.FileHandle) (string, error) {
	rc, err := h.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	detected, err := mimetype.DetectReader(rc)
	if err != nil {
		return "", err
	}
	return normalizeMediaType(detected.String()), nil
}

func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/") && len(mediaType) > len("image/")
}
