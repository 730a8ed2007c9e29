// Package filehandle provides domain.FileHandle implementations for chosen
// files that live in memory or on disk.
package filehandle

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"gallery/internal/domain"
	"gallery/internal/service"
)

type memoryHandle struct {
	data []byte
}

// Bytes returns a handle over an in-memory copy of the file contents.
func Bytes(data []byte) domain.FileHandle {
	return &memoryHandle{data: data}
}

func (h *memoryHandle) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(h.data)), nil
}

type pathHandle struct {
	path string
}

// Path returns a handle that reopens the file at path on every Open.
func Path(path string) domain.FileHandle {
	return &pathHandle{path: path}
}

func (h *pathHandle) Open() (io.ReadCloser, error) {
	return os.Open(h.path)
}

// SelectionFromPath describes the file at path as a selection input, with the
// MIME type detected from its contents.
func SelectionFromPath(path string) (service.SelectionInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return service.SelectionInput{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return service.SelectionInput{}, fmt.Errorf("%s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return service.SelectionInput{}, fmt.Errorf("detecting type of %s: %w", path, err)
	}

	return service.SelectionInput{
		Name:      filepath.Base(path),
		SizeBytes: info.Size(),
		MimeType:  mt.String(),
		File:      Path(path),
	}, nil
}
