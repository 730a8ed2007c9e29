package service_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/config"
	"gallery/internal/domain"
	"gallery/internal/filehandle"
	"gallery/internal/service"
)

// pngContent returns minimal PNG bytes (magic bytes plus padding).
func pngContent() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

func imageInput(name string, size int64) service.SelectionInput {
	return service.SelectionInput{
		Name:      name,
		SizeBytes: size,
		MimeType:  "image/png",
		File:      filehandle.Bytes(pngContent()),
	}
}

func TestSelectionGuard_Select_ValidImage(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(imageInput("cat.png", 1024))

	require.NoError(t, err)
	assert.Equal(t, "cat.png", sel.Name)
	assert.Equal(t, int64(1024), sel.SizeBytes)
	assert.Equal(t, "image/png", sel.MimeType)
	assert.NotZero(t, sel.Token)
	assert.False(t, sel.SelectedAt.IsZero())

	current := guard.Current()
	require.NotNil(t, current)
	assert.Equal(t, sel.Token, current.Token)
	assert.Equal(t, "cat.png", guard.DisplayName())
}

func TestSelectionGuard_Select_InvalidType(t *testing.T) {
	tests := []struct {
		name string
		mime string
	}{
		{"pdf", "application/pdf"},
		{"text", "text/plain"},
		{"bare image prefix", "image/"},
		{"video", "video/mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := service.NewSelectionGuard(nil)

			sel, err := guard.Select(service.SelectionInput{
				Name:      "doc." + tt.name,
				SizeBytes: 10,
				MimeType:  tt.mime,
				File:      filehandle.Bytes([]byte("%PDF-1.4")),
			})

			assert.Nil(t, sel)
			assert.ErrorIs(t, err, domain.ErrInvalidType)
			assert.Nil(t, guard.Current())
			assert.Empty(t, guard.DisplayName())
		})
	}
}

func TestSelectionGuard_Select_MediaTypeParametersAndCase(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(service.SelectionInput{
		Name:      "photo.JPG",
		SizeBytes: 10,
		MimeType:  "Image/JPEG; charset=binary",
	})

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", sel.MimeType)
}

func TestSelectionGuard_Select_SniffsOctetStream(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(service.SelectionInput{
		Name:      "upload.bin",
		SizeBytes: int64(len(pngContent())),
		MimeType:  "application/octet-stream",
		File:      filehandle.Bytes(pngContent()),
	})

	require.NoError(t, err)
	assert.Equal(t, "image/png", sel.MimeType)
}

func TestSelectionGuard_Select_SniffedNonImageRejected(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(service.SelectionInput{
		Name:      "upload.bin",
		SizeBytes: 20,
		MimeType:  "",
		File:      filehandle.Bytes([]byte("MZ fake exe content")),
	})

	assert.Nil(t, sel)
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestSelectionGuard_Select_TooLarge(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(imageInput("huge.png", 5*1024*1024+1))

	assert.Nil(t, sel)
	assert.ErrorIs(t, err, domain.ErrTooLarge)
	assert.Nil(t, guard.Current())
}

func TestSelectionGuard_Select_ExactlyAtLimit(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	sel, err := guard.Select(imageInput("edge.png", 5*1024*1024))

	require.NoError(t, err)
	assert.Equal(t, "edge.png", sel.Name)
}

func TestSelectionGuard_Select_ConfiguredLimit(t *testing.T) {
	guard := service.NewSelectionGuard(&config.UploadConfig{MaxFileSizeBytes: 100})

	_, err := guard.Select(imageInput("small.png", 101))
	assert.ErrorIs(t, err, domain.ErrTooLarge)

	_, err = guard.Select(imageInput("small.png", 100))
	assert.NoError(t, err)
}

func TestSelectionGuard_Select_TypeCheckedBeforeSize(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	_, err := guard.Select(service.SelectionInput{
		Name:      "movie.mp4",
		SizeBytes: 50 * 1024 * 1024,
		MimeType:  "video/mp4",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidType)
	assert.NotErrorIs(t, err, domain.ErrTooLarge)
}

func TestSelectionGuard_Select_RejectionDiscardsPreviousSelection(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	_, err := guard.Select(imageInput("cat.png", 1024))
	require.NoError(t, err)

	_, err = guard.Select(service.SelectionInput{Name: "notes.txt", SizeBytes: 5, MimeType: "text/plain"})
	require.ErrorIs(t, err, domain.ErrInvalidType)

	assert.Nil(t, guard.Current())
	assert.Empty(t, guard.DisplayName())
}

func TestSelectionGuard_Select_ReplacesPreviousSelection(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	first, err := guard.Select(imageInput("cat.png", 1024))
	require.NoError(t, err)
	second, err := guard.Select(imageInput("dog.png", 2048))
	require.NoError(t, err)

	assert.Greater(t, second.Token, first.Token)
	assert.Equal(t, "dog.png", guard.Current().Name)
}

func TestSelectionGuard_Clear_Idempotent(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	_, err := guard.Select(imageInput("cat.png", 1024))
	require.NoError(t, err)

	guard.Clear()
	assert.Nil(t, guard.Current())
	assert.Empty(t, guard.DisplayName())

	guard.Clear()
	assert.Nil(t, guard.Current())
}

func TestSelectionGuard_Current_ReturnsCopy(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	_, err := guard.Select(imageInput("cat.png", 1024))
	require.NoError(t, err)

	sel := guard.Current()
	sel.Name = "mutated.png"

	assert.Equal(t, "cat.png", guard.Current().Name)
}

func TestSelectionGuard_ClearIfCurrent(t *testing.T) {
	guard := service.NewSelectionGuard(nil)

	first, err := guard.Select(imageInput("cat.png", 1024))
	require.NoError(t, err)
	second, err := guard.Select(imageInput("dog.png", 1024))
	require.NoError(t, err)

	assert.False(t, guard.ClearIfCurrent(first.Token))
	assert.Equal(t, "dog.png", guard.DisplayName())

	assert.True(t, guard.ClearIfCurrent(second.Token))
	assert.Nil(t, guard.Current())

	assert.False(t, guard.ClearIfCurrent(second.Token))
}
