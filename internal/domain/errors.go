package domain

import "errors"

var (
	ErrInvalidType             = errors.New("file is not an image")
	ErrTooLarge                = errors.New("file exceeds maximum allowed size")
	ErrListingFailed           = errors.New("loading images from storage failed")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrUnknownStorageProvider  = errors.New("unknown storage provider")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)
