// Package export writes the gallery manifest as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gallery/internal/domain"
)

// columns defines the manifest header row.
var columns = []string{"ID", "Name", "URL"}

func imageToRow(img *domain.ImageRecord) []string {
	return []string{img.ID, img.Name, img.URL}
}

// Write writes images in the requested format.
func Write(w io.Writer, format domain.ExportFormat, images []domain.ImageRecord) error {
	switch format {
	case domain.ExportFormatCSV:
		return WriteCSV(w, images)
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, images)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, format)
	}
}

// ParseFormat resolves a user supplied format name, defaulting to CSV.
func ParseFormat(v string) (domain.ExportFormat, error) {
	switch domain.ExportFormat(strings.ToLower(strings.TrimSpace(v))) {
	case "", domain.ExportFormatCSV:
		return domain.ExportFormatCSV, nil
	case domain.ExportFormatXLSX:
		return domain.ExportFormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExportFormat, v)
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "gallery"
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}
