package export

import (
	"encoding/csv"
	"io"

	"gallery/internal/domain"
)

// BOM is the UTF-8 byte order mark, written first so Excel on Windows reads
// non-ASCII file names correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the BOM, the header row and one row per image.
func WriteCSV(w io.Writer, images []domain.ImageRecord) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for i := range images {
		if err := cw.Write(imageToRow(&images[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
