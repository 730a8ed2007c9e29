package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gallery/internal/domain"
)

// SheetName is the worksheet holding the manifest.
const SheetName = "Images"

// WriteXLSX writes a single-sheet workbook with a header row and one row per image.
func WriteXLSX(w io.Writer, images []domain.ImageRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := writeXLSXRow(f, 1, columns); err != nil {
		return err
	}
	for i := range images {
		if err := writeXLSXRow(f, i+2, imageToRow(&images[i])); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "C", 80); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeXLSXRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}
