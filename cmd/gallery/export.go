package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gallery/internal/domain"
	"gallery/internal/export"
)

func exportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the gallery manifest as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if err := a.gallery.Reload(runContext(cmd)); err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(a.out, f, a.gallery.Images())
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := writeAndClose(file, f, a.gallery.Images()); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")

	return cmd
}

// writeAndClose reports a failed Close, which is where buffered file data
// surfaces its write errors.
func writeAndClose(wc io.WriteCloser, f domain.ExportFormat, images []domain.ImageRecord) error {
	if err := export.Write(wc, f, images); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
