package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gallery/internal/filehandle"
)

func uploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Validate and upload image files one after another",
		Long: `Each file is checked like a selection in the web page: it must be an
image within the configured size limit. Rejected files are reported and
skipped; the remaining files are still uploaded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Uploads are not cancelled once started.
			ctx := context.WithoutCancel(runContext(cmd))

			failed := 0
			for _, path := range args {
				if err := a.uploadOne(ctx, path); err != nil {
					fmt.Fprintf(a.out, "✗ %s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) uploadOne(ctx context.Context, path string) error {
	input, err := filehandle.SelectionFromPath(path)
	if err != nil {
		return err
	}
	sel, err := a.guard.Select(input)
	if err != nil {
		return err
	}

	result, err := a.gallery.Upload(ctx, sel)
	if err != nil {
		return err
	}
	if !result.Issued() {
		return fmt.Errorf("upload skipped: %s", result.Status)
	}
	fmt.Fprintf(a.out, "✓ %s → %s\n", result.Image.Name, result.Image.URL)
	return nil
}
