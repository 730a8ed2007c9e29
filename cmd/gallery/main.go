// Command gallery is a command-line client for the image gallery: it lists,
// uploads and exports images against the configured object store.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gallery/internal/config"
	"gallery/internal/logging"
	"gallery/internal/metrics"
	"gallery/internal/service"
	"gallery/internal/storage"

	_ "gallery/internal/storage/memory"
	_ "gallery/internal/storage/minio"
	_ "gallery/internal/storage/s3"
)

// Version information set at build time.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs, built once flags are parsed.
type app struct {
	guard   service.SelectionGuard
	gallery service.GallerySync
	out     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var envFile string
	a := &app{out: stdout}

	rootCmd := &cobra.Command{
		Use:           "gallery",
		Short:         "List, upload and export gallery images",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(envFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			slog.SetDefault(logging.New(cfg.Log, stderr))
			return a.init(cfg)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "environment file to load before reading GALLERY_* variables")

	rootCmd.AddCommand(
		listCmd(a),
		uploadCmd(a),
		exportCmd(a),
	)
	return rootCmd
}

func (a *app) init(cfg *config.Config) error {
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return err
	}
	a.guard = service.NewSelectionGuard(&cfg.Upload)
	a.gallery = service.NewGallerySync(store, a.guard, metrics.Noop{}, &cfg.Storage)
	return nil
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the images in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.gallery.Reload(runContext(cmd)); err != nil {
				return err
			}
			images := a.gallery.Images()
			if len(images) == 0 {
				fmt.Fprintln(a.out, "No images uploaded yet")
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tURL")
			for _, img := range images {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", img.ID, img.Name, img.URL)
			}
			return tw.Flush()
		},
	}
}

func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
