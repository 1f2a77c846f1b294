package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/resumefit/internal/render"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download REPORT_PATH",
	Short: "Download a feedback report",
	Long:  "Builds the report link for the selected view and saves the report under download.dir. Failed downloads are retried with backoff.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	view := mustView(cfg, logger)

	rd := render.NewRenderer(cfg.Service.BaseURL, view)
	d := setupDownloader(cfg, rd, setupHTTPClient(cfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dest, err := d.Download(ctx, args[0])
	if err != nil {
		logger.Error("download failed", "error", err)
		return errReported
	}
	fmt.Println(dest)
	return nil
}
