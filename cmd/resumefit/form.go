package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/tui"
	"github.com/spf13/cobra"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive submission form (TUI)",
	Long:  "Shows the view picker when more than one view is configured and --view is not set, then opens the form.",
	RunE:  runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupTUILogger(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	hs, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient := setupHTTPClient(cfg)
	n := setupNotifier(cfg, httpClient, logger)

	pick := viewName == "" && len(cfg.Views) > 1
	for {
		var view config.ViewConfig
		if pick {
			choice, err := tui.RunViewPicker(cfg.Views)
			if err != nil {
				fmt.Printf("Picker error: %v\n", err)
				return nil
			}
			if choice < 0 {
				return nil
			}
			view = cfg.Views[choice]
		} else {
			view, err = cfg.View(viewName)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return errReported
			}
		}

		ctrl, rd := setupController(cfg, view, httpClient, hs, n, logger)
		wantBack, err := tui.RunForm(ctx, tui.FormOptions{
			Controller: ctrl,
			Renderer:   rd,
			View:       view,
			Downloader: setupDownloader(cfg, rd, httpClient, logger),
			Timeout:    cfg.Service.Timeout,
		})
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
			return nil
		}
		if !wantBack || !pick {
			return nil
		}
		// else: loop → back to picker
	}
}
