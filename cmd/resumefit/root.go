package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/amishk599/resumefit/internal/client"
	"github.com/amishk599/resumefit/internal/config"
	"github.com/amishk599/resumefit/internal/model"
	"github.com/amishk599/resumefit/internal/notifier"
	"github.com/amishk599/resumefit/internal/render"
	"github.com/amishk599/resumefit/internal/report"
	"github.com/amishk599/resumefit/internal/retry"
	"github.com/amishk599/resumefit/internal/store"
	"github.com/amishk599/resumefit/internal/submission"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	debug    bool
	viewName string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "resumefit",
	Short: "Match a resume against a job description",
	Long:  "resumefit uploads a resume PDF and a job description to the analysis service and shows the match.",
	// Default to the interactive form so `resumefit` with no args opens it.
	RunE:          runForm,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: RESUMEFIT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&viewName, "view", "", "view to use (default: default_view from config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs here while the interactive form is open")
}

// loadConfig resolves the config path and parses it. A .env file in the
// working directory is loaded first.
// Priority: explicit path arg > RESUMEFIT_CONFIG env var > "./config.yaml".
// When the implicit ./config.yaml does not exist the built-in defaults are used.
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		if env := os.Getenv("RESUMEFIT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return config.Default(), nil
			}
		}
	}
	return config.Load(path)
}

// setupLogger writes to stderr so command output on stdout stays clean.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// setupTUILogger returns a logger that does not write to the terminal. Any log
// output while the alt-screen is active corrupts the display, so logs are
// discarded unless --log-file is set.
func setupTUILogger(dbg bool) (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	return logger, func() { f.Close() }, nil
}

func setupHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Service.Timeout}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.ResultNotifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupStore opens the history store, or a NopStore when history is disabled.
// The returned func closes it.
func setupStore(cfg *config.Config, logger *slog.Logger) (model.HistoryStore, func(), error) {
	if !cfg.History.Enabled {
		return store.NewNopStore(), func() {}, nil
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("history enabled", "path", cfg.History.Path)
	return s, func() { s.Close() }, nil
}

// setupController wires the analysis client, renderer and post-analysis
// hooks for one view.
func setupController(cfg *config.Config, view config.ViewConfig, httpClient *http.Client, hs model.HistoryStore, n model.ResultNotifier, logger *slog.Logger) (*submission.Controller, *render.Renderer) {
	rd := render.NewRenderer(cfg.Service.BaseURL, view)
	schema := model.Schema{RequireScore: view.ShowScore}
	analyzer := client.NewAnalysisClient(cfg.Service.AnalyzeURL(), schema, httpClient, logger)

	ctrl := submission.NewController(analyzer, submission.Options{
		View:      view.Name,
		BusyGuard: view.BusyGuard,
		LinkFor:   rd.DownloadURL,
	}, logger,
		submission.HistoryHook(hs),
		submission.NotifyHook(n),
	)
	return ctrl, rd
}

func setupDownloader(cfg *config.Config, rd *render.Renderer, httpClient *http.Client, logger *slog.Logger) *report.Downloader {
	var fetcher model.ReportFetcher = client.NewReportClient(httpClient)
	fetcher = retry.NewRetryFetcher(fetcher, cfg.Download.MaxRetries, cfg.Download.BaseDelay, logger)
	return report.NewDownloader(fetcher, rd.DownloadURL, cfg.Download.Dir, logger)
}

// mustView resolves the --view flag or exits.
func mustView(cfg *config.Config, logger *slog.Logger) config.ViewConfig {
	view, err := cfg.View(viewName)
	if err != nil {
		logger.Error("invalid view", "error", err)
		os.Exit(1)
	}
	return view
}
