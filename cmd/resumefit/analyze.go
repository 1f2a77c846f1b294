package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/resumefit/internal/model"
	"github.com/amishk599/resumefit/internal/tui"
	"github.com/spf13/cobra"
)

var (
	analyzeResume string
	analyzeJD     string
	analyzeJDFile string
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume once and print the result",
	Long:  "One-shot submission: uploads the resume and job description, prints the rendered result (or JSON with --json), exits 1 on error.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeResume, "resume", "", "path to the resume PDF")
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "job description text")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd-file", "", "read the job description from a file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the decoded result as JSON")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	view := mustView(cfg, logger)

	jd := analyzeJD
	if analyzeJDFile != "" {
		data, err := os.ReadFile(analyzeJDFile)
		if err != nil {
			logger.Error("failed to read job description", "error", err)
			os.Exit(1)
		}
		jd = string(data)
	}

	hs, closeStore, err := setupStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open history", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	httpClient := setupHTTPClient(cfg)
	n := setupNotifier(cfg, httpClient, logger)
	ctrl, rd := setupController(cfg, view, httpClient, hs, n, logger)

	ctrl.SetFile(analyzeResume)
	ctrl.SetDescription(jd)

	t, err := ctrl.Begin()
	if err != nil {
		fmt.Fprintln(os.Stderr, ctrl.Snapshot().LastError)
		return errReported
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Service.Timeout)
	defer cancel()

	run := func(ctx context.Context) error { return ctrl.Run(ctx, t) }
	if analyzeJSON {
		err = run(ctx)
	} else {
		err = tui.RunLoader(ctx, "Analyzing "+analyzeResume+"...", run)
	}

	snap := ctrl.Snapshot()
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Fprintln(os.Stderr, "Analysis cancelled.")
		return errReported
	}
	if err != nil {
		msg := snap.LastError
		if msg == "" {
			msg = model.UserMessage(err)
		}
		fmt.Fprintln(os.Stderr, msg)
		return errReported
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.LastResult)
	}
	fmt.Println("Analysis Results")
	for _, line := range rd.Render(*snap.LastResult).Strings() {
		fmt.Println(line)
	}
	return nil
}
