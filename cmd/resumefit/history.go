package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amishk599/resumefit/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyses",
	Long:  "Prints the most recent analyses from the history database. Requires history.enabled in config.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete records older than this age first (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if !cfg.History.Enabled {
		fmt.Println("History is disabled. Set history.enabled: true in config.yaml.")
		return nil
	}

	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if historyPrune > 0 {
		if err := s.Cleanup(historyPrune); err != nil {
			logger.Error("failed to prune history", "error", err)
			return errReported
		}
	}

	recs, err := s.Recent(historyLimit)
	if err != nil {
		logger.Error("failed to read history", "error", err)
		return errReported
	}
	if len(recs) == 0 {
		fmt.Println("No analyses recorded yet.")
		return nil
	}

	fmt.Printf("%-17s %-10s %-28s %-7s %-6s %s\n", "When", "View", "Resume", "Score", "Found", "Missing")
	fmt.Println(strings.Repeat("─", 80))

	for _, r := range recs {
		score := "-"
		if r.Result.MatchScore != nil {
			score = fmt.Sprintf("%.2f", *r.Result.MatchScore)
		}
		fmt.Printf("%-17s %-10s %-28s %-7s %-6d %d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.View,
			truncate(r.ResumeName, 28),
			score,
			len(r.Result.SkillsFound),
			len(r.Result.SkillsMissing),
		)
	}

	fmt.Printf("\nShowing %d most recent analyses\n", len(recs))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
