package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List all configured views",
	Long:  "Reads the config and prints a table of all configured views.",
	RunE:  runViews,
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func runViews(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-15s %-11s %-11s %-10s %s\n", "View", "Busy guard", "Show score", "Scale", "Links")
	fmt.Println(strings.Repeat("─", 60))

	for _, v := range cfg.Views {
		name := v.Name
		if name == cfg.DefaultView {
			name += " *"
		}
		fmt.Printf("%-15s %-11s %-11s %-10s %s\n", name, yesNo(v.BusyGuard), yesNo(v.ShowScore), v.ScoreScale, v.LinkStrategy)
	}

	fmt.Printf("\nService: %s\n", cfg.Service.AnalyzeURL())
	fmt.Printf("Total: %d views (* default)\n", len(cfg.Views))
	return nil
}
