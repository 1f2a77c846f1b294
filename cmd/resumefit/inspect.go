package main

import (
	"fmt"
	"os"

	"github.com/amishk599/resumefit/internal/pdfinfo"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show page and word counts of a resume PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	info, err := pdfinfo.Inspect(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-12s %s\n", "File", info.Path)
	fmt.Printf("%-12s %d\n", "Pages", info.Pages)
	fmt.Printf("%-12s %d\n", "Words", info.Words)
	if info.Extracted < info.Pages {
		fmt.Printf("\n%d of %d pages had no extractable text.\n", info.Pages-info.Extracted, info.Pages)
	}
	return nil
}
