package main

import (
	"errors"
	"fmt"
	"os"
)

// errReported is returned by commands that already printed or logged their
// failure. Returning it instead of calling os.Exit lets deferred cleanup run.
var errReported = errors.New("error already reported")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
