package main

import (
	"fmt"
	"os"

	"github.com/harrison/gcovfind/internal/cmd"
	"github.com/harrison/gcovfind/internal/gcoverr"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(gcoverr.ExitCodeOf(err))
	}
}
