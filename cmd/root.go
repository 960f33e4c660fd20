// Package cmd implements the klipgrab CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "📎"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "klipgrab",
	Short: logo + " klipgrab — Telegram media bot",
	Long:  logo + " klipgrab — a Telegram bot front-end for media fetching, with an admin panel",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
}
