package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klipgrab/klipgrab/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	if err := config.Save(&cfg, path); err != nil {
		return err
	}
	fmt.Printf("%s Wrote default config to %s\n", logo, path)
	fmt.Println("Set telegram.token (or TELEGRAM_BOT_TOKEN) and ADMIN_IDS, then run: klipgrab run")
	return nil
}
