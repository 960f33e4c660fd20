package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klipgrab/klipgrab/internal/config"
	"github.com/klipgrab/klipgrab/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and usage summary",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("%s klipgrab %s\n\n", logo, version)
	fmt.Printf("Config:   %s\n", config.ConfigPath())
	fmt.Printf("Database: %s\n", cfg.Database.Path)

	token := "not set"
	if cfg.BotToken() != "" {
		token = "set"
	}
	fmt.Printf("Token:    %s\n", token)
	fmt.Printf("Admins:   %d\n", len(cfg.AdminAllowList()))

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	users, err := st.TotalUsers()
	if err != nil {
		return err
	}
	requests, err := st.TotalRequests()
	if err != nil {
		return err
	}
	channels, err := st.ListChannels()
	if err != nil {
		return err
	}
	required, err := st.SubscriptionRequired()
	if err != nil {
		return err
	}

	fmt.Printf("\nUsers:    %d\n", users)
	fmt.Printf("Requests: %d\n", requests)
	fmt.Printf("Channels: %d (subscription required: %v)\n", len(channels), required)
	return nil
}
