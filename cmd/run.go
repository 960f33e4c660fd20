package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/klipgrab/klipgrab/internal/config"
	"github.com/klipgrab/klipgrab/internal/container"
)

var (
	runConfigPath string
	runVerbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the klipgrab bot",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Config file path")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose logging")
}

func runRun(_ *cobra.Command, _ []string) error {
	if runVerbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.AdminAllowList()) == 0 {
		slog.Warn("no admin ids configured: the admin panel is disabled for everyone")
	}

	c, err := container.New(cfg)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer c.Store().Close()

	fmt.Printf("%s Starting klipgrab...\n", logo)

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.Router().Run(gctx) })
	g.Go(func() error { return c.Channel().Start(gctx) })
	if cfg.Digest.Enabled {
		g.Go(func() error { return c.Digest().Start(gctx) })
	}

	fmt.Printf("%s Bot running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "bot error: %v\n", err)
		return err
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
