package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/axionhelmets/storefront-server/internal/config"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/repository"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Axion Helmets storefront API",
	Long: `storefront serves the Axion Helmets catalog and order API and provides
maintenance commands for seeding the catalog and managing user roles.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(usersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every command needs: configuration, a logger and the stores.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	stores *repository.Stores
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	stores, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: log,
		stores: stores,
	}, nil
}

func (a *app) Close() {
	if err := a.stores.Close(); err != nil {
		a.logger.Error("failed to close storage", "error", err)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
