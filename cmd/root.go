// Package cmd defines and implements the CLI commands for the ipsearch
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harborlight/ipsearch/internal/app"
	"github.com/harborlight/ipsearch/internal/config"
	"github.com/harborlight/ipsearch/internal/search"
	"github.com/harborlight/ipsearch/internal/source/delegate"
	"github.com/harborlight/ipsearch/internal/status"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is the application surface commands run against. It is an interface so
// tests can inject a stub instead of the full service graph.
type App interface {
	Run(ctx context.Context) error
	RunMCP(ctx context.Context) error
	Close()
	Logger() *zap.Logger
	Engine() *search.Engine
	Checker() *status.Checker
	Crawler() *delegate.Adapter
}

// newApp is the application factory, a variable so tests can replace it.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg)
}

// newRootCmd creates and configures the root command. The application is
// built in PersistentPreRunE so every subcommand finds it in the context,
// and torn down again by PersistentPostRun.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ipsearch",
		Short: "Multi-source acquisition service for USPTO patent and trademark records.",
		Long: `ipsearch answers patent and trademark searches by walking a prioritized
chain of acquisition adapters: a human-paced headless browser, a public
patent index, and a delegated extraction process. When every adapter fails
it degrades to deterministic guidance records, so a search never errors.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML; IPSEARCH_* env vars override)")

	cmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newSearchCmd(),
		newStatusCmd(),
		newCrawlCmd(),
	)

	return cmd
}

// resolveApp retrieves the application injected by the root command.
func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
