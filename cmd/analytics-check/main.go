// Package main checks that the Google Analytics Admin and Data APIs are
// reachable with the configured credentials.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
	"github.com/minhyannv/region-analytics-go/pkg/connectivity"
	loggerpkg "github.com/minhyannv/region-analytics-go/pkg/logger"
)

// main is the program entry point.
func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := configpkg.FromEnv(configpkg.DefaultConfig(), os.Getenv)
	cmd := newRootCmd(&cfg, analytics.DefaultConnector(), os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *configpkg.Config, connector analytics.Connector, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics-check",
		Short: "Smoke-test access to the Google Analytics Admin and Data APIs",
		Long: `Walk through each step needed to reach Google Analytics and print the result:

  1. GOOGLE_APPLICATION_CREDENTIALS is set
  2. the credentials file loads (GOOGLE_PROJECT_ID overrides the project shown)
  3. an Admin API client is created
  4. account summaries are listed
  5. a Data API client is created for the first property found
  6. a one-metric report runs on that property

The process then stays alive for --hold before exiting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := configpkg.Normalize(*cfg)
			logger := loggerpkg.NewZapLogger(stderr, normalized.Verbose)
			checker := connectivity.NewChecker(connector, stdout,
				connectivity.WithLogger(logger),
				connectivity.WithVerbose(normalized.Verbose),
			)
			_, err := checker.Run(cmd.Context(), normalized)
			connectivity.Hold(cmd.Context(), normalized.Hold, stdout)
			if err != nil && normalized.FailOnError {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&cfg.Hold, "hold", cfg.Hold, "How long to keep the process alive after the check (0 to exit immediately)")
	cmd.Flags().BoolVar(&cfg.FailOnError, "fail-on-error", cfg.FailOnError, "Exit with status 1 when the check fails")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose logging")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}
