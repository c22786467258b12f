// Package main prints the top-pages Google Analytics report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
	loggerpkg "github.com/minhyannv/region-analytics-go/pkg/logger"
	"github.com/minhyannv/region-analytics-go/pkg/report"
)

// main is the program entry point.
func main() {
	_ = godotenv.Load()

	cfg := configpkg.FromEnv(configpkg.DefaultConfig(), os.Getenv)
	cmd := newRootCmd(&cfg, analytics.DefaultConnector(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *configpkg.Config, connector analytics.Connector, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics-report",
		Short: "Print the top pages report for a Google Analytics property",
		Long: `Authenticate with the credentials file named by GOOGLE_APPLICATION_CREDENTIALS
and print a page report for the last 30 days: page path and title with
active users, new users, bounce rate, average session duration, sessions and
views, most viewed first, top 50.

Examples:
  # Report on the default property
  analytics-report

  # Report on another property using a custom definition
  analytics-report --property 123456 --report-file reports/countries.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized := configpkg.Normalize(*cfg)
			logger := loggerpkg.NewZapLogger(stderr, normalized.Verbose)
			err := run(cmd.Context(), normalized, connector, stdout, logger)
			if err != nil {
				_, _ = fmt.Fprintf(stdout, "An error occurred: %v\n", err)
				if normalized.FailOnError {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.PropertyID, "property", cfg.PropertyID, "Analytics property id (env "+configpkg.EnvPropertyID+")")
	cmd.Flags().StringVar(&cfg.ReportFile, "report-file", cfg.ReportFile, "YAML report definition replacing the built-in page report")
	cmd.Flags().BoolVar(&cfg.FailOnError, "fail-on-error", cfg.FailOnError, "Exit with status 1 when the report fails")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose logging")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, cfg configpkg.Config, connector analytics.Connector, stdout io.Writer, logger loggerpkg.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	def := analytics.PageReport()
	layout := report.PageReportLayout()
	if cfg.ReportFile != "" {
		loaded, err := analytics.LoadReportDefinition(cfg.ReportFile)
		if err != nil {
			return err
		}
		def = loaded
		layout.RuleWidth = 0
	}

	path, err := analytics.ResolveCredentialsPath(cfg.CredentialsPath)
	if err != nil {
		return err
	}
	creds, err := connector.LoadCredentials(ctx, path)
	if err != nil {
		return err
	}
	loggerpkg.Debug(cfg.Verbose, logger, "credentials loaded", map[string]any{
		"path":    creds.Path,
		"project": analytics.ResolveProjectID(creds.ProjectID, cfg.ProjectID),
	})

	client, err := connector.NewData(ctx, creds)
	if err != nil {
		return err
	}
	loggerpkg.Debug(cfg.Verbose, logger, "running report", map[string]any{
		"property":   analytics.PropertyName(cfg.PropertyID),
		"dimensions": def.Dimensions,
		"metrics":    def.Metrics,
		"limit":      def.Limit,
	})
	resp, err := client.RunReport(ctx, cfg.PropertyID, def)
	if err != nil {
		return err
	}

	return report.Print(stdout, report.Header{
		PropertyID: cfg.PropertyID,
		DateRange:  report.DescribeDateRange(def),
	}, resp, layout)
}
