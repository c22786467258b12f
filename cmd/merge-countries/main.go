// Package main merges the regional country-data files into merged.json.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
	"github.com/minhyannv/region-analytics-go/pkg/countries"
	loggerpkg "github.com/minhyannv/region-analytics-go/pkg/logger"
)

// main is the program entry point.
func main() {
	_ = godotenv.Load()

	cfg := configpkg.DefaultConfig()
	cmd := newRootCmd(&cfg, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newRootCmd(cfg *configpkg.Config, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-countries",
		Short: "Merge emea.json, americas.json and apac.json into merged.json",
		Long: `Merge the three regional country-data files into one key-sorted file.

Regions are merged in the order EMEA, Americas, APAC. When a country key
appears in more than one file, the later region wins. Nothing is written
unless every region file exists and is a valid JSON object.

Examples:
  # Merge files in the current directory
  merge-countries

  # Merge files in another directory and write elsewhere
  merge-countries --dir ./country_data --out /tmp/merged.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configpkg.Normalize(*cfg), stdout, loggerpkg.NewZapLogger(stderr, cfg.Verbose))
		},
	}
	cmd.Flags().StringVar(&cfg.DataDir, "dir", cfg.DataDir, "Directory (or storage URL) holding the region files")
	cmd.Flags().StringVar(&cfg.OutputFile, "out", cfg.OutputFile, "Output file (default <dir>/merged.json)")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose logging")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, cfg configpkg.Config, stdout io.Writer, logger loggerpkg.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	regions := countries.DefaultRegions()
	merger := countries.NewMerger(countries.WithLogger(logger), countries.WithVerbose(cfg.Verbose))
	res, err := merger.Run(ctx, cfg.DataDir, regions, cfg.OutputFile)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Successfully merged %s into %s.\n", joinNames(res.Sources), filepath.Base(res.Output))
	loggerpkg.Debug(cfg.Verbose, logger, "merge complete", map[string]any{
		"keys":      res.KeyCount,
		"overrides": len(res.Overrides),
		"output":    res.Output,
	})
	return nil
}

// joinNames renders "a, b, and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
}

// describeError renders a merge failure the way it is reported to the user.
func describeError(err error) string {
	var missing *countries.MissingInputError
	if errors.As(err, &missing) {
		return fmt.Sprintf("Error: %s not found.", missing.Path)
	}
	var decodeErr *countries.DecodeError
	if errors.As(err, &decodeErr) {
		return fmt.Sprintf("Error decoding JSON from a file: %s: %v", decodeErr.Path, decodeErr.Err)
	}
	return fmt.Sprintf("Error: %v", err)
}
