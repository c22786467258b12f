// Package connectivity runs the step-by-step smoke test against the
// analytics Admin and Data APIs.
package connectivity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
	loggerpkg "github.com/minhyannv/region-analytics-go/pkg/logger"
)

// Outcome is how a check ended. NoAccounts and NoProperties stop the check
// before the Data API is reached without counting as failures.
type Outcome int

const (
	Failed Outcome = iota
	Succeeded
	NoAccounts
	NoProperties
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case NoAccounts:
		return "no_accounts"
	case NoProperties:
		return "no_properties"
	default:
		return "failed"
	}
}

// Checker walks through credential loading, the Admin API and the Data API,
// printing each step.
type Checker struct {
	connector analytics.Connector
	out       io.Writer
	logger    loggerpkg.Logger
	verbose   bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// WithVerbose enables debug logging.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// NewChecker builds a Checker printing to out.
func NewChecker(connector analytics.Connector, out io.Writer, opts ...Option) *Checker {
	if out == nil {
		out = io.Discard
	}
	c := &Checker{connector: connector, out: out, logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = loggerpkg.NopLogger{}
	}
	return c
}

// Run performs the check once. A failure is printed as the final result and
// also returned, with outcome Failed.
func (c *Checker) Run(ctx context.Context, cfg configpkg.Config) (Outcome, error) {
	outcome, err := c.run(ctx, cfg)
	if err != nil {
		red := color.New(color.FgRed).SprintFunc()
		c.printf("\n\n--- FINAL RESULT: %s ---\n", red("AN ERROR OCCURRED"))
		c.printf("Error Type: %s\n", errorType(err))
		c.printf("Error Details: %v\n", err)
		loggerpkg.Error(c.logger, "connectivity check failed", map[string]any{"error": err.Error()})
		return Failed, err
	}
	loggerpkg.Debug(c.verbose, c.logger, "connectivity check finished", map[string]any{"outcome": outcome.String()})
	return outcome, nil
}

func (c *Checker) run(ctx context.Context, cfg configpkg.Config) (Outcome, error) {
	green := color.New(color.FgGreen).SprintFunc()

	c.printf("--- Step 1: Checking for credentials environment variable...\n")
	path, err := analytics.ResolveCredentialsPath(cfg.CredentialsPath)
	if err != nil {
		return Failed, err
	}
	c.printf("--- Step 1 %s: Found credentials path: %s\n", green("SUCCESS"), path)

	c.printf("\n--- Step 2: Attempting to load credentials from file...\n")
	creds, err := c.connector.LoadCredentials(ctx, path)
	if err != nil {
		return Failed, err
	}
	projectID := analytics.ResolveProjectID(creds.ProjectID, cfg.ProjectID)
	if projectID == "" {
		projectID = "Not specified"
	}
	c.printf("--- Step 2 %s: Loaded credentials for project: %s\n", green("SUCCESS"), projectID)

	c.printf("\n--- Step 3: Creating Google Analytics Admin client...\n")
	admin, err := c.connector.NewAdmin(ctx, creds)
	if err != nil {
		return Failed, err
	}
	c.printf("--- Step 3 %s: Admin client created.\n", green("SUCCESS"))

	c.printf("\n--- Step 4: Fetching account summaries (Admin API Test)...\n")
	summaries, err := admin.ListAccountSummaries(ctx)
	if err != nil {
		return Failed, err
	}
	if len(summaries) == 0 {
		c.printf("\nNo accounts found for the authenticated user. Cannot proceed to Data API test.\n")
		return NoAccounts, nil
	}
	c.printf("--- Step 4 %s: Admin API call successful. Accounts found.\n", green("SUCCESS"))
	loggerpkg.Debug(c.verbose, c.logger, "account summaries listed", map[string]any{"count": len(summaries)})

	propertyID := analytics.FirstPropertyID(summaries)
	if propertyID == "" {
		c.printf("\nNo properties found in any account. Cannot proceed to Data API test.\n")
		return NoProperties, nil
	}
	c.printf("    (Found property '%s' to use for Data API test)\n", propertyID)

	c.printf("\n--- Step 5: Creating Google Analytics Data client...\n")
	data, err := c.connector.NewData(ctx, creds)
	if err != nil {
		return Failed, err
	}
	c.printf("--- Step 5 %s: Data client created.\n", green("SUCCESS"))

	c.printf("\n--- Step 6: Running a simple report on property '%s' (Data API Test)...\n", propertyID)
	resp, err := data.RunReport(ctx, propertyID, analytics.SmokeReport())
	if err != nil {
		return Failed, err
	}
	c.printf("--- Step 6 %s: Data API call successful.\n", green("SUCCESS"))

	c.printf("\n\n--- FINAL RESULT: %s ---\n", green("SUCCESS!"))
	c.printf("Both Admin and Data APIs are working correctly.\n")
	c.printf("\nSample Report Response:\n")
	body, err := resp.MarshalJSON()
	if err != nil {
		return Failed, fmt.Errorf("marshal report response: %w", err)
	}
	c.printf("%s", pretty.Pretty(body))
	return Succeeded, nil
}

func (c *Checker) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

// errorType names the innermost wrapped error's type.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}

// Hold announces the wait and blocks for d or until ctx is done.
func Hold(ctx context.Context, d time.Duration, out io.Writer) {
	if d <= 0 {
		return
	}
	if out != nil {
		_, _ = fmt.Fprintf(out, "\n--- Test complete. This process will exit in %s. ---\n", describeDuration(d))
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func describeDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		m := int(d / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
