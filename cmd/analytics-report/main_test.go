package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
)

type stubRunner struct {
	property string
	def      analytics.ReportDefinition
	err      error
}

func (s *stubRunner) RunReport(_ context.Context, propertyID string, def analytics.ReportDefinition) (*analyticsdata.RunReportResponse, error) {
	s.property = propertyID
	s.def = def
	if s.err != nil {
		return nil, s.err
	}
	resp := &analyticsdata.RunReportResponse{}
	for _, d := range def.Dimensions {
		resp.DimensionHeaders = append(resp.DimensionHeaders, &analyticsdata.DimensionHeader{Name: d})
	}
	for _, m := range def.Metrics {
		resp.MetricHeaders = append(resp.MetricHeaders, &analyticsdata.MetricHeader{Name: m})
	}
	return resp, nil
}

func stubConnector(runner *stubRunner) analytics.Connector {
	return analytics.Connector{
		LoadCredentials: func(_ context.Context, path string) (*analytics.Credentials, error) {
			return &analytics.Credentials{Path: path}, nil
		},
		NewData: func(context.Context, *analytics.Credentials) (analytics.ReportRunner, error) {
			return runner, nil
		},
	}
}

func execute(t *testing.T, cfg configpkg.Config, connector analytics.Connector, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&cfg, connector, &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestReportPrintsPageReport(t *testing.T) {
	runner := &stubRunner{}
	cfg := configpkg.DefaultConfig()
	cfg.CredentialsPath = "/keys/sa.json"

	out, err := execute(t, cfg, stubConnector(runner))
	require.NoError(t, err)

	assert.Equal(t, configpkg.DefaultPropertyID, runner.property)
	assert.Equal(t, analytics.PageReport(), runner.def)
	assert.Contains(t, out, "--- Google Analytics Report ---\nProperty ID: 384133949\nDate Range: 30 days ago to today\n")
}

func TestReportMissingCredentials(t *testing.T) {
	runner := &stubRunner{}
	out, err := execute(t, configpkg.DefaultConfig(), stubConnector(runner))
	require.NoError(t, err, "failures are reported as text by default")
	assert.Equal(t, "An error occurred: GOOGLE_APPLICATION_CREDENTIALS environment variable is not set\n", out)
	assert.Empty(t, runner.property)
}

func TestReportFailOnError(t *testing.T) {
	runner := &stubRunner{err: errors.New("quota exceeded")}
	cfg := configpkg.DefaultConfig()
	cfg.CredentialsPath = "sa.json"

	out, err := execute(t, cfg, stubConnector(runner), "--fail-on-error")
	require.Error(t, err)
	assert.Contains(t, out, "An error occurred: quota exceeded")
}

func TestReportCustomDefinitionAndProperty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dateRange: {start: 7daysAgo, end: yesterday}\nmetrics: [sessions]\n"), 0o644))

	runner := &stubRunner{}
	cfg := configpkg.DefaultConfig()
	cfg.CredentialsPath = "sa.json"

	out, err := execute(t, cfg, stubConnector(runner), "--property", "properties/99", "--report-file", path)
	require.NoError(t, err)
	assert.Equal(t, "99", runner.property)
	assert.Equal(t, []string{"sessions"}, runner.def.Metrics)
	assert.Contains(t, out, "Date Range: 7 days ago to yesterday")
}
