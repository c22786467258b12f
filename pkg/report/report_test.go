package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
)

func pageResponse() *analyticsdata.RunReportResponse {
	dims := []string{"pagePath", "pageTitle"}
	metrics := []string{"activeUsers", "newUsers", "bounceRate", "averageSessionDuration", "sessions", "screenPageViews"}
	resp := &analyticsdata.RunReportResponse{}
	for _, d := range dims {
		resp.DimensionHeaders = append(resp.DimensionHeaders, &analyticsdata.DimensionHeader{Name: d})
	}
	for _, m := range metrics {
		resp.MetricHeaders = append(resp.MetricHeaders, &analyticsdata.MetricHeader{Name: m})
	}
	resp.Rows = []*analyticsdata.Row{{
		DimensionValues: []*analyticsdata.DimensionValue{{Value: "/pricing"}, {Value: "Pricing"}},
		MetricValues: []*analyticsdata.MetricValue{
			{Value: "10"}, {Value: "4"}, {Value: "0.4523"}, {Value: "61.5"}, {Value: "12"}, {Value: "30"},
		},
	}}
	return resp
}

func TestPrintPageReport(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, Header{PropertyID: "384133949", DateRange: "30 days ago to today"}, pageResponse(), PageReportLayout())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "--- Google Analytics Report ---", lines[0])
	assert.Equal(t, "Property ID: 384133949", lines[1])
	assert.Equal(t, "Date Range: 30 days ago to today", lines[2])
	assert.Equal(t, strings.Repeat("-", 30), lines[3])
	assert.Equal(t, strings.Repeat("-", 220), lines[5])

	header := lines[4]
	assert.True(t, strings.HasPrefix(header, "pagePath"+strings.Repeat(" ", 52)+" pageTitle"))
	assert.Equal(t, 60+60+15+15+15+25+15+20+7, len(header))

	row := lines[6]
	assert.Equal(t, len(header), len(row))
	assert.Equal(t, "45.23%", strings.TrimSpace(row[154:169]))
	assert.True(t, strings.HasPrefix(row, "/pricing "))
}

func TestPrintPadsByDisplayWidth(t *testing.T) {
	resp := &analyticsdata.RunReportResponse{
		DimensionHeaders: []*analyticsdata.DimensionHeader{{Name: "pageTitle"}},
		MetricHeaders:    []*analyticsdata.MetricHeader{{Name: "sessions"}},
		Rows: []*analyticsdata.Row{{
			DimensionValues: []*analyticsdata.DimensionValue{{Value: "日本語"}},
			MetricValues:    []*analyticsdata.MetricValue{{Value: "1"}},
		}},
	}
	layout := Layout{Columns: map[string]Column{"pageTitle": {Width: 10}}}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, Header{}, resp, layout))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, "日本語"+strings.Repeat(" ", 4)+" 1"+strings.Repeat(" ", 14), lines[len(lines)-1])
	assert.Equal(t, strings.Repeat("-", 10+1+DefaultWidth), lines[5])
}

func TestPrintNilResponse(t *testing.T) {
	assert.Error(t, Print(&bytes.Buffer{}, Header{}, nil, PageReportLayout()))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "45.23%", formatPercent("0.4523"))
	assert.Equal(t, "0.00%", formatPercent("0"))
	assert.Equal(t, "100.00%", formatPercent("1"))
	assert.Equal(t, "n/a", formatPercent("n/a"))
}

func TestDescribeDateRange(t *testing.T) {
	assert.Equal(t, "30 days ago to today", DescribeDateRange(analytics.PageReport()))
	assert.Equal(t, "7 days ago to today", DescribeDateRange(analytics.SmokeReport()))
	assert.Equal(t, "1 day ago", DescribeDate("1daysAgo"))
	assert.Equal(t, "2024-01-01", DescribeDate("2024-01-01"))
}
