// Package report renders Data API report responses as fixed-width text.
package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"

	"github.com/minhyannv/region-analytics-go/pkg/analytics"
)

// DefaultWidth is used for columns the layout does not name.
const DefaultWidth = 15

// Column formats one report column.
type Column struct {
	Width   int
	Percent bool
}

// Layout maps dimension and metric names to their column format.
type Layout struct {
	Columns   map[string]Column
	RuleWidth int
}

// PageReportLayout is the layout of the top-pages report.
func PageReportLayout() Layout {
	return Layout{
		Columns: map[string]Column{
			"pagePath":               {Width: 60},
			"pageTitle":              {Width: 60},
			"activeUsers":            {Width: 15},
			"newUsers":               {Width: 15},
			"bounceRate":             {Width: 15, Percent: true},
			"averageSessionDuration": {Width: 25},
			"sessions":               {Width: 15},
			"screenPageViews":        {Width: 20},
		},
		RuleWidth: 220,
	}
}

func (l Layout) column(name string) Column {
	if c, ok := l.Columns[name]; ok {
		if c.Width <= 0 {
			c.Width = DefaultWidth
		}
		return c
	}
	return Column{Width: DefaultWidth}
}

// Header is the title block printed above the table.
type Header struct {
	PropertyID string
	DateRange  string
}

// Print writes the title block, the column header row, a rule and one line
// per response row.
func Print(w io.Writer, header Header, resp *analyticsdata.RunReportResponse, layout Layout) error {
	if resp == nil {
		return fmt.Errorf("report response is nil")
	}

	lines := []string{
		"--- Google Analytics Report ---",
		"Property ID: " + header.PropertyID,
		"Date Range: " + header.DateRange,
		strings.Repeat("-", 30),
	}

	names := make([]string, 0, len(resp.DimensionHeaders)+len(resp.MetricHeaders))
	for _, h := range resp.DimensionHeaders {
		names = append(names, h.Name)
	}
	for _, h := range resp.MetricHeaders {
		names = append(names, h.Name)
	}

	cols := make([]Column, len(names))
	headerCells := make([]string, len(names))
	ruleWidth := layout.RuleWidth
	sumWidth := 0
	for i, name := range names {
		cols[i] = layout.column(name)
		headerCells[i] = name
		sumWidth += cols[i].Width + 1
	}
	if ruleWidth <= 0 {
		ruleWidth = max(sumWidth-1, 0)
	}
	lines = append(lines, formatRow(headerCells, cols, false), strings.Repeat("-", ruleWidth))

	for _, row := range resp.Rows {
		if row == nil {
			continue
		}
		values := make([]string, 0, len(names))
		for _, v := range row.DimensionValues {
			values = append(values, v.Value)
		}
		for _, v := range row.MetricValues {
			values = append(values, v.Value)
		}
		lines = append(lines, formatRow(values, cols, true))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(values []string, cols []Column, applyFormat bool) string {
	cells := make([]string, len(values))
	for i, v := range values {
		col := Column{Width: DefaultWidth}
		if i < len(cols) {
			col = cols[i]
		}
		if applyFormat && col.Percent {
			v = formatPercent(v)
		}
		cells[i] = runewidth.FillRight(v, col.Width)
	}
	return strings.Join(cells, " ")
}

// formatPercent renders a ratio such as 0.4523 as "45.23%". Values that do
// not parse are returned unchanged.
func formatPercent(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f*100, 'f', 2, 64) + "%"
}

var daysAgo = regexp.MustCompile(`^(\d+)daysAgo$`)

// DescribeDate renders a Data API relative date for humans.
func DescribeDate(d string) string {
	if m := daysAgo.FindStringSubmatch(d); m != nil {
		if m[1] == "1" {
			return "1 day ago"
		}
		return m[1] + " days ago"
	}
	return d
}

// DescribeDateRange renders a definition's window, e.g. "30 days ago to today".
func DescribeDateRange(def analytics.ReportDefinition) string {
	return DescribeDate(def.DateRange.Start) + " to " + DescribeDate(def.DateRange.End)
}
