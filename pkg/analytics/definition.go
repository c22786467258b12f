package analytics

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DateRange is a report window in Data API date syntax
// (YYYY-MM-DD, "today", "yesterday" or "NdaysAgo").
type DateRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// OrderBy sorts report rows by a metric.
type OrderBy struct {
	Metric string `yaml:"metric"`
	Desc   bool   `yaml:"desc"`
}

// ReportDefinition describes one runReport request.
type ReportDefinition struct {
	DateRange  DateRange `yaml:"dateRange"`
	Dimensions []string  `yaml:"dimensions"`
	Metrics    []string  `yaml:"metrics"`
	OrderBy    *OrderBy  `yaml:"orderBy,omitempty"`
	Limit      int64     `yaml:"limit"`
}

// PageReport is the top-pages report: page path and title with engagement
// metrics over the last 30 days, most viewed first.
func PageReport() ReportDefinition {
	return ReportDefinition{
		DateRange:  DateRange{Start: "30daysAgo", End: "today"},
		Dimensions: []string{"pagePath", "pageTitle"},
		Metrics: []string{
			"activeUsers",
			"newUsers",
			"bounceRate",
			"averageSessionDuration",
			"sessions",
			"screenPageViews",
		},
		OrderBy: &OrderBy{Metric: "screenPageViews", Desc: true},
		Limit:   50,
	}
}

// SmokeReport is the minimal report used to prove Data API access.
func SmokeReport() ReportDefinition {
	return ReportDefinition{
		DateRange: DateRange{Start: "7daysAgo", End: "today"},
		Metrics:   []string{"activeUsers"},
	}
}

// LoadReportDefinition reads a YAML report definition. A missing date range
// defaults to the last 30 days.
func LoadReportDefinition(path string) (ReportDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ReportDefinition{}, fmt.Errorf("read report definition: %w", err)
	}
	var def ReportDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return ReportDefinition{}, fmt.Errorf("parse report definition %s: %w", path, err)
	}
	if def.DateRange.Start == "" {
		def.DateRange.Start = "30daysAgo"
	}
	if def.DateRange.End == "" {
		def.DateRange.End = "today"
	}
	if err := def.Validate(); err != nil {
		return ReportDefinition{}, fmt.Errorf("invalid report definition %s: %w", path, err)
	}
	return def, nil
}

// Validate checks that the definition can be sent as a request.
func (d ReportDefinition) Validate() error {
	if strings.TrimSpace(d.DateRange.Start) == "" || strings.TrimSpace(d.DateRange.End) == "" {
		return errors.New("date range requires start and end")
	}
	if len(d.Metrics) == 0 {
		return errors.New("at least one metric is required")
	}
	for _, m := range d.Metrics {
		if strings.TrimSpace(m) == "" {
			return errors.New("metric names must not be empty")
		}
	}
	for _, dim := range d.Dimensions {
		if strings.TrimSpace(dim) == "" {
			return errors.New("dimension names must not be empty")
		}
	}
	if d.OrderBy != nil {
		found := false
		for _, m := range d.Metrics {
			if m == d.OrderBy.Metric {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("order metric %q is not among the report metrics", d.OrderBy.Metric)
		}
	}
	if d.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", d.Limit)
	}
	return nil
}
