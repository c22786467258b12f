package analytics

import (
	"context"
	"fmt"
	"strings"

	analyticsadmin "google.golang.org/api/analyticsadmin/v1alpha"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const propertyPrefix = "properties/"

// AccountSummary is the Admin API account summary type.
type AccountSummary = analyticsadmin.GoogleAnalyticsAdminV1alphaAccountSummary

// ReportRunner runs a report against one property.
type ReportRunner interface {
	RunReport(ctx context.Context, propertyID string, def ReportDefinition) (*analyticsdata.RunReportResponse, error)
}

// AccountLister lists the account summaries visible to the caller.
type AccountLister interface {
	ListAccountSummaries(ctx context.Context) ([]*AccountSummary, error)
}

// PropertyName returns the resource name of a property id. Ids that already
// carry the properties/ prefix are returned unchanged.
func PropertyName(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, propertyPrefix) {
		return id
	}
	return propertyPrefix + id
}

// BuildRequest converts a definition into a Data API request.
func BuildRequest(def ReportDefinition) *analyticsdata.RunReportRequest {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{{
			StartDate: def.DateRange.Start,
			EndDate:   def.DateRange.End,
		}},
		Limit: def.Limit,
	}
	for _, name := range def.Dimensions {
		req.Dimensions = append(req.Dimensions, &analyticsdata.Dimension{Name: name})
	}
	for _, name := range def.Metrics {
		req.Metrics = append(req.Metrics, &analyticsdata.Metric{Name: name})
	}
	if def.OrderBy != nil {
		req.OrderBys = []*analyticsdata.OrderBy{{
			Metric: &analyticsdata.MetricOrderBy{MetricName: def.OrderBy.Metric},
			Desc:   def.OrderBy.Desc,
		}}
	}
	return req
}

// DataClient runs reports through the Data API.
type DataClient struct {
	svc *analyticsdata.Service
}

// NewDataClient creates a Data API client.
func NewDataClient(ctx context.Context, opts ...option.ClientOption) (*DataClient, error) {
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create data client: %w", err)
	}
	return &DataClient{svc: svc}, nil
}

// RunReport validates def and runs it against propertyID.
func (c *DataClient) RunReport(ctx context.Context, propertyID string, def ReportDefinition) (*analyticsdata.RunReportResponse, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.svc.Properties.RunReport(PropertyName(propertyID), BuildRequest(def)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("run report: %w", err)
	}
	return resp, nil
}

// AdminClient reads account metadata through the Admin API.
type AdminClient struct {
	svc      *analyticsadmin.Service
	pageSize int64
}

// NewAdminClient creates an Admin API client.
func NewAdminClient(ctx context.Context, opts ...option.ClientOption) (*AdminClient, error) {
	svc, err := analyticsadmin.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create admin client: %w", err)
	}
	return &AdminClient{svc: svc, pageSize: 200}, nil
}

// ListAccountSummaries returns every account summary, following page tokens.
func (c *AdminClient) ListAccountSummaries(ctx context.Context) ([]*AccountSummary, error) {
	var out []*AccountSummary
	err := c.svc.AccountSummaries.List().PageSize(c.pageSize).Pages(ctx,
		func(page *analyticsadmin.GoogleAnalyticsAdminV1alphaListAccountSummariesResponse) error {
			out = append(out, page.AccountSummaries...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list account summaries: %w", err)
	}
	return out, nil
}

// FirstPropertyID returns the id of the first property of the first account
// that has any, or "" when none do.
func FirstPropertyID(summaries []*AccountSummary) string {
	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		for _, prop := range summary.PropertySummaries {
			if prop == nil || prop.Property == "" {
				continue
			}
			parts := strings.Split(prop.Property, "/")
			return parts[len(parts)-1]
		}
	}
	return ""
}

// Connector creates credentials and clients. Tests substitute the factories.
type Connector struct {
	LoadCredentials func(ctx context.Context, path string) (*Credentials, error)
	NewData         func(ctx context.Context, creds *Credentials) (ReportRunner, error)
	NewAdmin        func(ctx context.Context, creds *Credentials) (AccountLister, error)
}

// DefaultConnector talks to the live Google APIs.
func DefaultConnector() Connector {
	return Connector{
		LoadCredentials: LoadCredentials,
		NewData: func(ctx context.Context, creds *Credentials) (ReportRunner, error) {
			client, err := NewDataClient(ctx, creds.ClientOptions()...)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		NewAdmin: func(ctx context.Context, creds *Credentials) (AccountLister, error) {
			client, err := NewAdminClient(ctx, creds.ClientOptions()...)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}
