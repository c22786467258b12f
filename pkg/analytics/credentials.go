// Package analytics wraps the Google Analytics Data and Admin APIs with the
// small request/response surface the command-line tools need.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/api/option"

	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
)

// ReadOnlyScope is the OAuth scope requested for every analytics call.
const ReadOnlyScope = "https://www.googleapis.com/auth/analytics.readonly"

// ErrCredentialsNotSet is returned when no credentials file is configured.
var ErrCredentialsNotSet = errors.New(configpkg.EnvCredentials + " environment variable is not set")

// Credentials are scoped analytics credentials loaded from a file.
type Credentials struct {
	Path      string
	ProjectID string

	auth *auth.Credentials
}

// ResolveCredentialsPath returns path or ErrCredentialsNotSet when it is blank.
func ResolveCredentialsPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrCredentialsNotSet
	}
	return path, nil
}

// LoadCredentials reads a credentials file and scopes it for read-only
// analytics access.
func LoadCredentials(ctx context.Context, path string) (*Credentials, error) {
	path, err := ResolveCredentialsPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("credentials file %s not found", path)
		}
		return nil, fmt.Errorf("read credentials %s: %w", path, err)
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes:          []string{ReadOnlyScope},
		CredentialsJSON: data,
	})
	if err != nil {
		return nil, fmt.Errorf("load credentials %s: %w", path, err)
	}

	// Only used for display; user credentials carry no project.
	projectID, _ := creds.ProjectID(ctx)
	return &Credentials{
		Path:      path,
		ProjectID: projectID,
		auth:      creds,
	}, nil
}

// ClientOptions returns the options that authenticate a generated API client.
func (c *Credentials) ClientOptions() []option.ClientOption {
	if c == nil || c.auth == nil {
		return nil
	}
	return []option.ClientOption{option.WithAuthCredentials(c.auth)}
}

// ResolveProjectID prefers a non-blank override over the credential's own
// project id.
func ResolveProjectID(fromCredentials, override string) string {
	if v := strings.TrimSpace(override); v != "" {
		return v
	}
	return strings.TrimSpace(fromCredentials)
}
