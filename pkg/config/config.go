package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs/url"
)

// Environment variables read by the analytics tools.
const (
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvProjectID   = "GOOGLE_PROJECT_ID"
	EnvPropertyID  = "GA_PROPERTY_ID"
)

// DefaultPropertyID is the analytics property reported on when none is configured.
const DefaultPropertyID = "384133949"

// MergedFileName is the merger output written next to the region files.
const MergedFileName = "merged.json"

// Config holds all runtime configuration shared by the command-line tools.
type Config struct {
	Verbose bool

	// Country-data merger.
	DataDir    string
	OutputFile string

	// Analytics tools.
	CredentialsPath string
	ProjectID       string
	PropertyID      string
	ReportFile      string
	Hold            time.Duration
	FailOnError     bool
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Verbose:    false,
		DataDir:    ".",
		PropertyID: DefaultPropertyID,
		Hold:       5 * time.Minute,
	}
}

// FromEnv overlays values found in the environment onto cfg.
// Unset or blank variables leave the existing value untouched.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		return cfg
	}
	if v := strings.TrimSpace(getenv(EnvCredentials)); v != "" {
		cfg.CredentialsPath = v
	}
	if v := strings.TrimSpace(getenv(EnvProjectID)); v != "" {
		cfg.ProjectID = v
	}
	if v := strings.TrimSpace(getenv(EnvPropertyID)); v != "" {
		cfg.PropertyID = v
	}
	return cfg
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.OutputFile = strings.TrimSpace(cfg.OutputFile)
	cfg.CredentialsPath = strings.TrimSpace(cfg.CredentialsPath)
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	cfg.PropertyID = strings.TrimPrefix(strings.TrimSpace(cfg.PropertyID), "properties/")
	cfg.ReportFile = strings.TrimSpace(cfg.ReportFile)

	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = JoinLocation(cfg.DataDir, MergedFileName)
	}
	if cfg.PropertyID == "" {
		cfg.PropertyID = DefaultPropertyID
	}
	if cfg.Hold < 0 {
		cfg.Hold = 0
	}
	return cfg
}

// JoinLocation joins a file name onto a directory that may be a local path
// or a storage URL such as mem://localhost/data.
func JoinLocation(dir, name string) string {
	if strings.Contains(dir, "://") {
		return url.Join(dir, name)
	}
	return filepath.Join(dir, name)
}
