package countries

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"

	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
	loggerpkg "github.com/minhyannv/region-analytics-go/pkg/logger"
)

// Region names one regional country-data file.
type Region struct {
	Name string
	File string
}

// DefaultRegions returns the region files in merge order. Later regions
// override earlier ones on shared keys.
func DefaultRegions() []Region {
	return []Region{
		{Name: "emea", File: "emea.json"},
		{Name: "americas", File: "americas.json"},
		{Name: "apac", File: "apac.json"},
	}
}

// Result summarizes a completed merge.
type Result struct {
	Sources   []string
	Output    string
	KeyCount  int
	Overrides []Override
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(m *Merger) {
		m.logger = l
	}
}

// WithVerbose enables debug logging.
func WithVerbose(verbose bool) Option {
	return func(m *Merger) {
		m.verbose = verbose
	}
}

// WithFS replaces the storage service used for reads and writes.
func WithFS(fs afs.Service) Option {
	return func(m *Merger) {
		m.fs = fs
	}
}

// Merger reads region files, merges them and writes the merged mapping.
type Merger struct {
	fs      afs.Service
	logger  loggerpkg.Logger
	verbose bool
}

// NewMerger builds a Merger backed by the local file system unless
// overridden with WithFS.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.fs == nil {
		m.fs = afs.New()
	}
	if m.logger == nil {
		m.logger = loggerpkg.NopLogger{}
	}
	return m
}

// LoadRegion reads and decodes one region file. The file must hold a JSON object.
func (m *Merger) LoadRegion(ctx context.Context, location string) (map[string]json.RawMessage, error) {
	location = resolve(location)
	exists, err := m.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", location, err)
	}
	if !exists {
		return nil, &MissingInputError{Path: location}
	}
	data, err := m.fs.DownloadWithURL(ctx, location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingInputError{Path: location}
		}
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	loggerpkg.Debug(m.verbose, m.logger, "region file read", map[string]any{
		"path":  location,
		"bytes": len(data),
	})

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &DecodeError{Path: location, Err: err}
	}
	if values == nil {
		return nil, &DecodeError{Path: location, Err: errors.New("top-level value is null, expected an object")}
	}
	return values, nil
}

// Run loads every region under dir, merges them in order and overwrites out.
// Every region is loaded before anything is written, so any read or decode
// failure leaves out untouched.
func (m *Merger) Run(ctx context.Context, dir string, regions []Region, out string) (Result, error) {
	if len(regions) == 0 {
		return Result{}, errors.New("no regions to merge")
	}

	sources := make([]Source, 0, len(regions))
	names := make([]string, 0, len(regions))
	for _, region := range regions {
		values, err := m.LoadRegion(ctx, configpkg.JoinLocation(dir, region.File))
		if err != nil {
			return Result{}, err
		}
		sources = append(sources, Source{Name: region.Name, Values: values})
		names = append(names, region.File)
	}

	mapping := Merge(sources...)
	for _, o := range mapping.Overrides {
		loggerpkg.Warn(m.logger, "key overridden by later region", map[string]any{
			"key":      o.Key,
			"previous": o.Previous,
			"winner":   o.Winner,
		})
	}

	data, err := Encode(mapping)
	if err != nil {
		return Result{}, fmt.Errorf("encode merged mapping: %w", err)
	}

	out = resolve(out)
	if err := m.fs.Upload(ctx, out, 0o644, bytes.NewReader(data)); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", out, err)
	}
	loggerpkg.Debug(m.verbose, m.logger, "merged file written", map[string]any{
		"path":  out,
		"keys":  len(mapping.Keys),
		"bytes": len(data),
	})

	return Result{
		Sources:   names,
		Output:    out,
		KeyCount:  len(mapping.Keys),
		Overrides: mapping.Overrides,
	}, nil
}

// resolve turns relative local paths into absolute ones; URLs pass through.
func resolve(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
