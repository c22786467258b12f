package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configpkg "github.com/minhyannv/region-analytics-go/pkg/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := configpkg.DefaultConfig()
	cmd := newRootCmd(&cfg, &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMergeCommandWritesMergedFile(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"emea.json":     `{"FR": 1}`,
		"americas.json": `{"US": 2}`,
		"apac.json":     `{"JP": 3, "FR": 9}`,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	stdout, _, err := execute(t, "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Successfully merged emea.json, americas.json, and apac.json into merged.json.\n", stdout)

	data, err := os.ReadFile(filepath.Join(dir, "merged.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"FR\": 9,\n  \"JP\": 3,\n  \"US\": 2\n}", string(data))
}

func TestMergeCommandCustomOutput(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"emea.json", "americas.json", "apac.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(`{}`), 0o644))
	}
	out := filepath.Join(t.TempDir(), "all.json")

	stdout, _, err := execute(t, "--dir", dir, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "into all.json.")
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "merged.json"))
}

func TestMergeCommandMissingRegion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "emea.json"), []byte(`{}`), 0o644))

	_, _, err := execute(t, "--dir", dir)
	require.Error(t, err)
	msg := describeError(err)
	assert.Contains(t, msg, "americas.json not found.")
	assert.True(t, strings.HasPrefix(msg, "Error: "))
	assert.NoFileExists(t, filepath.Join(dir, "merged.json"))
}

func TestMergeCommandMalformedRegion(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"emea.json":     `{"FR": 1}`,
		"americas.json": `{"US": }`,
		"apac.json":     `{}`,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	_, _, err := execute(t, "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, describeError(err), "Error decoding JSON from a file:")
	assert.NoFileExists(t, filepath.Join(dir, "merged.json"))
}

func TestMergeCommandRejectsArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "", joinNames(nil))
	assert.Equal(t, "a", joinNames([]string{"a"}))
	assert.Equal(t, "a and b", joinNames([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", joinNames([]string{"a", "b", "c"}))
}
