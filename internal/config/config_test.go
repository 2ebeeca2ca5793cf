package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, path, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, path)

	want := DefaultConfig()
	assert.Empty(t, cfg.Packages)
	assert.Empty(t, cfg.Battery)
	assert.Equal(t, want.GoVersion, cfg.GoVersion)
	assert.Zero(t, cfg.Parallelism)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, want.Output, cfg.Output)
}

func TestLoad_LocalFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `
packages:
  - example.com/pkg/a
  - example.com/pkg/b
battery: probes.yaml
go_version: go1.23
parallelism: 2
verbose: true
output:
  dir: internal/caps
  package: caps
`)

	cfg, path, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, want, path)
	assert.Equal(t, []string{"example.com/pkg/a", "example.com/pkg/b"}, cfg.Packages)
	assert.Equal(t, "probes.yaml", cfg.Battery)
	assert.Equal(t, "go1.23", cfg.GoVersion)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "internal/caps", cfg.Output.Dir)
	assert.Equal(t, "caps", cfg.Output.Package)
	assert.Equal(t, "capabilities_gen.go", cfg.Output.Filename, "unset keys keep their defaults")
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 7\n"), 0o644))

	cfg, got, err := Load(LoadOptions{ConfigFilePath: path})
	require.NoError(t, err)

	assert.Equal(t, path, got)
	assert.Equal(t, 7, cfg.Parallelism)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := Load(LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "parallelism: 2\n")

	t.Setenv("TYPEPROBE_PARALLELISM", "5")
	t.Setenv("TYPEPROBE_OUTPUT_PACKAGE", "fromenv")

	cfg, _, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Parallelism, "environment wins over the file")
	assert.Equal(t, "fromenv", cfg.Output.Package)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "parallelism: [\n")

	_, _, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad go version", mutate: func(c *Config) { c.GoVersion = "1.24" }, wantErr: "go_version"},
		{name: "negative parallelism", mutate: func(c *Config) { c.Parallelism = -1 }, wantErr: "parallelism"},
		{name: "bad package", mutate: func(c *Config) { c.Output.Package = "my-caps" }, wantErr: "output.package"},
		{name: "bad filename", mutate: func(c *Config) { c.Output.Filename = "caps.txt" }, wantErr: "output.filename"},
		{name: "empty import path", mutate: func(c *Config) { c.Packages = []string{" "} }, wantErr: "empty import paths"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
