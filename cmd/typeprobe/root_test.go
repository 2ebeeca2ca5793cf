package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), err
}

func writeBattery(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "battery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %v", err)

	return exitErr.Code
}

func TestRoot_NoArgsPrintsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)

	assert.Contains(t, out, "typeprobe")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "probe")
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
}

func TestRoot_MissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "list", "probes")
	require.Error(t, err)
	assert.Equal(t, ExitInvalid, exitCode(t, err))
}

func TestCheck_DefaultBattery(t *testing.T) {
	out, err := execute(t, "check")
	require.NoError(t, err)

	assert.Contains(t, out, "container.Vector[int]")
	assert.Contains(t, out, "15 passed, 0 mismatched, 0 unverified, 0 failed")
}

func TestCheck_Mismatch(t *testing.T) {
	path := writeBattery(t, `
cases:
  - type: "[10]int"
    expect:
      reserve: true
      value-type: true
`)

	out, err := execute(t, "check", path, "--parallelism", "1")
	require.Error(t, err)

	assert.Equal(t, ExitMismatch, exitCode(t, err))
	assert.Contains(t, err.Error(), "1 of 2 expectations not met")
	assert.Contains(t, out, "MISMATCH")
	assert.Contains(t, out, "1 passed, 1 mismatched")
}

func TestCheck_InvalidBattery(t *testing.T) {
	path := writeBattery(t, `
cases:
  - type: int
    expect:
      reserv: true
`)

	_, err := execute(t, "check", path)
	require.Error(t, err)

	assert.Equal(t, ExitInvalid, exitCode(t, err))
	assert.Contains(t, err.Error(), "reserve")
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitInvalid, exitCode(t, err))
}

func TestProbe(t *testing.T) {
	out, err := execute(t, "probe", "container.Vector[int]", "reserve", "data-field", "-i", "typeprobe/container")
	require.NoError(t, err)

	assert.Contains(t, out, "container.Vector[int]")
	assert.Regexp(t, `YES\s+reserve`, out)
	assert.Regexp(t, `NO\s+data-field`, out)
}

func TestProbe_AllProbesOnBuiltin(t *testing.T) {
	out, err := execute(t, "probe", "[]int")
	require.NoError(t, err)

	for _, name := range []string{"copy-assignable", "data-field", "reserve", "value-type"} {
		assert.Contains(t, out, name)
	}
}

func TestProbe_Dump(t *testing.T) {
	out, err := execute(t, "probe", "int", "copy-assignable", "--dump")
	require.NoError(t, err)

	assert.Contains(t, out, "Holds: (bool) true")
}

func TestProbe_Errors(t *testing.T) {
	_, err := execute(t, "probe", "int", "reserv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean reserve?")

	_, err = execute(t, "probe", "nosuchpkg.T", "reserve")
	require.Error(t, err)
	assert.Equal(t, ExitInvalid, exitCode(t, err))
}

func TestListProbes(t *testing.T) {
	path := writeBattery(t, `
probes:
  - name: has-len
    method: Len
`)

	out, err := execute(t, "list", "probes", "--probes", path)
	require.NoError(t, err)

	for _, name := range []string{"copy-assignable", "data-field", "has-len", "reserve", "value-type"} {
		assert.Contains(t, out, name)
	}
}

func TestListTypes(t *testing.T) {
	out, err := execute(t, "list", "types", "typeprobe/container", "--match", "**/container.Type*")
	require.NoError(t, err)

	assert.Contains(t, out, "typeprobe/container.TypeWithPublicData")
	assert.Contains(t, out, "typeprobe/container.TypeWithPrivateData")
	assert.NotContains(t, out, "Vector")

	_, err = execute(t, "list", "types", "typeprobe/container", "--match", "[")
	require.Error(t, err)
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	path := writeBattery(t, `
imports: typeprobe/container
cases:
  - type: container.Vector[int]
    expect:
      reserve: true
  - name: array
    type: "[10]int"
    expect:
      reserve: true
`)

	out, err := execute(t, "gen", path, "-o", dir, "--package", "caps")
	require.NoError(t, err, "mismatches do not fail generation")
	assert.Contains(t, out, "wrote")

	content, err := os.ReadFile(filepath.Join(dir, "capabilities_gen.go"))
	require.NoError(t, err)

	src := string(content)
	assert.Contains(t, src, "package caps")
	assert.Regexp(t, `ContainerVectorIntHasReserve\s+= true`, src)
	assert.Regexp(t, `ArrayHasReserve\s+= false`, src)
}
