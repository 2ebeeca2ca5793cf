package battery

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const filePerm = 0o644

//go:embed default.yaml
var defaultBattery []byte

// Default returns the built-in battery over the container package and builtin types.
func Default() (*File, error) {
	f, err := Parse(defaultBattery)
	if err != nil {
		return nil, fmt.Errorf("default battery: %w", err)
	}

	return f, nil
}

// LoadFile loads and parses a YAML battery file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read battery file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal battery: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write battery file %s: %w", path, err)
	}

	return nil
}
