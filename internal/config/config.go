package config

import (
	"errors"
	"fmt"
	"go/token"
	"go/version"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"typeprobe/internal/detect"
)

const (
	// AppName is the application name and the environment variable prefix.
	AppName = "typeprobe"
	// ConfigFileName is the name of the config file looked up in the working directory.
	ConfigFileName = ".typeprobe.yaml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved configuration.
type Config struct {
	// Packages are extra import paths loaded before detection, on top of the
	// battery's own imports.
	Packages []string `mapstructure:"packages"`
	// Battery is the battery file to run; empty selects the embedded default.
	Battery string `mapstructure:"battery"`
	// GoVersion is the language version probes are checked against.
	GoVersion string `mapstructure:"go_version"`
	// Parallelism bounds concurrent evaluations; 0 means GOMAXPROCS.
	Parallelism int          `mapstructure:"parallelism"`
	Verbose     bool         `mapstructure:"verbose"`
	Output      OutputConfig `mapstructure:"output"`
}

// OutputConfig controls `typeprobe gen`.
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	Package  string `mapstructure:"package"`
	Filename string `mapstructure:"filename"`
}

// LoadOptions controls where Load looks for a config file.
type LoadOptions struct {
	// ConfigFilePath, when set, is the only file considered and must exist.
	ConfigFilePath string
	// Dir is searched for ConfigFileName; empty means the working directory.
	Dir string
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		GoVersion: detect.DefaultGoVersion,
		Output: OutputConfig{
			Dir:      "./generated",
			Package:  "capabilities",
			Filename: "capabilities_gen.go",
		},
	}
}

// Load resolves the configuration. It returns the config and the path of the
// file it was read from ("" when only defaults and environment applied).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("packages", defaults.Packages)
	v.SetDefault("battery", defaults.Battery)
	v.SetDefault("go_version", defaults.GoVersion)
	v.SetDefault("parallelism", defaults.Parallelism)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.package", defaults.Output.Package)
	v.SetDefault("output.filename", defaults.Output.Filename)

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := resolvePath(opts)
	if err != nil {
		return nil, "", err
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, path, nil
}

func resolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}

		return opts.ConfigFilePath, nil
	}

	local := filepath.Join(opts.Dir, ConfigFileName)
	if fileExists(local) {
		return local, nil
	}

	return "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks values Viper cannot type-check.
func (c *Config) Validate() error {
	var errs []error

	if !version.IsValid(c.GoVersion) {
		errs = append(errs, fmt.Errorf("go_version %q is not a Go language version like go1.24", c.GoVersion))
	}

	if c.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism))
	}

	if !token.IsIdentifier(c.Output.Package) {
		errs = append(errs, fmt.Errorf("output.package %q is not a Go identifier", c.Output.Package))
	}

	if c.Output.Filename != "" && filepath.Ext(c.Output.Filename) != ".go" {
		errs = append(errs, fmt.Errorf("output.filename %q must end in .go", c.Output.Filename))
	}

	for _, p := range c.Packages {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("packages must not contain empty import paths"))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	return nil
}
