// Package config loads typeprobe settings using Viper.
//
// Settings come, in increasing precedence, from built-in defaults, a YAML file
// (.typeprobe.yaml in the working directory, or the path given with --config)
// and TYPEPROBE_* environment variables. Nested keys map to environment names
// with "_", so output.dir is TYPEPROBE_OUTPUT_DIR.
package config
