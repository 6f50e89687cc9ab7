package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the defrag configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority, bound by the commands)
//  2. Environment variables (DEFRAG_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry" yaml:"telemetry"`

	// Metrics controls Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics" yaml:"metrics"`

	// Compaction selects the policies to run and what they record
	Compaction CompactionConfig `mapstructure:"compaction" json:"compaction" yaml:"compaction"`

	// Output controls how command results are printed
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output"`

	// Show controls the block map rendered by 'defrag show'
	Show ShowConfig `mapstructure:"show" json:"show" yaml:"show"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" json:"level" validate:"required,oneof=DEBUG INFO WARN ERROR" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" json:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path. Defaults to stderr so that
	// logs never interleave with command results on stdout.
	Output string `mapstructure:"output" json:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
// When enabled, one span per compaction run is exported to an
// OTLP-compatible collector (e.g., Jaeger, Tempo).
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false (opt-in for telemetry)
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317" (standard OTLP gRPC port)
	Endpoint string `mapstructure:"endpoint" json:"endpoint" validate:"required_if=Enabled true" yaml:"endpoint"`

	// Insecure controls whether to use insecure (non-TLS) connection
	// Default: true (for local development)
	Insecure bool `mapstructure:"insecure" json:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0 (sample all)
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate"`
}

// MetricsConfig controls Prometheus metrics collection.
// When Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	// Enabled controls whether metrics are collected
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// Textfile is the path the registry is written to when a command
	// finishes, in the node_exporter textfile collector format.
	// Required when Enabled is true.
	Textfile string `mapstructure:"textfile" json:"textfile" validate:"required_if=Enabled true" yaml:"textfile"`
}

// CompactionConfig selects the compaction policies to run.
type CompactionConfig struct {
	// Policies lists the policies run by 'checksum', 'show' and 'verify',
	// in order. Valid values: block, file
	// Default: [block, file]
	Policies []string `mapstructure:"policies" json:"policies" validate:"min=1,dive,oneof=block file" yaml:"policies"`

	// RecordLayout makes compactors keep the compacted file extents so
	// results can be rendered or exported. Always on for 'show' and 'verify'.
	RecordLayout bool `mapstructure:"record_layout" json:"record_layout" yaml:"record_layout"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Format is the default output format
	// Valid values: table, json, yaml
	Format string `mapstructure:"format" json:"format" validate:"required,oneof=table json yaml" yaml:"format"`
}

// ShowConfig controls block map rendering.
type ShowConfig struct {
	// MaxBlocks is the largest disk 'defrag show' agrees to render
	// Default: 256
	MaxBlocks int64 `mapstructure:"max_blocks" json:"max_blocks" validate:"gte=1" yaml:"max_blocks"`

	// Width wraps rendered block maps after this many blocks (0 = no wrap)
	// Default: 64
	Width int `mapstructure:"width" json:"width" validate:"gte=0" yaml:"width"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (DEFRAG_*)
//  2. Configuration file
//  3. Default values
//
// A missing configuration file is not an error: defaults and environment
// variables still apply.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal into config struct with custom decode hooks
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file path.
// The configuration is saved in YAML format using proper yaml tags.
func SaveConfig(cfg *Config, path string) error {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use DEFRAG_ prefix and underscores
	// Example: DEFRAG_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DEFRAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every
	// key is registered through its default.
	registerDefaults(v, GetDefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default location: $XDG_CONFIG_HOME/defrag/config.yaml
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// registerDefaults walks cfg and sets a viper default for every leaf,
// keyed by the dotted mapstructure path.
func registerDefaults(v *viper.Viper, cfg *Config) {
	var walk func(prefix string, rv reflect.Value)
	walk = func(prefix string, rv reflect.Value) {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			key := rt.Field(i).Tag.Get("mapstructure")
			if key == "" {
				continue
			}
			if prefix != "" {
				key = prefix + "." + key
			}
			if fv := rv.Field(i); fv.Kind() == reflect.Struct {
				walk(key, fv)
			} else {
				v.SetDefault(key, fv.Interface())
			}
		}
	}
	walk("", reflect.ValueOf(cfg).Elem())
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		// Explicit config file that doesn't exist
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		policyListDecodeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// policyListDecodeHook normalizes policy lists given as a comma-separated
// string (DEFRAG_COMPACTION_POLICIES="block, FILE") or as a YAML list: names
// are trimmed and lower-cased, empty entries dropped.
func policyListDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf([]string(nil)) {
			return data, nil
		}

		var raw []string
		switch v := data.(type) {
		case string:
			raw = strings.Split(v, ",")
		case []string:
			raw = v
		case []interface{}:
			for _, item := range v {
				raw = append(raw, fmt.Sprint(item))
			}
		default:
			return data, nil
		}

		out := make([]string, 0, len(raw))
		for _, s := range raw {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "defrag")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "defrag")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
