// Package config loads the toolkit's YAML configuration, applies environment
// overrides, and validates the result.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cmorran/watershed/pkg/validation"
)

// SourceFile and SourcePostgres name the two routing-table backends.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config is the toolkit configuration.
type Config struct {
	// DataRoot is the NHDPlus-style dataset directory.
	DataRoot string `yaml:"data_root"`
	// Source selects where routing tables come from: file or postgres.
	Source string `yaml:"source"`
	// DatabaseURL is required when Source is postgres. The DATABASE_URL
	// environment variable overrides it.
	DatabaseURL string `yaml:"database_url"`

	// TerminalClass is the flowline type marking network outlets.
	TerminalClass string `yaml:"terminal_class"`
	// ZoneProperty and UnitProperty name the key properties of the zone
	// boundary and catchment layers.
	ZoneProperty string `yaml:"zone_property"`
	UnitProperty string `yaml:"unit_property"`

	// MaxUnits caps traversal size per request (0 = unlimited).
	MaxUnits int `yaml:"max_units"`

	S3     S3Config     `yaml:"s3"`
	Server ServerConfig `yaml:"server"`
}

// S3Config configures the optional dataset fetcher.
type S3Config struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// Duration wraps time.Duration so YAML can carry "30s"-style values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns a configuration with every optional field filled in.
func Default() Config {
	return Config{
		Source:        SourceFile,
		TerminalClass: "Coastline",
		ZoneProperty:  "VPU",
		UnitProperty:  "FEATUREID",
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration(30 * time.Second),
		},
	}
}

// Load reads a YAML config file, fills defaults, applies environment
// overrides and validates. An empty path yields the defaults (still subject
// to validation, so DataRoot must come from the environment or flags).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	c.Source = validation.DefaultOr(c.Source, d.Source)
	c.TerminalClass = validation.DefaultOr(c.TerminalClass, d.TerminalClass)
	c.ZoneProperty = validation.DefaultOr(c.ZoneProperty, d.ZoneProperty)
	c.UnitProperty = validation.DefaultOr(c.UnitProperty, d.UnitProperty)
	c.Server.Addr = validation.DefaultOr(c.Server.Addr, d.Server.Addr)
	c.Server.ShutdownTimeout = validation.DefaultOr(c.Server.ShutdownTimeout, d.Server.ShutdownTimeout)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WATERSHED_DATA_ROOT"); v != "" {
		c.DataRoot = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("WATERSHED_S3_BUCKET"); v != "" {
		c.S3.Enabled = true
		c.S3.Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && c.S3.Region == "" {
		c.S3.Region = v
	}
}

// Validate checks the configuration for coherence.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Required("DataRoot", c.DataRoot).
		OneOf("Source", c.Source, []string{SourceFile, SourcePostgres}).
		NonNegative("MaxUnits", c.MaxUnits).
		Required("ZoneProperty", c.ZoneProperty).
		Required("UnitProperty", c.UnitProperty).
		When(c.Source == SourcePostgres, func(v *validation.ConfigValidator) {
			v.Required("DatabaseURL", c.DatabaseURL)
		}).
		When(c.S3.Enabled, func(v *validation.ConfigValidator) {
			v.Required("S3.Bucket", c.S3.Bucket)
			v.Required("S3.Region", c.S3.Region)
		}).
		Validate()
}
