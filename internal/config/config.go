// Package config loads span-mapper configuration with viper.
//
// Precedence, lowest to highest: defaults, the config file (TOML or YAML,
// picked by extension), SPANMAPPER_* environment variables. Nested keys use
// "_" in env names, e.g. SPANMAPPER_LOG_LEVEL.
package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"span-mapper/internal/mapping"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SPANMAPPER"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full span-mapper configuration.
type Config struct {
	// Source is the path spec whose spans provide lookup keys.
	Source string `mapstructure:"source"`
	// Target is the path spec receiving looked-up values.
	Target string `mapstructure:"target"`
	// Update selects update mode; it has no default and must be set.
	Update bool `mapstructure:"update"`
	// File is the dictionary path.
	File string `mapstructure:"file"`
	// Types lists type-system descriptor files (.yaml/.yml) and Go
	// package patterns.
	Types []string `mapstructure:"types"`
	// Workers is the number of documents processed concurrently.
	Workers int `mapstructure:"workers"`
	// Watch reloads the dictionary when File changes.
	Watch bool `mapstructure:"watch"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig configures internal/logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// keys are bound to environment variables so that Unmarshal sees
// overrides for keys without a default.
var keys = []string{
	"source", "target", "update", "file", "types", "workers", "watch", "log.json", "log.level",
}

// SetDefaults configures default values for optional keys.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workers", 1)
	v.SetDefault("watch", false)
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	SetDefaults(v)

	return v
}

// Load reads configuration from path (may be empty for env-only
// configuration) and validates it. Relative dictionary and descriptor
// paths are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	v := New()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	if path != "" {
		cfg.resolvePaths(filepath.Dir(path))
	}

	return cfg, nil
}

// LoadWithViper unmarshals and validates configuration from v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	if !v.IsSet("update") {
		return nil, errors.Wrap(ErrInvalidConfig, "update is required")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the mapping rule syntax and host options. It does not
// need a type system.
func (c *Config) Validate() error {
	if err := c.Rule().CheckSyntax(); err != nil {
		return errors.Mark(errors.Wrap(err, "mapping rule"), ErrInvalidConfig)
	}

	if c.Workers < 1 {
		return errors.Wrapf(ErrInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}

	if c.Watch && c.File == "" {
		return errors.Wrap(ErrInvalidConfig, "watch needs a dictionary file")
	}

	return nil
}

// Rule returns the mapping rule of c.
func (c *Config) Rule() mapping.Rule {
	return mapping.Rule{Source: c.Source, Target: c.Target, Update: c.Update}
}

// DescriptorFiles returns the Types entries naming YAML descriptors.
func (c *Config) DescriptorFiles() []string {
	var out []string

	for _, t := range c.Types {
		if isDescriptor(t) {
			out = append(out, t)
		}
	}

	return out
}

// Packages returns the Types entries naming Go package patterns.
func (c *Config) Packages() []string {
	var out []string

	for _, t := range c.Types {
		if !isDescriptor(t) {
			out = append(out, t)
		}
	}

	return out
}

func (c *Config) resolvePaths(dir string) {
	if c.File != "" && !filepath.IsAbs(c.File) {
		c.File = filepath.Join(dir, c.File)
	}

	for i, t := range c.Types {
		if isDescriptor(t) && !filepath.IsAbs(t) {
			c.Types[i] = filepath.Join(dir, t)
		}
	}
}

func isDescriptor(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
