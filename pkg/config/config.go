// Package config loads bearkit settings from bearkit.toml, BEARKIT_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// FileNames are searched for, in order, from the working directory upwards.
var FileNames = []string{"bearkit.toml", ".bearkit.toml"}

// Config is the complete set of settings.
type Config struct {
	Indent   IndentConfig   `mapstructure:"indent"`
	Check    CheckConfig    `mapstructure:"check"`
	Scan     ScanConfig     `mapstructure:"scan"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Output   OutputConfig   `mapstructure:"output"`
	Store    StoreConfig    `mapstructure:"store"`
}

type IndentConfig struct {
	UseSpaces bool `mapstructure:"use_spaces"`
	Size      int  `mapstructure:"size"`
}

type CheckConfig struct {
	Strict   bool     `mapstructure:"strict"`
	Disabled []string `mapstructure:"disabled"`
}

type ScanConfig struct {
	IncludeHidden bool  `mapstructure:"include_hidden"`
	MaxFileSize   int64 `mapstructure:"max_file_size"`
	Workers       int   `mapstructure:"workers"`
}

type ProfilesConfig struct {
	Path    string   `mapstructure:"path"` // directory of extra profile files
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

type CacheConfig struct {
	Size int `mapstructure:"size"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

type StoreConfig struct {
	Path        string `mapstructure:"path"`
	Incremental bool   `mapstructure:"incremental"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("indent.use_spaces", false)
	v.SetDefault("indent.size", 4)

	v.SetDefault("check.strict", false)
	v.SetDefault("check.disabled", []string{})

	v.SetDefault("scan.include_hidden", false)
	v.SetDefault("scan.max_file_size", 10*1024*1024) // 10 MB
	v.SetDefault("scan.workers", 0)                  // 0 = GOMAXPROCS

	v.SetDefault("profiles.path", "")
	v.SetDefault("profiles.include", []string{})
	v.SetDefault("profiles.exclude", []string{})

	v.SetDefault("cache.size", 1024)

	v.SetDefault("output.format", "human")
	v.SetDefault("output.color", "auto")

	v.SetDefault("store.path", ":memory:")
	v.SetDefault("store.incremental", false)
}

// New returns a viper instance with defaults, environment binding and the
// config file at path. An empty path searches upwards from the working
// directory; finding nothing is not an error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("BEARKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "getting working directory")
		}
		path = Find(wd)
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return v, nil
}

// Find walks up from dir and returns the first config file found, or "".
func Find(dir string) string {
	for {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot be acted on.
func (c *Config) Validate() error {
	if c.Indent.Size < 1 || c.Indent.Size > 16 {
		return errors.Newf("indent.size must be between 1 and 16, got %d", c.Indent.Size)
	}
	if c.Scan.Workers < 0 {
		return errors.Newf("scan.workers must not be negative, got %d", c.Scan.Workers)
	}
	if c.Cache.Size < 0 {
		return errors.Newf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if !slices.Contains([]string{"human", "json", "sarif"}, c.Output.Format) {
		return errors.WithHint(
			errors.Newf("unknown output.format %q", c.Output.Format),
			"use one of: human, json, sarif",
		)
	}
	if !slices.Contains([]string{"auto", "always", "never"}, c.Output.Color) {
		return errors.Newf("unknown output.color %q", c.Output.Color)
	}
	for _, name := range c.Check.Disabled {
		if !slices.Contains(types.AllChecks, types.Check(name)) {
			return errors.WithHint(
				errors.Newf("unknown check %q in check.disabled", name),
				"run `bearkit check --help` for the list of checks",
			)
		}
	}
	return nil
}

// IndentUnit is the string inserted per nesting level.
func (c *Config) IndentUnit() string {
	if c.Indent.UseSpaces {
		return strings.Repeat(" ", c.Indent.Size)
	}
	return "\t"
}

// DisabledChecks returns check.disabled as a set.
func (c *Config) DisabledChecks() map[types.Check]bool {
	out := make(map[types.Check]bool, len(c.Check.Disabled))
	for _, name := range c.Check.Disabled {
		out[types.Check(name)] = true
	}
	return out
}
