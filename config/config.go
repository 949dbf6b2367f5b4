// Package config loads metafix run settings from defaults, an optional
// config.yaml and METAFIX_ environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. METAFIX_WORKERS.
const EnvPrefix = "METAFIX"

// Config holds the settings shared by the commands.
type Config struct {
	// OutputDir receives corrected records
	OutputDir string `mapstructure:"output_dir"`

	// ReviewDir receives best-effort text of records that still fail;
	// empty means OutputDir/review
	ReviewDir string `mapstructure:"review_dir"`

	// Workers is the number of records repaired concurrently
	Workers int `mapstructure:"workers"`

	// Templates is a namespace template set name or YAML file path
	Templates string `mapstructure:"templates"`

	// RulesFile overrides the embedded classifier rule set
	RulesFile string `mapstructure:"rules_file"`

	// Report is where the JSON batch report is written; empty disables it
	Report string `mapstructure:"report"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir: "corrected",
		Workers:   runtime.NumCPU(),
		Templates: "dublincore",
	}
}

// Dir is the per-user configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "metafix")
}

// New returns a viper instance with defaults, environment binding and the
// config file search path applied. cfgFile, when set, is the only file read.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("review_dir", defaults.ReviewDir)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("templates", defaults.Templates)
	v.SetDefault("rules_file", defaults.RulesFile)
	v.SetDefault("report", defaults.Report)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return v, nil
}

// Load decodes the current viper state.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
