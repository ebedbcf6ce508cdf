// SPDX-License-Identifier: MPL-2.0

// Package config handles cmplr's own optional tool configuration using Viper.
//
// The build itself is zero-config; this file only supplies defaults for knobs
// that otherwise come from flags (output directory, type emission) and the
// command lines used to reach the external toolchain. Project tsconfig.json
// handling lives in internal/tsconfig, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cmplr-cli/internal/fsx"
	"cmplr-cli/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "cmplr"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "cmplr"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

type (
	// Config is cmplr's tool configuration.
	Config struct {
		// OutDir is the default output directory.
		OutDir string `mapstructure:"out_dir"`
		// NoTypes skips declaration emission by default.
		NoTypes bool `mapstructure:"no_types"`
		// TypeCheck runs a full type check by default.
		TypeCheck bool `mapstructure:"type_check"`
		// Verbose enables verbose output by default.
		Verbose bool `mapstructure:"verbose"`
		// Tools holds command-line overrides for the external toolchain.
		Tools ToolCommands `mapstructure:"tools"`
	}

	// ToolCommands are the command strings invoked for each external
	// collaborator. Each is split with shell quoting rules before use.
	ToolCommands struct {
		Compiler    string `mapstructure:"compiler"`
		TypeChecker string `mapstructure:"type_checker"`
		Installer   string `mapstructure:"installer"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		OutDir: "dist",
		Tools: ToolCommands{
			Compiler:    "npx swc",
			TypeChecker: "npx tsc",
			Installer:   "npm",
		},
	}
}

// ConfigDir returns the cmplr configuration directory, honoring
// $XDG_CONFIG_HOME and defaulting to ~/.config.
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// Load reads the tool configuration. A cmplr.toml in the current directory
// wins over the one in the user config directory; with neither present the
// defaults are returned without error.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("out_dir", defaults.OutDir)
	v.SetDefault("no_types", defaults.NoTypes)
	v.SetDefault("type_check", defaults.TypeCheck)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("tools.compiler", defaults.Tools.Compiler)
	v.SetDefault("tools.type_checker", defaults.Tools.TypeChecker)
	v.SetDefault("tools.installer", defaults.Tools.Installer)

	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadTOMLIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load tool configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Delete the file to fall back to built-in defaults").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tool configuration: %w", err)
	}

	return &cfg, nil
}

// resolveConfigPath locates the config file, local directory first.
func resolveConfigPath() (string, error) {
	local := ConfigFileName + "." + ConfigFileExt
	if fsx.FileExists(local) {
		return local, nil
	}

	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	global := filepath.Join(cfgDir, "config."+ConfigFileExt)
	if fsx.FileExists(global) {
		return global, nil
	}

	return "", nil
}

// loadTOMLIntoViper parses a TOML file and merges its contents into Viper,
// so file values override defaults but remain overridable by flags.
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var configMap map[string]any
	if err := toml.Unmarshal(data, &configMap); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config file: %w", err)
	}

	return nil
}
