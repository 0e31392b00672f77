// SPDX-License-Identifier: MPL-2.0

// Package config resolves the process-wide robopages configuration from
// defaults, the per-user config file, environment variables, and an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, also the config directory name.
	AppName = "robopages"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"

	// EnvPath overrides the default book path when set.
	EnvPath = "ROBOPAGES_PATH"

	// DefaultAddress is the default serve listen address.
	DefaultAddress = "127.0.0.1:8000"
	// DefaultWorkers is the default bounded worker count; 0 means NumCPU.
	DefaultWorkers = 4
)

// Config is the resolved robopages configuration.
type Config struct {
	// Path is the book path commands load from by default.
	Path string `mapstructure:"path"`
	// Address is the serve listen address.
	Address string `mapstructure:"address"`
	// Workers bounds concurrent tool-call execution; 0 means NumCPU.
	Workers int `mapstructure:"workers"`
	// Shell holds shell execution settings.
	Shell ShellConfig `mapstructure:"shell"`
}

// ShellConfig holds shell execution settings.
type ShellConfig struct {
	// Virtual runs shell-flavored functions in the embedded interpreter
	// instead of spawning the host shell.
	Virtual bool `mapstructure:"virtual"`
}

var (
	mu           sync.Mutex
	cached       *Config
	fileOverride string
)

// DefaultBookPath returns ~/.robopages, the conventional book location.
func DefaultBookPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".robopages"
	}
	return filepath.Join(home, ".robopages")
}

// Dir returns the robopages configuration directory using
// platform-specific conventions: %APPDATA% on Windows,
// ~/Library/Application Support on macOS, $XDG_CONFIG_HOME (defaulting
// to ~/.config) elsewhere.
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("determine home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// SetConfigFilePathOverride points config loading at an explicit file,
// typically from a --config flag. It resets the cached config.
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	fileOverride = path
	cached = nil
}

// Get returns the process-wide configuration, loading it on first use.
// Load failures fall back to defaults and are logged, never fatal.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cfg, err := load(fileOverride)
		if err != nil {
			log.Warn("falling back to default configuration", "err", err)
			cfg = defaults()
		}
		cached = cfg
	}
	return cached
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	fileOverride = ""
}

func defaults() *Config {
	return &Config{
		Path:    DefaultBookPath(),
		Address: DefaultAddress,
		Workers: DefaultWorkers,
	}
}

// load resolves the configuration. A .env in the working directory is
// applied to the environment first so ROBOPAGES_PATH set there behaves
// like any other environment override. A missing config file is not an
// error; a malformed one is.
func load(override string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug("skipping .env", "err", err)
	}

	v := viper.New()
	def := defaults()
	v.SetDefault("path", def.Path)
	v.SetDefault("address", def.Address)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("shell.virtual", def.Shell.Virtual)

	if err := v.BindEnv("path", EnvPath); err != nil {
		return nil, fmt.Errorf("bind %s: %w", EnvPath, err)
	}

	if override != "" {
		v.SetConfigFile(override)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", override, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
