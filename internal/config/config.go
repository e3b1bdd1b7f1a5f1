package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/tuistrun/pkg/runconfig"
	"github.com/dkoosis/tuistrun/pkg/xcodebuild"
)

// FileName is the config file looked up in the working and user config directories.
const FileName = ".tuistrun.yaml"

// Constants for default values.
const (
	DefaultFormat   = "auto"
	DefaultTheme    = "default"
	DefaultLogLevel = "warn"
)

// AppConfig represents the application's overall configuration from .tuistrun.yaml.
type AppConfig struct {
	Format        string `yaml:"format"`
	Theme         string `yaml:"theme"`
	NoColor       bool   `yaml:"no_color"`
	LogLevel      string `yaml:"log_level"`
	Scheme        string `yaml:"scheme"`
	TuistPath     string `yaml:"tuist_path"`
	ExtraArgs     string `yaml:"extra_args"`
	MaxLineLength int    `yaml:"max_line_length"` // In bytes
}

// Default returns the hardcoded configuration.
func Default() *AppConfig {
	return &AppConfig{
		Format:        DefaultFormat,
		Theme:         DefaultTheme,
		LogLevel:      DefaultLogLevel,
		TuistPath:     runconfig.DefaultExecutable,
		MaxLineLength: xcodebuild.DefaultMaxLineLength,
	}
}

// LoadConfig loads .tuistrun.yaml, looking in dir first and then in the user
// config directory. It returns the path that was read, or "" when none exists.
// A missing file is not an error; defaults are returned alongside any error.
func LoadConfig(dir string) (*AppConfig, string, error) {
	appCfg := Default()

	configPath := getConfigPath(dir)
	if configPath == "" {
		return appCfg, "", nil
	}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return appCfg, "", nil
		}
		return appCfg, configPath, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	var yamlAppCfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &yamlAppCfg); err != nil {
		return appCfg, configPath, fmt.Errorf("parsing config file %s: %w", configPath, err)
	}

	merge(appCfg, &yamlAppCfg)
	return appCfg, configPath, nil
}

// merge copies the set fields of file onto base.
func merge(base, file *AppConfig) {
	if file.Format != "" {
		base.Format = file.Format
	}
	if file.Theme != "" {
		base.Theme = file.Theme
	}
	base.NoColor = file.NoColor
	if file.LogLevel != "" {
		base.LogLevel = file.LogLevel
	}
	if file.Scheme != "" {
		base.Scheme = file.Scheme
	}
	if file.TuistPath != "" {
		base.TuistPath = file.TuistPath
	}
	if file.ExtraArgs != "" {
		base.ExtraArgs = file.ExtraArgs
	}
	if file.MaxLineLength > 0 {
		base.MaxLineLength = file.MaxLineLength
	}
}

// getConfigPath tries to find the config file.
// It checks dir first, then the XDG user config directory (if valid).
func getConfigPath(dir string) string {
	localPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(localPath); err == nil {
		return localPath
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable for a per-user file.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "tuistrun", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
