package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	Format    string
	Theme     string
	LogLevel  string
	Scheme    string
	TuistPath string
	NoColor   bool

	// NoColorSet tracks whether --no-color was given explicitly.
	NoColorSet bool
}

// ResolvedConfig holds the final resolved configuration after applying all priority rules.
type ResolvedConfig struct {
	Format        string
	Theme         string
	NoColor       bool
	LogLevel      string
	Scheme        string
	TuistPath     string
	ExtraArgs     string
	MaxLineLength int

	// Resolution metadata (for debugging)
	FormatSource  string // "cli", "env", "file"
	ThemeSource   string // "cli", "env", "file"
	NoColorSource string // "cli", "env", "file"
}

var (
	validFormats   = []string{"auto", "terminal", "llm", "json"}
	validThemes    = []string{"default", "orca", "mono"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// ResolveConfig resolves configuration from all sources with explicit priority order.
// appCfg carries file values already merged over defaults.
func ResolveConfig(cliFlags CliFlags, appCfg *AppConfig) (*ResolvedConfig, error) {
	if appCfg == nil {
		appCfg = Default()
	}

	resolved := &ResolvedConfig{
		Scheme:        appCfg.Scheme,
		TuistPath:     appCfg.TuistPath,
		ExtraArgs:     appCfg.ExtraArgs,
		MaxLineLength: appCfg.MaxLineLength,
	}

	resolved.Format, resolved.FormatSource = resolveString(cliFlags.Format, "TUISTRUN_FORMAT", appCfg.Format)
	resolved.Theme, resolved.ThemeSource = resolveString(cliFlags.Theme, "TUISTRUN_THEME", appCfg.Theme)
	resolved.LogLevel, _ = resolveString(cliFlags.LogLevel, "TUISTRUN_LOG_LEVEL", appCfg.LogLevel)
	resolved.Format = strings.ToLower(resolved.Format)
	resolved.LogLevel = strings.ToLower(resolved.LogLevel)

	resolved.NoColor, resolved.NoColorSource = appCfg.NoColor, "file"
	if cliFlags.NoColorSet {
		resolved.NoColor = cliFlags.NoColor
		resolved.NoColorSource = "cli"
	} else if envNoColor := getEnvBool("TUISTRUN_NO_COLOR", "NO_COLOR"); envNoColor != nil {
		resolved.NoColor = *envNoColor
		resolved.NoColorSource = "env"
	}

	if cliFlags.Scheme != "" {
		resolved.Scheme = cliFlags.Scheme
	}
	if cliFlags.TuistPath != "" {
		resolved.TuistPath = cliFlags.TuistPath
	}

	if resolved.NoColor {
		resolved.Theme = "mono"
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

// resolveString applies CLI > env > file for a single string value.
func resolveString(cli, envKey, file string) (string, string) {
	if cli != "" {
		return cli, "cli"
	}
	if env := os.Getenv(envKey); env != "" {
		return env, "env"
	}
	return file, "file"
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set, or a pointer to the boolean value.
// NO_COLOR follows its convention: any non-empty value disables color.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
		if key == "NO_COLOR" {
			b := true
			return &b
		}
	}
	return nil
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !slices.Contains(validFormats, cfg.Format) {
		return fmt.Errorf("invalid format value: %s (must be: %s)", cfg.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validThemes, cfg.Theme) {
		return fmt.Errorf("invalid theme value: %s (must be: %s)", cfg.Theme, strings.Join(validThemes, ", "))
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log_level value: %s (must be: %s)", cfg.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if cfg.MaxLineLength <= 0 {
		return fmt.Errorf("max_line_length must be positive, got: %d", cfg.MaxLineLength)
	}
	return nil
}
