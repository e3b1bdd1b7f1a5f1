// Package config handles configuration loading and merging for tuistrun.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --no-color, --log-level, --scheme, --tuist)
//  2. Environment variables (TUISTRUN_FORMAT, TUISTRUN_THEME, TUISTRUN_NO_COLOR, NO_COLOR, TUISTRUN_LOG_LEVEL)
//  3. YAML config file (.tuistrun.yaml in the working directory or ~/.config/tuistrun/.tuistrun.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Key Configuration Options
//
//   - Format: output mode (auto, terminal, llm, json)
//   - Theme: terminal theme (default, orca, mono)
//   - NoColor: forces the mono theme
//   - Scheme, TuistPath, ExtraArgs: defaults for the command and rerun subcommands
//   - MaxLineLength: longest transcript line accepted before reading fails
//
// # Environment Variables
//
//   - TUISTRUN_NO_COLOR or NO_COLOR: "true" or "1" disables colors
//   - TUISTRUN_FORMAT, TUISTRUN_THEME, TUISTRUN_LOG_LEVEL: override the matching keys
package config
