package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at an empty temp tree.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tempDir, "home"))
	return tempDir
}

func TestGetConfigPath_ReturnsLocalConfig_When_FileExists(t *testing.T) {
	dir := isolate(t)
	localConfig := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(localConfig, []byte("scheme: App\n"), 0o600))

	assert.Equal(t, localConfig, getConfigPath(dir))
}

func TestGetConfigPath_UsesXDGPath_When_LocalMissing(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on linux")
	}
	dir := isolate(t)
	configHome := filepath.Join(dir, "xdg", "tuistrun")
	require.NoError(t, os.MkdirAll(configHome, 0o755))
	configPath := filepath.Join(configHome, FileName)
	require.NoError(t, os.WriteFile(configPath, []byte("scheme: App\n"), 0o600))

	assert.Equal(t, configPath, getConfigPath(dir))
}

func TestGetConfigPath_ReturnsEmpty_When_NoConfigAvailable(t *testing.T) {
	dir := isolate(t)
	assert.Empty(t, getConfigPath(dir))
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	dir := isolate(t)
	cfg, path, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	dir := isolate(t)
	yaml := "format: json\nscheme: App\nextra_args: -destination 'platform=iOS Simulator,name=iPhone 15'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o600))

	cfg, path, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "App", cfg.Scheme)
	assert.Equal(t, "-destination 'platform=iOS Simulator,name=iPhone 15'", cfg.ExtraArgs)
	assert.Equal(t, DefaultTheme, cfg.Theme, "unset keys keep defaults")
	assert.Equal(t, "tuist", cfg.TuistPath)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("format: [unterminated\n"), 0o600))

	cfg, _, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
	assert.Equal(t, Default(), cfg, "defaults are returned alongside the error")
}
