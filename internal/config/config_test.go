package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
tree_width: 40
style: dark
watch: false
log_level: debug
documents:
  includes:
    exts: [md, markdown]
  excludes:
    dir_names: [archive]
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TreeWidth)
	assert.Equal(t, "dark", cfg.Style)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"md", "markdown"}, cfg.Condition.Includes.Exts)
	assert.Equal(t, []string{"archive"}, cfg.Condition.Excludes.DirNames)
	assert.Equal(t, "console", cfg.LogFormat, "unset keys keep their defaults")
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "tree_width: [")
	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "tree_width: 40\n")
	t.Setenv("DOCBROWSE_TREE_WIDTH", "22")
	t.Setenv("DOCBROWSE_EXTS", "md, txt")
	t.Setenv("DOCBROWSE_WATCH", "false")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 22, cfg.TreeWidth)
	assert.Equal(t, []string{"md", "txt"}, cfg.Condition.Includes.Exts)
	assert.False(t, cfg.Watch)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCBROWSE_STYLE=light\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DOCBROWSE_STYLE") })

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Style)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCBROWSE_TREE_WIDTH", "wide")
	_, err := Load("", false)
	assert.Error(t, err)
}
