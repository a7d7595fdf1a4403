package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	root := NewRootCommand()
	require.NoError(t, root.ParseFlags(nil))

	cfg, err := loadConfig(root, flags{})
	require.NoError(t, err)
	assert.Equal(t, 28, cfg.TreeWidth)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	isolate(t)
	root := NewRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--log-level", "debug", "--width", "35", "--no-watch"}))

	cfg, err := loadConfig(root, flags{logLevel: "debug", width: 35, noWatch: true})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 35, cfg.TreeWidth)
	assert.False(t, cfg.Watch)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	root := NewRootCommand()

	_, err := loadConfig(root, flags{configPath: filepath.Join(t.TempDir(), "none.yaml")})
	assert.Error(t, err)
}

func TestRootCommand_RejectsExtraArgs(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"a", "b"})
	assert.Error(t, root.Execute())
}
