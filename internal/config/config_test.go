package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/postit/internal/config"
	"github.com/tgienger/postit/internal/models"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("POSTIT_DATA_DIR", "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".config", "postit", "config.toml"), resolved)

	assert.Equal(t, filepath.Join(home, ".local", "share", "postit"), cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(home, ".local", "share", "postit", "logs"), cfg.Paths.LogDir)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "Inbox", cfg.Defaults.ProjectName)
	assert.Equal(t, models.PriorityLow, cfg.DefaultPriority())
	assert.Equal(t, models.FilterAll, cfg.DefaultFilter())

	require.NoError(t, cfg.EnsureDirectories())
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "postit.toml")

	custom := config.Default()
	custom.Paths.DataDir = filepath.Join(dir, "data")
	custom.Paths.LogDir = ""
	custom.Logging.Level = "DEBUG"
	custom.Defaults.ProjectName = "  Caixa de Entrada "
	custom.Defaults.TaskPriority = "high"
	custom.Defaults.Filter = "pending"
	data, err := toml.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "data", "logs"), cfg.Paths.LogDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "Caixa de Entrada", cfg.Defaults.ProjectName)
	assert.Equal(t, models.PriorityHigh, cfg.DefaultPriority())
	assert.Equal(t, models.FilterPending, cfg.DefaultFilter())
}

func TestEnvOverridesDataDir(t *testing.T) {
	isolate(t)
	dataDir := filepath.Join(t.TempDir(), "elsewhere")
	t.Setenv("POSTIT_DATA_DIR", dataDir)

	cfg, _, _, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.Paths.DataDir)
}

func TestXDGDataHome(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	cfg, _, _, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "postit"), cfg.Paths.DataDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"format":   "[logging]\nformat = \"xml\"\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
		"priority": "[defaults]\ntask_priority = \"urgent\"\n",
		"filter":   "[defaults]\nfilter = \"someday\"\n",
		"unknown":  "[paths]\nstaging_dir = \"/tmp\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "postit.toml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, _, _, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadPicksProjectFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("postit.toml", []byte("[defaults]\nproject_name = \"Work\"\n"), 0o644))

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, strings.HasSuffix(resolved, "postit.toml"))
	assert.Equal(t, "Work", cfg.Defaults.ProjectName)
}

func TestCreateSampleIsLoadable(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))

	cfg, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(home, ".local", "share", "postit"), cfg.Paths.DataDir)
}
