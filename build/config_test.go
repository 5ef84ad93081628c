package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "luma.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	path := writeProject(t, `
name = "calc"
opt-level = 2
save-intermediates = true
files = ["util.lm", "main.lm"]
`)

	cfg, err := LoadProjectConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "calc", cfg.OutputName)
	assert.Equal(t, 2, cfg.OptLevel)
	assert.True(t, cfg.SaveTemps)
	assert.Equal(t, []string{"util.lm", "main.lm"}, cfg.Files)
}

func TestLoadProjectConfigBadOptLevel(t *testing.T) {
	path := writeProject(t, `opt-level = 9`)

	_, err := LoadProjectConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opt-level")
}

func TestLoadProjectConfigMissingFile(t *testing.T) {
	_, err := LoadProjectConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := BuildConfig{}
	assert.Equal(t, "obj", cfg.OutputDir())
	assert.Equal(t, "output", cfg.ExecutableName())

	cfg.SaveTemps = true
	cfg.OutputName = "app"
	assert.Equal(t, "output", cfg.OutputDir())
	assert.Equal(t, "app", cfg.ExecutableName())
}
