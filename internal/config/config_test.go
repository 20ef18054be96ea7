package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

// isolate points the user config at an empty directory and clears env overrides.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"JSONAI_LIMIT", "JSONAI_THRESHOLD", "JSONAI_MAX_BYTES", "JSONAI_LOG_LEVEL", "JSONAI_RESPECT_GITIGNORE"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 20, cfg.Search.Limit)
	assert.Equal(t, 50, cfg.Search.Threshold)
	assert.Equal(t, 0, cfg.Search.MaxBytes)
	assert.Equal(t, "text", cfg.Search.Match)
	assert.Equal(t, "match", cfg.Search.Output)
	assert.True(t, cfg.Paths.RespectGitignore)
	assert.False(t, cfg.Output.Pretty)
	assert.False(t, cfg.Output.CompactFiles)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	// Given: user, project, env and explicit layers that each set one key
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")
	writeFile(t, filepath.Join(xdg, "jsonai", "config.yaml"), "search:\n  limit: 5\n  threshold: 10\n  max_bytes: 100\n")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "search:\n  threshold: 30\n  max_bytes: 200\n")
	t.Setenv("JSONAI_MAX_BYTES", "300")

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeFile(t, explicit, "output:\n  pretty: true\n")

	// When: loading
	cfg, err := Load(dir, explicit)
	require.NoError(t, err)

	// Then: each key comes from the highest layer that sets it
	assert.Equal(t, 5, cfg.Search.Limit)
	assert.Equal(t, 30, cfg.Search.Threshold)
	assert.Equal(t, 300, cfg.Search.MaxBytes)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, "text", cfg.Search.Match, "unset keys keep defaults")
}

func TestLoad_ExplicitFalseOverridesDefaultTrue(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), "paths:\n  respect_gitignore: false\n  exclude: [\"fixtures/**\"]\n")

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.False(t, cfg.Paths.RespectGitignore)
	assert.Equal(t, []string{"fixtures/**"}, cfg.Paths.Exclude)
}

func TestLoad_EnvGitignore(t *testing.T) {
	isolate(t)
	t.Setenv("JSONAI_RESPECT_GITIGNORE", "false")
	t.Setenv("JSONAI_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.False(t, cfg.Paths.RespectGitignore)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		env     map[string]string
		code    string
	}{
		{name: "unknown key", project: "search:\n  limt: 5\n", code: jerrors.ErrCodeConfigInvalid},
		{name: "malformed yaml", project: "search: [", code: jerrors.ErrCodeConfigInvalid},
		{name: "negative limit", project: "search:\n  limit: -1\n", code: jerrors.ErrCodeConfigInvalid},
		{name: "bad match mode", project: "search:\n  match: semantic\n", code: jerrors.ErrCodeConfigInvalid},
		{name: "bad output mode", project: "search:\n  output: table\n", code: jerrors.ErrCodeConfigInvalid},
		{name: "bad env int", env: map[string]string{"JSONAI_LIMIT": "many"}, code: jerrors.ErrCodeConfigInvalid},
		{name: "bad env bool", env: map[string]string{"JSONAI_RESPECT_GITIGNORE": "sometimes"}, code: jerrors.ErrCodeConfigInvalid},
		{name: "bad level", env: map[string]string{"JSONAI_LOG_LEVEL": "loud"}, code: jerrors.ErrCodeConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			if tt.project != "" {
				writeFile(t, filepath.Join(dir, ProjectFileName), tt.project)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(dir, "")
			require.Error(t, err)
			assert.Equal(t, tt.code, jerrors.GetCode(err))
		})
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	isolate(t)

	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, jerrors.ErrCodeConfigNotFound, jerrors.GetCode(err))
	assert.Equal(t, jerrors.CategoryConfig, jerrors.GetCategory(err))
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := NewConfig()
	cfg.Search.Limit = 7
	cfg.Output.CompactFiles = true
	cfg.Paths.Exclude = []string{"testdata/**"}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGetUserConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "jsonai", "config.yaml"), GetUserConfigPath())
}
