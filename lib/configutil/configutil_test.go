package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Password string `json:"password"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		// json5 comments are fine
		server: "smtp.example.org",
		port: 587,
	}`), 0o644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "smtp.example.org", cfg.Server)
	require.Equal(t, 587, cfg.Port)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"),
		[]byte(`{server: "smtp.example.org", port: 587}`), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"),
		[]byte(`{port: 2525}`), 0o644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "smtp.example.org", cfg.Server)
	require.Equal(t, 2525, cfg.Port)
}

func TestReadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_SMTP_PASSWORD", "hunter2")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path,
		[]byte(`{password: "${TEST_SMTP_PASSWORD}", server: "${TEST_UNSET_VAR}"}`), 0o644)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "hunter2", cfg.Password)
	require.Equal(t, "", cfg.Server)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
